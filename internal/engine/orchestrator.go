package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// Engine is the life-cycle impact aggregation engine. It is pure and holds
// no per-request state; one Engine may serve concurrent aggregations.
type Engine struct {
	tables     Tables
	classifier Classifier
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClassifier substitutes the material classification strategy.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// New builds an engine around the given factor tables.
func New(tables Tables, opts ...Option) *Engine {
	e := &Engine{
		tables:     tables,
		classifier: NewTermClassifier(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is the fully materialized batch for one assessed entity. All
// external lookups happen before the engine runs; there is no I/O inside.
type Input struct {
	Materials       []model.MaterialRecord
	Sites           []model.ProductionSiteAllocation
	Maturation      *model.MaturationProfile
	FunctionalUnits float64 // defaults to 1 when <= 0
}

// Aggregate runs the full aggregation for one assessment: material
// accumulation and facility allocation fan out concurrently, join, and only
// then does the finalize pass normalize percentages against the final grand
// total. Missing inputs produce a well-formed all-zero result, never an
// error; the engine has no fatal conditions of its own.
func (e *Engine) Aggregate(ctx context.Context, in Input) (*model.AggregatedImpactResult, error) {
	functionalUnits := in.FunctionalUnits
	if functionalUnits <= 0 {
		functionalUnits = 1
	}

	var (
		mt  materialTotals
		at  allocationTotals
		mat *model.MaturationImpact
	)

	// The two contribution streams have no data dependency; the join below
	// is the barrier before any percentage is computed.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		mt = e.accumulateMaterials(in.Materials)
		return nil
	})
	g.Go(func() error {
		at = e.allocateSites(in.Sites, functionalUnits)
		return nil
	})
	if in.Maturation != nil {
		profile := *in.Maturation
		g.Go(func() error {
			m := e.computeMaturation(profile)
			mat = &m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &model.AggregatedImpactResult{
		ID:         uuid.New().String(),
		Totals:     mt.impacts,
		ComputedAt: time.Now().UTC(),
	}

	result.Scopes = model.ScopeBreakdown{
		Scope1: at.scope1,
		Scope2: at.scope2,
		Scope3: mt.scope3,
	}
	result.Categories = model.CategoryBreakdown{
		Materials:  mt.materialsCategory,
		Packaging:  mt.packagingCategory,
		Production: at.productionCategory,
	}
	result.GHG = mt.ghg
	result.Stages = model.StageBreakdown{
		RawMaterials: mt.rawMaterialsStage,
		Packaging:    mt.packagingStage,
		Processing:   at.processingStage,
	}

	// Grand climate total for normalization: the material and facility
	// streams only. Maturation is reported in its own sub-block and added
	// on top of the totals afterwards.
	grandTotal := mt.impacts.Climate + at.climate
	result.Totals.Climate = grandTotal

	result.Materials = finalizePercentages(mt.entries, grandTotal)
	result.Facilities = finalizeFacilityPercentages(at.entries, grandTotal)

	if mat != nil {
		result.Maturation = mat
		result.Totals.Climate += mat.TotalCO2e
		result.Categories.Production += mat.TotalCO2e
		result.Stages.Processing += mat.TotalCO2e
		// Barrels are purchased goods; warehouse energy follows its source.
		result.Scopes.Scope3 += mat.BarrelTotalCO2e
		if normalizeKey(in.Maturation.EnergySource) == "electricity" {
			result.Scopes.Scope2 += mat.WarehouseTotalCO2e
		} else {
			result.Scopes.Scope1 += mat.WarehouseTotalCO2e
		}
	}

	result.Quality = e.scoreQuality(in.Materials, mt.zeroImpact)
	result.Quality.Uncertainty = e.estimateUncertainty(in.Materials, grandTotal)
	result.Quality.Sensitivity = e.sensitivity(mt.entries, grandTotal)

	zap.L().Info("aggregation complete",
		zap.Float64("climate_total", result.Totals.Climate),
		zap.Int("materials", len(in.Materials)),
		zap.Int("facilities", len(result.Facilities)),
		zap.Int("skipped_allocations", at.skipped),
		zap.Int("quality_score", result.Quality.Score),
		zap.String("quality_rating", string(result.Quality.Rating)),
	)

	return result, nil
}

// finalizePercentages fills in each entry's share of the final grand total
// and ranks entries descending by absolute contribution. A zero total maps
// every percentage to 0 rather than NaN. Shares outside [0,100] are legal
// when end-of-life credits push parts of the total negative; they are
// annotated in the log, not clamped.
func finalizePercentages(entries []model.MaterialContribution, grandTotal float64) []model.MaterialContribution {
	out := make([]model.MaterialContribution, len(entries))
	copy(out, entries)

	for i := range out {
		out[i].Percent = percentOf(out[i].Climate, grandTotal)
		if out[i].Percent < 0 || out[i].Percent > 100 {
			zap.L().Info("finalize: contribution share outside [0,100], likely avoided-burden credit",
				zap.String("material", out[i].Name),
				zap.Float64("percent", out[i].Percent),
			)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Climate) > math.Abs(out[j].Climate)
	})
	return out
}

func finalizeFacilityPercentages(entries []model.FacilityContribution, grandTotal float64) []model.FacilityContribution {
	out := make([]model.FacilityContribution, len(entries))
	copy(out, entries)

	for i := range out {
		out[i].Percent = percentOf(out[i].Climate, grandTotal)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Climate) > math.Abs(out[j].Climate)
	})
	return out
}

func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
