package model

import "time"

// ScopeBreakdown splits the climate total across GHG Protocol scopes.
type ScopeBreakdown struct {
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
}

// CategoryBreakdown splits the climate total across reporting categories.
type CategoryBreakdown struct {
	Materials  float64 `json:"materials"`
	Packaging  float64 `json:"packaging"`
	Production float64 `json:"production"`
	Transport  float64 `json:"transport"`
	EndOfLife  float64 `json:"end_of_life"`
}

// StageBreakdown splits the climate total across lifecycle stages.
type StageBreakdown struct {
	RawMaterials float64 `json:"raw_materials"`
	Packaging    float64 `json:"packaging"`
	Processing   float64 `json:"processing"`
	Distribution float64 `json:"distribution"`
	EndOfLife    float64 `json:"end_of_life"`
}

// MaterialContribution is one entry in the ranked per-material breakdown.
// Percent is filled in by the orchestrator's finalize pass only.
type MaterialContribution struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
	Climate  float64  `json:"climate_kg_co2e"`
	Percent  float64  `json:"percent"`
	Category string   `json:"category"`
	Source   string   `json:"source,omitempty"`
	Tier     DataTier `json:"tier,omitempty"`
}

// FacilityContribution is one entry in the ranked per-facility breakdown.
type FacilityContribution struct {
	Name    string  `json:"name"`
	Climate float64 `json:"climate_kg_co2e"` // allocated emissions
	Percent float64 `json:"percent"`
	Scope1  float64 `json:"scope1"`
	Scope2  float64 `json:"scope2"`
}

// MaturationImpact is the separately reported maturation sub-block.
// TotalCO2e covers barrel allocation and warehouse energy only; the
// VOC/ozone figures are a different impact axis and are never folded in.
type MaturationImpact struct {
	BarrelTotalCO2e     float64 `json:"barrel_total_co2e"`
	BarrelPerLiter      float64 `json:"barrel_per_liter"`
	WarehouseTotalCO2e  float64 `json:"warehouse_total_co2e"`
	WarehousePerLiter   float64 `json:"warehouse_per_liter"`
	TotalCO2e           float64 `json:"total_maturation_co2e"`
	OutputVolume        float64 `json:"output_volume_l"`
	RetentionFactor     float64 `json:"retention_factor"`
	LossPercent         float64 `json:"loss_percent"`
	VOCMassKg           float64 `json:"voc_mass_kg"`
	OzonePotential      float64 `json:"ozone_potential_kg_ethene_eq"`
	GridFactorEstimated bool    `json:"grid_factor_estimated,omitempty"`
}

// QualityRating is the qualitative band for the weighted data-quality score.
type QualityRating string

const (
	RatingHigh   QualityRating = "High"
	RatingMedium QualityRating = "Medium"
	RatingLow    QualityRating = "Low"
)

// TierCoverage reports how many materials fall in one data tier.
type TierCoverage struct {
	Tier    DataTier `json:"tier"`
	Count   int      `json:"count"`
	Percent float64  `json:"percent"`
}

// UncertaintyEstimate is the propagated uncertainty on the climate total.
type UncertaintyEstimate struct {
	Relative float64 `json:"relative"` // 0-1, root-sum-of-squares across materials
	Low      float64 `json:"low_kg_co2e"`
	High     float64 `json:"high_kg_co2e"`
}

// SensitivityEntry reports the result range when one top contributor is
// perturbed by the configured fraction.
type SensitivityEntry struct {
	Name            string  `json:"name"`
	Share           float64 `json:"share"` // 0-1 of the climate total
	Low             float64 `json:"low_kg_co2e"`
	High            float64 `json:"high_kg_co2e"`
	HighlySensitive bool    `json:"highly_sensitive"`
}

// SensitivityReport holds the single-parameter sensitivity pass.
type SensitivityReport struct {
	Perturbation float64            `json:"perturbation"` // fraction, e.g. 0.20
	Entries      []SensitivityEntry `json:"entries,omitempty"`
}

// DataQualitySummary is the overall quality and uncertainty block.
type DataQualitySummary struct {
	Score       int                 `json:"score"` // 0-100 weighted tier score
	Rating      QualityRating       `json:"rating"`
	Coverage    []TierCoverage      `json:"coverage,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Uncertainty UncertaintyEstimate `json:"uncertainty"`
	Sensitivity SensitivityReport   `json:"sensitivity"`
}

// AggregatedImpactResult is the engine output for one assessment run.
// It is always computed fresh and replaced whole, never patched.
type AggregatedImpactResult struct {
	ID         string `json:"id"`
	Assessment string `json:"assessment_id,omitempty"`

	Totals     ImpactValues      `json:"totals"`
	Scopes     ScopeBreakdown    `json:"scopes"`
	Categories CategoryBreakdown `json:"categories"`
	GHG        GHGSplit          `json:"ghg"`
	Stages     StageBreakdown    `json:"stages"`

	Materials  []MaterialContribution `json:"materials,omitempty"`
	Facilities []FacilityContribution `json:"facilities,omitempty"`

	Quality    DataQualitySummary `json:"quality"`
	Maturation *MaturationImpact  `json:"maturation,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}
