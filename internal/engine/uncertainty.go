package engine

import (
	"math"
	"sort"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// estimateUncertainty propagates material-level uncertainty to the climate
// total using a root-sum-of-squares combination, weighting each material's
// relative uncertainty by its share of the total:
//
//	U = sqrt(Σ (share_i × u_i)²)
//
// A record's relative uncertainty comes from its explicit confidence score
// when present ((100−confidence)/100), otherwise from the tier default.
func (e *Engine) estimateUncertainty(materials []model.MaterialRecord, totalClimate float64) model.UncertaintyEstimate {
	if len(materials) == 0 || totalClimate == 0 {
		return model.UncertaintyEstimate{}
	}

	var sumSquares float64
	for _, rec := range materials {
		share := sane(rec.Impacts.Climate) / totalClimate
		u := e.relativeUncertainty(rec)
		sumSquares += (share * u) * (share * u)
	}

	rel := math.Sqrt(sumSquares)
	return model.UncertaintyEstimate{
		Relative: rel,
		Low:      totalClimate * (1 - rel),
		High:     totalClimate * (1 + rel),
	}
}

func (e *Engine) relativeUncertainty(rec model.MaterialRecord) float64 {
	if rec.Confidence != nil {
		c := sane(*rec.Confidence)
		if c < 0 {
			c = 0
		}
		if c > 100 {
			c = 100
		}
		return (100 - c) / 100
	}
	return e.tables.Quality.TierUncertainty[int(clampTier(rec.Tier))]
}

// sensitivity perturbs the top-N climate contributors by the configured
// fraction and reports the resulting range on the grand total. A material
// whose climate share exceeds the flag threshold is marked highly sensitive.
func (e *Engine) sensitivity(entries []model.MaterialContribution, totalClimate float64) model.SensitivityReport {
	report := model.SensitivityReport{Perturbation: e.tables.Sensitivity.Perturbation}
	if len(entries) == 0 || totalClimate == 0 {
		return report
	}

	ranked := make([]model.MaterialContribution, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Climate) > math.Abs(ranked[j].Climate)
	})

	topN := e.tables.Sensitivity.TopN
	if topN > len(ranked) {
		topN = len(ranked)
	}

	for _, entry := range ranked[:topN] {
		swing := math.Abs(entry.Climate) * report.Perturbation
		share := entry.Climate / totalClimate
		report.Entries = append(report.Entries, model.SensitivityEntry{
			Name:            entry.Name,
			Share:           share,
			Low:             totalClimate - swing,
			High:            totalClimate + swing,
			HighlySensitive: math.Abs(share) > e.tables.Sensitivity.FlagShare,
		})
	}

	return report
}
