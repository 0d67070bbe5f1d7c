package engine

import (
	"fmt"
	"math"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// scoreQuality computes the tier-weighted data-quality score and coverage
// summary for a material set. Zero materials yields score 0, rating Low,
// and empty coverage.
func (e *Engine) scoreQuality(materials []model.MaterialRecord, zeroImpact int) model.DataQualitySummary {
	summary := model.DataQualitySummary{Rating: model.RatingLow}

	total := len(materials)
	if total == 0 {
		return summary
	}

	counts := map[model.DataTier]int{}
	for _, rec := range materials {
		counts[clampTier(rec.Tier)]++
	}

	var weighted float64
	for tier, n := range counts {
		weighted += float64(n) * e.tables.Quality.TierWeights[int(tier)]
	}
	summary.Score = int(math.Round(weighted / float64(total)))

	switch {
	case summary.Score >= e.tables.Quality.HighMin:
		summary.Rating = model.RatingHigh
	case summary.Score >= e.tables.Quality.MediumMin:
		summary.Rating = model.RatingMedium
	default:
		summary.Rating = model.RatingLow
	}

	for _, tier := range []model.DataTier{model.TierPrimary, model.TierSecondary, model.TierProxy} {
		n := counts[tier]
		if n == 0 {
			continue
		}
		summary.Coverage = append(summary.Coverage, model.TierCoverage{
			Tier:    tier,
			Count:   n,
			Percent: float64(n) / float64(total) * 100,
		})
	}

	if n := counts[model.TierProxy]; n > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d of %d materials rely on modelled proxy data (tier 3)", n, total))
	}
	if zeroImpact > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d materials have positive quantity but zero climate impact", zeroImpact))
	}

	return summary
}

// clampTier folds out-of-range tiers to the conservative modelled-proxy tier.
func clampTier(t model.DataTier) model.DataTier {
	if t < model.TierPrimary || t > model.TierProxy {
		return model.TierProxy
	}
	return t
}
