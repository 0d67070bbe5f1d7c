package engine

import (
	"math"
	"strings"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// resolver is one step in an ordered fallback chain for a numeric field.
// name identifies the step for provenance and tests.
type resolver struct {
	name string
	fn   func() (float64, bool)
}

// resolveFirst walks the chain and returns the first value offered, together
// with the name of the step that supplied it. The last step in every chain
// is expected to always succeed.
func resolveFirst(chain []resolver) (float64, string) {
	for _, r := range chain {
		if v, ok := r.fn(); ok {
			return v, r.name
		}
	}
	return 0, ""
}

// BarrelBurden resolves the first-fill manufacturing burden per barrel:
// explicit override, then the type-keyed default, then the global fallback.
// Reused barrels (use count >= 2) bypass the chain entirely and carry the
// fixed reconditioning burden.
func (t Tables) BarrelBurden(barrelType string, override *float64, useCount int) (float64, string) {
	if useCount >= 2 {
		return t.Barrels.Reconditioning, "reconditioning"
	}
	return resolveFirst([]resolver{
		{"override", func() (float64, bool) {
			if override != nil && sane(*override) > 0 {
				return *override, true
			}
			return 0, false
		}},
		{"type_default", func() (float64, bool) {
			v, ok := t.Barrels.Burdens[normalizeKey(barrelType)]
			return v, ok
		}},
		{"global_fallback", func() (float64, bool) {
			return t.Barrels.Fallback, true
		}},
	})
}

// EvaporationRate resolves the annual volume loss rate (percent per year)
// for a climate zone, falling back to the table default.
func (t Tables) EvaporationRate(climateZone string) (float64, string) {
	return resolveFirst([]resolver{
		{"zone", func() (float64, bool) {
			v, ok := t.Evaporation.Zones[normalizeKey(climateZone)]
			return v, ok
		}},
		{"fallback", func() (float64, bool) {
			return t.Evaporation.Fallback, true
		}},
	})
}

// GridFactor resolves an electricity grid factor for an optional ISO country
// code. The second return reports whether the global-average fallback was
// used; callers log that condition rather than fail.
func (t Tables) GridFactor(countryCode string) (float64, bool) {
	if v, ok := t.Energy.Grid.Countries[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return v, false
	}
	return t.Energy.Grid.GlobalAverage, true
}

// SplitGHG resolves the gas-origin split for one material: the record's
// explicit split when present, otherwise the default fossil/biogenic ratio
// applied to the climate value.
func (t Tables) SplitGHG(rec model.MaterialRecord) model.GHGSplit {
	if rec.GHGSplit != nil {
		return model.GHGSplit{
			Fossil:        sane(rec.GHGSplit.Fossil),
			Biogenic:      sane(rec.GHGSplit.Biogenic),
			LandUseChange: sane(rec.GHGSplit.LandUseChange),
		}
	}
	climate := sane(rec.Impacts.Climate)
	return model.GHGSplit{
		Fossil:   climate * t.GHG.FossilShare,
		Biogenic: climate * t.GHG.BiogenicShare,
	}
}

// normalizeKey lowercases a lookup key and folds spaces and hyphens to
// underscores, so "Quarter Cask" matches the "quarter_cask" table entry.
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "_")
	return strings.ReplaceAll(k, "-", "_")
}

// sane coerces NaN and infinities to zero. Any field expected to be numeric
// that arrives malformed is treated as zero, never propagated as an error.
func sane(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
