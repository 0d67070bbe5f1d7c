package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// allocationTotals is the raw output of the facility allocation phase.
type allocationTotals struct {
	climate float64
	scope1  float64
	scope2  float64

	processingStage    float64
	productionCategory float64

	entries []model.FacilityContribution
	skipped int
}

// allocateSites distributes each facility's emissions to the assessed
// product by production-volume share and emission intensity:
//
//	allocated = functionalUnits × (share / 100) × intensity
//
// The allocated amount is split into scope 1 and scope 2 proportionally to
// the facility's own recorded totals. Allocations with zero share or a
// missing/zero-intensity facility are skipped silently; that is normal data,
// not an error.
func (e *Engine) allocateSites(sites []model.ProductionSiteAllocation, functionalUnits float64) allocationTotals {
	var at allocationTotals

	for _, site := range sites {
		share := sane(site.SharePercent)
		if share == 0 || site.Facility == nil || sane(site.Facility.EmissionIntensity) == 0 {
			at.skipped++
			continue
		}

		fac := site.Facility
		allocated := functionalUnits * (share / 100) * sane(fac.EmissionIntensity)
		if allocated <= 0 {
			at.skipped++
			continue
		}

		// Split proportionally to the facility's own scope 1 : scope 2
		// ratio. When both totals are zero the amount stays unsplit and
		// contributes to neither sub-scope, but is still counted.
		var s1, s2 float64
		facTotal := sane(fac.Scope1Total) + sane(fac.Scope2Total)
		if facTotal > 0 {
			s1 = allocated * sane(fac.Scope1Total) / facTotal
			s2 = allocated * sane(fac.Scope2Total) / facTotal
		} else {
			zap.L().Warn("allocation: facility has no scope totals, amount left unsplit",
				zap.String("facility", fac.Name),
				zap.Float64("allocated", allocated),
			)
		}

		at.climate += allocated
		at.scope1 += s1
		at.scope2 += s2
		at.processingStage += allocated
		at.productionCategory += allocated

		at.entries = append(at.entries, model.FacilityContribution{
			Name:    fac.Name,
			Climate: allocated,
			Scope1:  s1,
			Scope2:  s2,
		})
	}

	// Descending by allocated emissions; stable to preserve input order on ties.
	sort.SliceStable(at.entries, func(i, j int) bool {
		return at.entries[i].Climate > at.entries[j].Climate
	})

	return at
}
