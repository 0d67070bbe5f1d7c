package engine

import (
	"go.uber.org/zap"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// materialTotals is the raw output of the material accumulation phase.
// Breakdown entries carry an unresolved Percent; only the orchestrator's
// finalize pass may normalize against the grand total.
type materialTotals struct {
	impacts model.ImpactValues
	scope3  float64
	ghg     model.GHGSplit

	rawMaterialsStage float64
	packagingStage    float64

	materialsCategory float64
	packagingCategory float64

	entries    []model.MaterialContribution
	zeroImpact int // records with zero climate but positive quantity
}

// accumulateMaterials sums pre-normalized per-material impact values into
// running totals. Impact values are already expressed per functional unit,
// so they are never re-multiplied by quantity. Every material's climate
// contribution is attributed to scope 3: materials are upstream purchased
// goods, never the reporter's own scope 1/2.
func (e *Engine) accumulateMaterials(materials []model.MaterialRecord) materialTotals {
	var mt materialTotals

	for _, rec := range materials {
		impacts := saneImpacts(rec.Impacts)
		climate := impacts.Climate

		mt.impacts.Add(impacts)
		mt.scope3 += climate

		split := e.tables.SplitGHG(rec)
		mt.ghg.Fossil += split.Fossil
		mt.ghg.Biogenic += split.Biogenic
		mt.ghg.LandUseChange += split.LandUseChange

		class := e.classifier.Classify(rec.Name, rec.Category)
		if class == ClassPackaging {
			mt.packagingCategory += climate
			mt.packagingStage += climate
		} else {
			mt.materialsCategory += climate
			mt.rawMaterialsStage += climate
		}

		if climate == 0 {
			if rec.Quantity > 0 {
				mt.zeroImpact++
				zap.L().Warn("accumulator: zero climate value for positive quantity",
					zap.String("material", rec.Name),
					zap.Float64("quantity", rec.Quantity),
					zap.String("source", rec.Source),
				)
			}
			continue
		}

		mt.entries = append(mt.entries, model.MaterialContribution{
			Name:     rec.Name,
			Quantity: sane(rec.Quantity),
			Unit:     rec.Unit,
			Climate:  climate,
			Category: string(class),
			Source:   rec.Source,
			Tier:     rec.Tier,
		})
	}

	return mt
}

// saneImpacts coerces malformed numeric fields to zero across all impact
// categories.
func saneImpacts(v model.ImpactValues) model.ImpactValues {
	return model.ImpactValues{
		Climate:                  sane(v.Climate),
		WaterConsumption:         sane(v.WaterConsumption),
		WaterScarcity:            sane(v.WaterScarcity),
		LandUse:                  sane(v.LandUse),
		TerrestrialEcotoxicity:   sane(v.TerrestrialEcotoxicity),
		FreshwaterEutrophication: sane(v.FreshwaterEutrophication),
		TerrestrialAcidification: sane(v.TerrestrialAcidification),
		FossilScarcity:           sane(v.FossilScarcity),
	}
}
