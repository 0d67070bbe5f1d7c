package engine

import (
	"math"

	"go.uber.org/zap"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// computeMaturation runs the three independent maturation sub-computations
// and combines barrel allocation and warehouse energy additively into
// TotalCO2e. The evaporative VOC/ozone figures are a different impact axis
// (photochemical ozone formation) and are deliberately excluded from every
// CO2e figure.
func (e *Engine) computeMaturation(p model.MaturationProfile) model.MaturationImpact {
	out := model.MaturationImpact{RetentionFactor: 1}

	barrels := float64(p.BarrelCount)
	fillTotal := sane(p.FillVolume) * barrels
	years := sane(p.DurationMonths) / 12

	// 1. Barrel allocation (cut-off method).
	burden, source := e.tables.BarrelBurden(p.BarrelType, p.BurdenOverride, p.UseCount)
	out.BarrelTotalCO2e = burden * barrels
	if fillTotal > 0 {
		out.BarrelPerLiter = out.BarrelTotalCO2e / fillTotal
	}
	zap.L().Debug("maturation: barrel burden resolved",
		zap.String("barrel_type", p.BarrelType),
		zap.Int("use_count", p.UseCount),
		zap.String("resolved_by", source),
		zap.Float64("burden_per_barrel", burden),
	)

	// 2. Evaporative loss (angel's share). Fractional years are exact.
	if years > 0 && fillTotal > 0 {
		ratePercent, _ := e.tables.EvaporationRate(p.ClimateZone)
		retention := math.Pow(1-ratePercent/100, years)

		out.RetentionFactor = retention
		out.OutputVolume = fillTotal * retention
		out.LossPercent = (1 - retention) * 100

		lostVolume := fillTotal - out.OutputVolume
		ethanolMass := lostVolume * e.tables.Spirit.FillStrength * e.tables.Spirit.EthanolDensity
		out.VOCMassKg = ethanolMass
		out.OzonePotential = ethanolMass * e.tables.Spirit.EthanolPOCP
	} else {
		out.OutputVolume = fillTotal
	}

	// 3. Warehouse energy.
	totalKWh := sane(p.EnergyPerBarrelYr) * barrels * years
	factor, estimated := e.energyFactor(p.EnergySource, p.CountryCode)
	out.GridFactorEstimated = estimated
	out.WarehouseTotalCO2e = totalKWh * factor
	if fillTotal > 0 {
		out.WarehousePerLiter = out.WarehouseTotalCO2e / fillTotal
	}

	// Barrel + warehouse only; never the ozone figure.
	out.TotalCO2e = out.BarrelTotalCO2e + out.WarehouseTotalCO2e

	return out
}

// energyFactor returns the kg CO2e per kWh for a warehouse energy source.
// Electricity resolves through the country grid table; an unknown country
// uses the documented global-average factor, reported as estimated and
// logged, never an arbitrary country's value. Unknown sources are treated
// as electricity for the same reason.
func (e *Engine) energyFactor(source, countryCode string) (float64, bool) {
	key := normalizeKey(source)
	if key != "electricity" {
		if v, ok := e.tables.Energy.Factors[key]; ok {
			return v, false
		}
	}

	factor, estimated := e.tables.GridFactor(countryCode)
	if estimated {
		zap.L().Warn("maturation: no grid factor for country, using global average",
			zap.String("country", countryCode),
			zap.String("energy_source", source),
			zap.Float64("factor", factor),
		)
	}
	return factor, estimated
}
