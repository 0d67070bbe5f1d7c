package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdora-group/footprint-cli/internal/model"
)

func profile() model.MaturationProfile {
	return model.MaturationProfile{
		BarrelType:        "barrique",
		UseCount:          1,
		BarrelVolume:      225,
		BarrelCount:       10,
		FillVolume:        200,
		DurationMonths:    144, // 12 years
		ClimateZone:       "temperate",
		EnergySource:      "electricity",
		EnergyPerBarrelYr: 15,
		CountryCode:       "GB",
	}
}

func TestMaturation_BarrelAllocationNewBarrels(t *testing.T) {
	e := New(DefaultTables())
	p := profile()

	m := e.computeMaturation(p)

	// 65 kg CO2e per new barrique × 10 barrels.
	assert.InDelta(t, 650, m.BarrelTotalCO2e, 1e-9)
	// Per litre over 200 L × 10 barrels.
	assert.InDelta(t, 650.0/2000, m.BarrelPerLiter, 1e-9)
}

func TestMaturation_ReusedBarrelsFixedReconditioning(t *testing.T) {
	e := New(DefaultTables())
	p := profile()
	p.UseCount = 3
	override := 999.0
	p.BurdenOverride = &override

	m := e.computeMaturation(p)

	// Reconditioning burden regardless of type or override: 5 × 10.
	assert.InDelta(t, 50, m.BarrelTotalCO2e, 1e-9)
}

func TestMaturation_BarrelTotalScalesLinearlyInCount(t *testing.T) {
	e := New(DefaultTables())

	one := profile()
	one.BarrelCount = 1
	many := profile()
	many.BarrelCount = 37

	mOne := e.computeMaturation(one)
	mMany := e.computeMaturation(many)

	assert.Equal(t, mOne.BarrelTotalCO2e*37, mMany.BarrelTotalCO2e)
	assert.InDelta(t, mOne.WarehouseTotalCO2e*37, mMany.WarehouseTotalCO2e, 1e-9)
}

func TestMaturation_AngelsShareTemperateTwelveYears(t *testing.T) {
	e := New(DefaultTables())
	p := profile()

	m := e.computeMaturation(p)

	// retention = 0.98^12 ≈ 0.7847
	want := math.Pow(0.98, 12)
	assert.InDelta(t, want, m.RetentionFactor, 1e-12)
	assert.InDelta(t, 2000*want, m.OutputVolume, 1e-9)
	assert.InDelta(t, (1-want)*100, m.LossPercent, 1e-9)
}

func TestMaturation_FractionalYearsExact(t *testing.T) {
	e := New(DefaultTables())
	p := profile()
	p.DurationMonths = 30 // 2.5 years

	m := e.computeMaturation(p)

	want := math.Pow(0.98, 2.5)
	assert.InDelta(t, want, m.RetentionFactor, 1e-12)
}

func TestMaturation_VOCAndOzoneFigures(t *testing.T) {
	e := New(DefaultTables())
	p := profile()

	m := e.computeMaturation(p)

	lost := 2000 * (1 - math.Pow(0.98, 12))
	ethanolMass := lost * 0.635 * 0.789
	assert.InDelta(t, ethanolMass, m.VOCMassKg, 1e-9)
	assert.InDelta(t, ethanolMass*0.399, m.OzonePotential, 1e-9)
}

func TestMaturation_OzoneExcludedFromCO2eTotal(t *testing.T) {
	e := New(DefaultTables())
	p := profile()

	m := e.computeMaturation(p)

	assert.Greater(t, m.OzonePotential, 0.0)
	// total = barrel + warehouse only.
	assert.InDelta(t, m.BarrelTotalCO2e+m.WarehouseTotalCO2e, m.TotalCO2e, 1e-9)
}

func TestMaturation_WarehouseEnergyElectricity(t *testing.T) {
	e := New(DefaultTables())
	p := profile()

	m := e.computeMaturation(p)

	// 15 kWh × 10 barrels × 12 years × 0.207 (GB grid).
	assert.InDelta(t, 15*10*12*0.207, m.WarehouseTotalCO2e, 1e-9)
	assert.False(t, m.GridFactorEstimated)
}

func TestMaturation_UnknownCountryUsesGlobalAverage(t *testing.T) {
	e := New(DefaultTables())
	p := profile()
	p.CountryCode = ""

	m := e.computeMaturation(p)

	assert.True(t, m.GridFactorEstimated)
	assert.InDelta(t, 15*10*12*0.436, m.WarehouseTotalCO2e, 1e-9)
}

func TestMaturation_RenewableEnergyZero(t *testing.T) {
	e := New(DefaultTables())
	p := profile()
	p.EnergySource = "renewable"

	m := e.computeMaturation(p)

	assert.Equal(t, 0.0, m.WarehouseTotalCO2e)
	assert.False(t, m.GridFactorEstimated)
}

func TestMaturation_NaturalGasFactor(t *testing.T) {
	e := New(DefaultTables())
	p := profile()
	p.EnergySource = "natural_gas"

	m := e.computeMaturation(p)

	assert.InDelta(t, 15*10*12*0.202, m.WarehouseTotalCO2e, 1e-9)
}

func TestMaturation_ZeroDuration(t *testing.T) {
	e := New(DefaultTables())
	p := profile()
	p.DurationMonths = 0

	m := e.computeMaturation(p)

	assert.Equal(t, 1.0, m.RetentionFactor)
	assert.Equal(t, 2000.0, m.OutputVolume)
	assert.Equal(t, 0.0, m.VOCMassKg)
	assert.Equal(t, 0.0, m.WarehouseTotalCO2e)
}
