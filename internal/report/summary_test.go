package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdora-group/footprint-cli/internal/model"
)

func sampleResult() *model.AggregatedImpactResult {
	return &model.AggregatedImpactResult{
		ID:     "r-1",
		Totals: model.ImpactValues{Climate: 2.845, WaterConsumption: 12.4},
		Scopes: model.ScopeBreakdown{Scope1: 0.3, Scope2: 0.2, Scope3: 2.345},
		Categories: model.CategoryBreakdown{
			Materials: 1.2, Packaging: 1.145, Production: 0.5,
		},
		GHG: model.GHGSplit{Fossil: 2.4, Biogenic: 0.445},
		Materials: []model.MaterialContribution{
			{Name: "Glass Bottle", Climate: 1.1, Percent: 38.7, Tier: model.TierPrimary},
			{Name: "Malted Barley", Climate: 0.9, Percent: 31.6, Tier: model.TierSecondary},
		},
		Facilities: []model.FacilityContribution{
			{Name: "Distillery A", Climate: 0.5, Percent: 17.6, Scope1: 0.3, Scope2: 0.2},
		},
		Quality: model.DataQualitySummary{
			Score:  85,
			Rating: model.RatingHigh,
			Coverage: []model.TierCoverage{
				{Tier: model.TierPrimary, Count: 1, Percent: 50},
				{Tier: model.TierSecondary, Count: 1, Percent: 50},
			},
			Uncertainty: model.UncertaintyEstimate{Relative: 0.12, Low: 2.5, High: 3.19},
			Sensitivity: model.SensitivityReport{
				Perturbation: 0.20,
				Entries: []model.SensitivityEntry{
					{Name: "Glass Bottle", Share: 0.387, Low: 2.625, High: 3.065, HighlySensitive: true},
				},
			},
			Warnings: []string{"1 materials rely on modelled proxy data"},
		},
	}
}

func TestWriteSummary_CoreSections(t *testing.T) {
	var buf bytes.Buffer
	a := &model.Assessment{
		ProductName:         "Highland Single Malt",
		FunctionalUnit:      1,
		FunctionalUnitLabel: "700ml bottle",
	}

	WriteSummary(&buf, a, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "Impact summary: Highland Single Malt")
	assert.Contains(t, out, "700ml bottle")
	assert.Contains(t, out, "2.845 kg CO2e")
	assert.Contains(t, out, "Scope 3")
	assert.Contains(t, out, "Glass Bottle")
	assert.Contains(t, out, "Distillery A")
	assert.Contains(t, out, "85/100 (High)")
	assert.Contains(t, out, "[dominant]")
	assert.Contains(t, out, "modelled proxy data")
}

func TestWriteSummary_NilAssessment(t *testing.T) {
	var buf bytes.Buffer

	WriteSummary(&buf, nil, sampleResult())
	assert.Contains(t, buf.String(), "Impact summary: assessment")
}

func TestWriteSummary_MaturationBlock(t *testing.T) {
	var buf bytes.Buffer
	r := sampleResult()
	r.Maturation = &model.MaturationImpact{
		BarrelTotalCO2e:     650,
		BarrelPerLiter:      0.325,
		WarehouseTotalCO2e:  373,
		WarehousePerLiter:   0.2,
		TotalCO2e:           1023,
		OutputVolume:        1568.7,
		LossPercent:         21.6,
		VOCMassKg:           216.5,
		OzonePotential:      86.4,
		GridFactorEstimated: true,
	}

	WriteSummary(&buf, nil, r)
	out := buf.String()

	assert.Contains(t, out, "Maturation")
	assert.Contains(t, out, "reported separately")
	assert.Contains(t, out, "grid factor estimated")
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short"))
	long := "An Extremely Long Supplier Material Name"
	got := truncateName(long)
	assert.Len(t, got, 30)
	assert.Contains(t, got, "...")
}
