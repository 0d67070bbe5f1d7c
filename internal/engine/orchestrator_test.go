package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdora-group/footprint-cli/internal/model"
)

func materialsOf(values ...float64) []model.MaterialRecord {
	names := []string{"Barley", "Glass Bottle", "Cork", "Label", "Yeast", "Cap", "Carton"}
	out := make([]model.MaterialRecord, len(values))
	for i, v := range values {
		out[i] = model.MaterialRecord{
			Name:    names[i%len(names)],
			Tier:    model.TierSecondary,
			Impacts: model.ImpactValues{Climate: v},
		}
	}
	return out
}

func TestAggregate_ScenarioFiveMaterials(t *testing.T) {
	e := New(DefaultTables())

	result, err := e.Aggregate(context.Background(), Input{
		Materials: materialsOf(40, 30, 20, 5, 5),
	})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.Totals.Climate, 1e-9)
	require.Len(t, result.Materials, 5)

	// Sorted descending, percentages against the final grand total.
	wantPercents := []float64{40, 30, 20, 5, 5}
	for i, want := range wantPercents {
		assert.InDelta(t, want, result.Materials[i].Percent, 1e-9)
	}
	assert.InDelta(t, 40.0, result.Materials[0].Climate, 1e-9)
}

func TestAggregate_PercentagesSumToHundred(t *testing.T) {
	e := New(DefaultTables())

	result, err := e.Aggregate(context.Background(), Input{
		Materials: materialsOf(12.5, 3.75, 0.921, 44.4),
		Sites: []model.ProductionSiteAllocation{
			site("Distillery", 60, 2, 3, 1),
		},
	})
	require.NoError(t, err)

	var sum float64
	for _, m := range result.Materials {
		sum += m.Percent
	}
	for _, f := range result.Facilities {
		sum += f.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestAggregate_FacilityScenario(t *testing.T) {
	e := New(DefaultTables())

	result, err := e.Aggregate(context.Background(), Input{
		Sites: []model.ProductionSiteAllocation{
			site("Distillery A", 50, 10, 6, 4),
		},
		FunctionalUnits: 1,
	})
	require.NoError(t, err)

	require.Len(t, result.Facilities, 1)
	fac := result.Facilities[0]
	assert.InDelta(t, 5.0, fac.Climate, 1e-9)
	assert.InDelta(t, 3.0, fac.Scope1, 1e-9)
	assert.InDelta(t, 2.0, fac.Scope2, 1e-9)
	assert.InDelta(t, 100.0, fac.Percent, 1e-9)

	assert.InDelta(t, 5.0, result.Scopes.Scope1+result.Scopes.Scope2, 1e-9)
	assert.InDelta(t, 5.0, result.Stages.Processing, 1e-9)
}

func TestAggregate_EmptyInputWellFormedZeroResult(t *testing.T) {
	e := New(DefaultTables())

	result, err := e.Aggregate(context.Background(), Input{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Totals.Climate)
	assert.Empty(t, result.Materials)
	assert.Empty(t, result.Facilities)
	assert.Equal(t, model.RatingLow, result.Quality.Rating)
	assert.Equal(t, 0, result.Quality.Score)
	assert.Nil(t, result.Maturation)
	assert.NotEmpty(t, result.ID)
}

func TestAggregate_ZeroTotalZeroPercents(t *testing.T) {
	e := New(DefaultTables())

	// One material with quantity but no climate impact: total stays zero
	// and no percentage may be NaN.
	result, err := e.Aggregate(context.Background(), Input{
		Materials: []model.MaterialRecord{
			{Name: "Water", Quantity: 700},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Totals.Climate)
	for _, m := range result.Materials {
		assert.Equal(t, 0.0, m.Percent)
	}
}

func TestAggregate_MaterialAndFacilityStreamsMerge(t *testing.T) {
	e := New(DefaultTables())

	result, err := e.Aggregate(context.Background(), Input{
		Materials: materialsOf(6),
		Sites: []model.ProductionSiteAllocation{
			site("Distillery", 100, 4, 1, 1),
		},
	})
	require.NoError(t, err)

	// 6 from materials + 4 allocated.
	assert.InDelta(t, 10.0, result.Totals.Climate, 1e-9)
	// Material percent normalized against the merged total, not its own stream.
	assert.InDelta(t, 60.0, result.Materials[0].Percent, 1e-9)
	assert.InDelta(t, 40.0, result.Facilities[0].Percent, 1e-9)
}

func TestAggregate_MaturationBlockSeparateAndAdded(t *testing.T) {
	e := New(DefaultTables())
	p := profile()

	result, err := e.Aggregate(context.Background(), Input{
		Materials:  materialsOf(10),
		Maturation: &p,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Maturation)
	// Maturation CO2e rides on top of the stream total...
	assert.InDelta(t, 10.0+result.Maturation.TotalCO2e, result.Totals.Climate, 1e-9)
	// ...but the percentage base stays the material+facility streams.
	assert.InDelta(t, 100.0, result.Materials[0].Percent, 1e-9)
	// Ozone figure reported, never in a CO2e total.
	assert.Greater(t, result.Maturation.OzonePotential, 0.0)
	assert.InDelta(t,
		result.Maturation.BarrelTotalCO2e+result.Maturation.WarehouseTotalCO2e,
		result.Maturation.TotalCO2e, 1e-9)
}

func TestAggregate_MaturationScopes(t *testing.T) {
	e := New(DefaultTables())
	p := profile() // electricity

	result, err := e.Aggregate(context.Background(), Input{Maturation: &p})
	require.NoError(t, err)

	assert.InDelta(t, result.Maturation.BarrelTotalCO2e, result.Scopes.Scope3, 1e-9)
	assert.InDelta(t, result.Maturation.WarehouseTotalCO2e, result.Scopes.Scope2, 1e-9)

	gas := profile()
	gas.EnergySource = "natural_gas"
	result, err = e.Aggregate(context.Background(), Input{Maturation: &gas})
	require.NoError(t, err)
	assert.InDelta(t, result.Maturation.WarehouseTotalCO2e, result.Scopes.Scope1, 1e-9)
}

func TestAggregate_FunctionalUnitsDefaultToOne(t *testing.T) {
	e := New(DefaultTables())
	sites := []model.ProductionSiteAllocation{site("A", 50, 10, 1, 1)}

	explicit, err := e.Aggregate(context.Background(), Input{Sites: sites, FunctionalUnits: 1})
	require.NoError(t, err)
	defaulted, err := e.Aggregate(context.Background(), Input{Sites: sites})
	require.NoError(t, err)

	assert.InDelta(t, explicit.Totals.Climate, defaulted.Totals.Climate, 1e-9)
}

func TestAggregate_DeterministicForSameInput(t *testing.T) {
	e := New(DefaultTables())
	in := Input{
		Materials: materialsOf(3, 1, 4, 1, 5),
		Sites:     []model.ProductionSiteAllocation{site("A", 30, 7, 2, 3)},
	}

	a, err := e.Aggregate(context.Background(), in)
	require.NoError(t, err)
	b, err := e.Aggregate(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, a.Totals, b.Totals)
	assert.Equal(t, a.Scopes, b.Scopes)
	require.Equal(t, len(a.Materials), len(b.Materials))
	for i := range a.Materials {
		assert.Equal(t, a.Materials[i], b.Materials[i])
	}
}
