package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdora-group/footprint-cli/internal/model"
)

func TestMapMaterials_BasicColumns(t *testing.T) {
	rows := [][]string{
		{"Name", "Category", "Quantity", "Unit", "Climate", "Tier", "Source"},
		{"Malted Barley", "ingredient", "0.5", "kg", "0.42", "2", "ecoinvent 3.9"},
		{"Glass Bottle", "packaging", "1", "unit", "0.51", "1", "supplier EPD"},
	}

	records := MapMaterials(rows)
	require.Len(t, records, 2)

	barley := records[0]
	assert.Equal(t, "Malted Barley", barley.Name)
	assert.Equal(t, "ingredient", barley.Category)
	assert.Equal(t, 0.5, barley.Quantity)
	assert.Equal(t, "kg", barley.Unit)
	assert.Equal(t, 0.42, barley.Impacts.Climate)
	assert.Equal(t, model.TierSecondary, barley.Tier)
	assert.Equal(t, "ecoinvent 3.9", barley.Source)
}

func TestMapMaterials_HeaderAliases(t *testing.T) {
	rows := [][]string{
		{"Material", "Amount", "CO2e", "Data Tier"},
		{"Yeast", "0.01", "0.05", "3"},
	}

	records := MapMaterials(rows)
	require.Len(t, records, 1)
	assert.Equal(t, "Yeast", records[0].Name)
	assert.Equal(t, 0.01, records[0].Quantity)
	assert.Equal(t, 0.05, records[0].Impacts.Climate)
}

func TestMapMaterials_MalformedNumericsCoerceToZero(t *testing.T) {
	rows := [][]string{
		{"name", "quantity", "climate"},
		{"Broken", "n/a", "not-a-number"},
	}

	records := MapMaterials(rows)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].Quantity)
	assert.Equal(t, 0.0, records[0].Impacts.Climate)
}

func TestMapMaterials_ThousandsSeparators(t *testing.T) {
	rows := [][]string{
		{"name", "quantity", "climate"},
		{"Bulk Grain", "12,500", "1.5"},
	}

	records := MapMaterials(rows)
	require.Len(t, records, 1)
	assert.Equal(t, 12500.0, records[0].Quantity)
}

func TestMapMaterials_BlankTierDefaultsToProxy(t *testing.T) {
	rows := [][]string{
		{"name", "climate", "tier"},
		{"Mystery", "1.0", ""},
		{"AlsoMystery", "1.0", "7"},
	}

	records := MapMaterials(rows)
	require.Len(t, records, 2)
	assert.Equal(t, model.TierProxy, records[0].Tier)
	assert.Equal(t, model.TierProxy, records[1].Tier)
}

func TestMapMaterials_GHGSplitOnlyWhenPresent(t *testing.T) {
	rows := [][]string{
		{"name", "climate", "fossil", "biogenic"},
		{"WithSplit", "1.0", "0.8", "0.2"},
	}
	records := MapMaterials(rows)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].GHGSplit)
	assert.Equal(t, 0.8, records[0].GHGSplit.Fossil)

	rows = [][]string{
		{"name", "climate"},
		{"NoSplit", "1.0"},
	}
	records = MapMaterials(rows)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].GHGSplit)
}

func TestMapMaterials_SkipsBlankNamesAndEmptyFiles(t *testing.T) {
	rows := [][]string{
		{"name", "climate"},
		{"", "1.0"},
		{"Kept", "2.0"},
	}
	records := MapMaterials(rows)
	require.Len(t, records, 1)
	assert.Equal(t, "Kept", records[0].Name)

	assert.Nil(t, MapMaterials(nil))
	assert.Nil(t, MapMaterials([][]string{{"name"}}))
}

func TestMapMaterials_NoNameColumn(t *testing.T) {
	rows := [][]string{
		{"wat", "climate"},
		{"x", "1.0"},
	}
	assert.Nil(t, MapMaterials(rows))
}

func TestReadCSV_TrimsAndHandlesRaggedRows(t *testing.T) {
	in := "name, climate\nBarley, 0.42\nYeast,0.05,extra\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "climate"}, rows[0])
	assert.Equal(t, []string{"Barley", "0.42"}, rows[1])
	assert.Equal(t, []string{"Yeast", "0.05", "extra"}, rows[2])
}
