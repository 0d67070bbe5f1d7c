package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdora-group/footprint-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testInputs() *model.AssessmentInputs {
	conf := 90.0
	return &model.AssessmentInputs{
		Materials: []model.MaterialRecord{
			{
				Name:       "Malted Barley",
				Category:   "ingredient",
				Quantity:   0.5,
				Unit:       "kg",
				Tier:       model.TierSecondary,
				Confidence: &conf,
				Impacts:    model.ImpactValues{Climate: 0.42, WaterConsumption: 1.1},
			},
			{
				Name:    "Glass Bottle",
				Tier:    model.TierPrimary,
				Impacts: model.ImpactValues{Climate: 0.51},
			},
		},
		Sites: []model.ProductionSiteAllocation{
			{
				SharePercent: 50,
				Facility: &model.FacilityMetrics{
					Name:              "Distillery A",
					EmissionIntensity: 0.8,
					Scope1Total:       600,
					Scope2Total:       400,
				},
			},
		},
	}
}

func TestSQLite_CreateAndGetAssessment(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateAssessment(ctx, NewAssessment{
		ProductName:         "Highland Single Malt 12yo",
		FunctionalUnit:      0.7,
		FunctionalUnitLabel: "700ml bottle",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.AssessmentPending, created.Status)

	got, err := st.GetAssessment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Highland Single Malt 12yo", got.ProductName)
	assert.Equal(t, 0.7, got.FunctionalUnit)
	assert.Equal(t, "700ml bottle", got.FunctionalUnitLabel)
}

func TestSQLite_CreateAssessment_DefaultFunctionalUnit(t *testing.T) {
	st := newTestSQLiteStore(t)

	created, err := st.CreateAssessment(context.Background(), NewAssessment{ProductName: "Gin"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, created.FunctionalUnit)
}

func TestSQLite_GetAssessment_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetAssessment(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_ListAssessments_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "A"})
	require.NoError(t, err)
	_, err = st.CreateAssessment(ctx, NewAssessment{ProductName: "B"})
	require.NoError(t, err)

	require.NoError(t, st.UpdateAssessmentStatus(ctx, a.ID, model.AssessmentProcessing))

	all, err := st.ListAssessments(ctx, AssessmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	processing, err := st.ListAssessments(ctx, AssessmentFilter{Status: model.AssessmentProcessing})
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, a.ID, processing[0].ID)
}

func TestSQLite_ListAssessments_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "X"})
		require.NoError(t, err)
	}

	got, err := st.ListAssessments(ctx, AssessmentFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSQLite_UpdateAssessmentStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateAssessmentStatus(context.Background(), "nonexistent", model.AssessmentFailed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_SaveAndGetInputs(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "Whisky"})
	require.NoError(t, err)

	require.NoError(t, st.SaveInputs(ctx, a.ID, testInputs()))

	got, err := st.GetInputs(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Materials, 2)
	assert.Equal(t, "Malted Barley", got.Materials[0].Name)
	assert.Equal(t, 0.42, got.Materials[0].Impacts.Climate)
	require.NotNil(t, got.Materials[0].Confidence)
	assert.Equal(t, 90.0, *got.Materials[0].Confidence)
	require.Len(t, got.Sites, 1)
	require.NotNil(t, got.Sites[0].Facility)
	assert.Equal(t, "Distillery A", got.Sites[0].Facility.Name)
	assert.Nil(t, got.Maturation)
}

func TestSQLite_GetInputs_NoneRecorded(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "Whisky"})
	require.NoError(t, err)

	_, err = st.GetInputs(ctx, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_SaveResult_MarksCompleted(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "Whisky"})
	require.NoError(t, err)

	result := &model.AggregatedImpactResult{
		ID:     "r-1",
		Totals: model.ImpactValues{Climate: 2.5},
		Quality: model.DataQualitySummary{
			Score:  88,
			Rating: model.RatingHigh,
		},
	}
	require.NoError(t, st.SaveResult(ctx, a.ID, result))

	got, err := st.GetResult(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Totals.Climate)
	assert.Equal(t, model.RatingHigh, got.Quality.Rating)

	updated, err := st.GetAssessment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentCompleted, updated.Status)
}

func TestSQLite_GetResult_NoneComputed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "Whisky"})
	require.NoError(t, err)

	_, err = st.GetResult(ctx, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_SaveInputs_Overwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateAssessment(ctx, NewAssessment{ProductName: "Whisky"})
	require.NoError(t, err)

	require.NoError(t, st.SaveInputs(ctx, a.ID, testInputs()))
	require.NoError(t, st.SaveInputs(ctx, a.ID, &model.AssessmentInputs{
		Materials: []model.MaterialRecord{{Name: "Only One", Impacts: model.ImpactValues{Climate: 1}}},
	}))

	got, err := st.GetInputs(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Materials, 1)
	assert.Equal(t, "Only One", got.Materials[0].Name)
}
