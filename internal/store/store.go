// Package store persists assessments, their input collections, and the
// aggregated results computed from them. Two backends are provided:
// SQLite for single-user local work and PostgreSQL for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// ErrNotFound is returned when a requested assessment, input set, or result
// does not exist. Callers match it with errors.Is.
var ErrNotFound = eris.New("store: not found")

// AssessmentFilter specifies criteria for listing assessments.
type AssessmentFilter struct {
	Status model.AssessmentStatus `json:"status,omitempty"`
	Limit  int                    `json:"limit,omitempty"`
	Offset int                    `json:"offset,omitempty"`
}

// NewAssessment carries the caller-supplied fields for a fresh assessment.
// A zero FunctionalUnit defaults to 1.
type NewAssessment struct {
	ProductName         string  `json:"product_name"`
	FunctionalUnit      float64 `json:"functional_unit"`
	FunctionalUnitLabel string  `json:"functional_unit_label"`
}

// Store defines the persistence interface for the aggregation pipeline.
type Store interface {
	// Assessments
	CreateAssessment(ctx context.Context, a NewAssessment) (*model.Assessment, error)
	GetAssessment(ctx context.Context, id string) (*model.Assessment, error)
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]model.Assessment, error)
	UpdateAssessmentStatus(ctx context.Context, id string, status model.AssessmentStatus) error

	// Inputs
	SaveInputs(ctx context.Context, id string, inputs *model.AssessmentInputs) error
	GetInputs(ctx context.Context, id string) (*model.AssessmentInputs, error)

	// Results
	SaveResult(ctx context.Context, id string, result *model.AggregatedImpactResult) error
	GetResult(ctx context.Context, id string) (*model.AggregatedImpactResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
