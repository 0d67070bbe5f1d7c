package model

import "time"

// AssessmentStatus tracks where an assessment sits in its lifecycle.
// The calling layer flips status to completed only after the engine
// returns successfully and the result is persisted.
type AssessmentStatus string

const (
	AssessmentPending    AssessmentStatus = "pending"
	AssessmentProcessing AssessmentStatus = "processing"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentFailed     AssessmentStatus = "failed"
)

// Assessment is one assessed entity (product) together with the functional
// unit all impact values are normalized against.
type Assessment struct {
	ID                  string           `json:"id"`
	ProductName         string           `json:"product_name"`
	FunctionalUnit      float64          `json:"functional_unit"`       // scalar quantity, e.g. 1
	FunctionalUnitLabel string           `json:"functional_unit_label"` // e.g. "bottle"
	Status              AssessmentStatus `json:"status"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// AssessmentInputs bundles the three input collections for one run.
type AssessmentInputs struct {
	Materials  []MaterialRecord           `json:"materials"`
	Sites      []ProductionSiteAllocation `json:"sites,omitempty"`
	Maturation *MaturationProfile         `json:"maturation,omitempty"`
}
