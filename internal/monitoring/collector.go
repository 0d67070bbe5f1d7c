// Package monitoring aggregates operational metrics over stored assessments.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/verdora-group/footprint-cli/internal/model"
	"github.com/verdora-group/footprint-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of assessment throughput.
type MetricsSnapshot struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Failed     int     `json:"failed"`
	Pending    int     `json:"pending"`
	Processing int     `json:"processing"`
	FailRate   float64 `json:"fail_rate"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers metrics from the store.
type Collector struct {
	store store.Store
}

// NewCollector creates a new metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot of assessment metrics over the given lookback
// window. A non-positive lookback covers everything.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	var cutoff time.Time
	if lookbackHours > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)
	}

	assessments, err := c.store.ListAssessments(ctx, store.AssessmentFilter{Limit: 10000})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list assessments")
	}

	for _, a := range assessments {
		if !cutoff.IsZero() && a.CreatedAt.Before(cutoff) {
			continue
		}
		snap.Total++
		switch a.Status {
		case model.AssessmentCompleted:
			snap.Completed++
		case model.AssessmentFailed:
			snap.Failed++
		case model.AssessmentPending:
			snap.Pending++
		case model.AssessmentProcessing:
			snap.Processing++
		}
	}

	finished := snap.Completed + snap.Failed
	if finished > 0 {
		snap.FailRate = float64(snap.Failed) / float64(finished)
	}

	return snap, nil
}
