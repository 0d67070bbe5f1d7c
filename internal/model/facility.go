package model

// FacilityMetrics is a snapshot of a production facility's own emission
// figures at aggregation time.
type FacilityMetrics struct {
	Name              string  `json:"name"`
	EmissionIntensity float64 `json:"emission_intensity"` // kg CO2e per unit produced
	Scope1Total       float64 `json:"scope1_total"`       // facility-wide kg CO2e
	Scope2Total       float64 `json:"scope2_total"`       // facility-wide kg CO2e
}

// ProductionSiteAllocation links the assessed product to a facility and the
// share of total output volume produced there. Allocations with zero share
// or a missing/zero-intensity facility contribute nothing and are skipped.
type ProductionSiteAllocation struct {
	SharePercent float64          `json:"share_percent"` // 0-100
	Facility     *FacilityMetrics `json:"facility,omitempty"`
}
