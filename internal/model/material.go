// Package model defines the domain records consumed and produced by the
// aggregation engine: inventory inputs, facility allocations, maturation
// profiles, and the structured impact result.
package model

// DataTier ranks the trustworthiness of a material's impact data.
// 1 = primary/measured, 2 = regional/secondary standard, 3 = modelled proxy.
type DataTier int

const (
	TierPrimary   DataTier = 1
	TierSecondary DataTier = 2
	TierProxy     DataTier = 3
)

// ImpactValues holds per-category impact figures for one material or for a
// whole assessment. All values are already normalized per functional unit;
// climate is expressed in kg CO2-equivalent.
type ImpactValues struct {
	Climate                  float64 `json:"climate_kg_co2e"`
	WaterConsumption         float64 `json:"water_consumption_l"`
	WaterScarcity            float64 `json:"water_scarcity_l_eq"`
	LandUse                  float64 `json:"land_use_m2a"`
	TerrestrialEcotoxicity   float64 `json:"terrestrial_ecotoxicity_kg_dcb_eq"`
	FreshwaterEutrophication float64 `json:"freshwater_eutrophication_kg_p_eq"`
	TerrestrialAcidification float64 `json:"terrestrial_acidification_kg_so2_eq"`
	FossilScarcity           float64 `json:"fossil_scarcity_kg_oil_eq"`
}

// Add accumulates another set of impact values into the receiver.
func (v *ImpactValues) Add(o ImpactValues) {
	v.Climate += o.Climate
	v.WaterConsumption += o.WaterConsumption
	v.WaterScarcity += o.WaterScarcity
	v.LandUse += o.LandUse
	v.TerrestrialEcotoxicity += o.TerrestrialEcotoxicity
	v.FreshwaterEutrophication += o.FreshwaterEutrophication
	v.TerrestrialAcidification += o.TerrestrialAcidification
	v.FossilScarcity += o.FossilScarcity
}

// GHGSplit breaks a climate value into gas-origin portions (kg CO2e each).
type GHGSplit struct {
	Fossil        float64 `json:"fossil"`
	Biogenic      float64 `json:"biogenic"`
	LandUseChange float64 `json:"land_use_change"`
}

// MaterialRecord is one ingredient or packaging component consumed by the
// assessed product. Impact values arrive pre-resolved and normalized per
// functional unit; the engine never re-multiplies them by Quantity.
// Records are immutable for the duration of one aggregation run.
type MaterialRecord struct {
	Name        string       `json:"name"`
	Category    string       `json:"category,omitempty"` // "ingredient" or "packaging"; inferred when empty
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit,omitempty"` // informational only
	Impacts     ImpactValues `json:"impacts"`
	GHGSplit    *GHGSplit    `json:"ghg_split,omitempty"` // nil → default fossil/biogenic ratio
	Tier        DataTier     `json:"tier"`
	Confidence  *float64     `json:"confidence,omitempty"` // 0-100
	Source      string       `json:"source,omitempty"`
	Methodology string       `json:"methodology,omitempty"`
}
