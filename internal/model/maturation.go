package model

// MaturationProfile describes barrel aging for an assessed product. At most
// one profile applies per assessment.
type MaturationProfile struct {
	BarrelType     string   `json:"barrel_type"`               // keys the default manufacturing burden table
	BurdenOverride *float64 `json:"burden_override,omitempty"` // kg CO2e per new barrel; wins over the type default
	UseCount       int      `json:"use_count"`                 // 1 = new fill, >= 2 = reused barrel
	BarrelVolume   float64  `json:"barrel_volume_l"`
	BarrelCount    int      `json:"barrel_count"`
	FillVolume     float64  `json:"fill_volume_l"` // litres filled per barrel

	DurationMonths float64 `json:"duration_months"`
	ClimateZone    string  `json:"climate_zone"` // keys the annual evaporation rate table

	EnergySource      string  `json:"energy_source"`          // renewable, electricity, natural_gas, heating_oil
	EnergyPerBarrelYr float64 `json:"energy_per_barrel_year"` // kWh per barrel per year
	CountryCode       string  `json:"country_code,omitempty"` // ISO code for grid factor lookup
}
