package engine

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tables holds the immutable lookup data the engine is constructed with:
// default splits, barrel burdens, evaporation rates, energy factors, and the
// quality/sensitivity tuning constants. Tests substitute alternate tables.
type Tables struct {
	GHG         GHGDefaults      `yaml:"ghg"`
	Barrels     BarrelTable      `yaml:"barrels"`
	Evaporation EvaporationTable `yaml:"evaporation"`
	Spirit      SpiritConstants  `yaml:"spirit"`
	Energy      EnergyTable      `yaml:"energy"`
	Quality     QualityTable     `yaml:"quality"`
	Sensitivity SensitivityTable `yaml:"sensitivity"`
}

// GHGDefaults is the conservative gas-origin split applied to a material's
// climate value when no explicit split is supplied.
type GHGDefaults struct {
	FossilShare   float64 `yaml:"fossil_share"`
	BiogenicShare float64 `yaml:"biogenic_share"`
}

// BarrelTable holds cut-off allocation constants for barrel manufacturing.
type BarrelTable struct {
	// Burdens maps barrel type to first-fill manufacturing burden
	// (kg CO2e per barrel).
	Burdens map[string]float64 `yaml:"burdens"`
	// Fallback is used when the barrel type is unrecognized.
	Fallback float64 `yaml:"fallback"`
	// Reconditioning is the fixed burden per reused barrel (use count >= 2),
	// regardless of type or override.
	Reconditioning float64 `yaml:"reconditioning"`
}

// EvaporationTable maps climate zone to annual volume loss (percent per year).
type EvaporationTable struct {
	Zones    map[string]float64 `yaml:"zones"`
	Fallback float64            `yaml:"fallback"`
}

// SpiritConstants converts evaporative volume loss into a photochemical
// ozone creation figure.
type SpiritConstants struct {
	FillStrength   float64 `yaml:"fill_strength"`   // ABV fraction of the fill, e.g. 0.635
	EthanolDensity float64 `yaml:"ethanol_density"` // kg per litre
	EthanolPOCP    float64 `yaml:"ethanol_pocp"`    // kg ethene-eq per kg VOC
}

// EnergyTable holds warehouse energy emission factors.
type EnergyTable struct {
	// Factors maps energy source to kg CO2e per kWh. The "electricity"
	// source is resolved through the grid table instead.
	Factors map[string]float64 `yaml:"factors"`
	Grid    GridTable          `yaml:"grid"`
}

// GridTable maps ISO country codes to electricity grid factors
// (kg CO2e per kWh) with a documented global-average fallback.
type GridTable struct {
	Countries     map[string]float64 `yaml:"countries"`
	GlobalAverage float64            `yaml:"global_average"`
}

// QualityTable holds the tier weights and rating bands for the data-quality
// score, plus per-tier relative uncertainty defaults.
type QualityTable struct {
	TierWeights     map[int]float64 `yaml:"tier_weights"`     // tier -> score weight
	HighMin         int             `yaml:"high_min"`         // score >= HighMin -> High
	MediumMin       int             `yaml:"medium_min"`       // score >= MediumMin -> Medium
	TierUncertainty map[int]float64 `yaml:"tier_uncertainty"` // tier -> relative uncertainty 0-1
}

// SensitivityTable tunes the single-parameter sensitivity pass.
type SensitivityTable struct {
	TopN         int     `yaml:"top_n"`
	Perturbation float64 `yaml:"perturbation"` // fraction, e.g. 0.20
	FlagShare    float64 `yaml:"flag_share"`   // climate share above which a material is highly sensitive
}

// DefaultTables returns the compiled-in factor tables.
func DefaultTables() Tables {
	return Tables{
		GHG: GHGDefaults{FossilShare: 0.85, BiogenicShare: 0.15},
		Barrels: BarrelTable{
			Burdens: map[string]float64{
				"barrique":     65,
				"hogshead":     72,
				"butt":         110,
				"puncheon":     104,
				"quarter_cask": 38,
			},
			Fallback:       75,
			Reconditioning: 5,
		},
		Evaporation: EvaporationTable{
			Zones: map[string]float64{
				"temperate":   2.0,
				"maritime":    1.5,
				"continental": 3.5,
				"tropical":    6.0,
			},
			Fallback: 2.0,
		},
		Spirit: SpiritConstants{
			FillStrength:   0.635,
			EthanolDensity: 0.789,
			EthanolPOCP:    0.399,
		},
		Energy: EnergyTable{
			Factors: map[string]float64{
				"renewable":   0,
				"natural_gas": 0.202,
				"heating_oil": 0.267,
			},
			Grid: GridTable{
				Countries: map[string]float64{
					"GB": 0.207,
					"IE": 0.281,
					"US": 0.367,
					"FR": 0.052,
					"DE": 0.350,
					"ES": 0.190,
					"JP": 0.457,
				},
				GlobalAverage: 0.436,
			},
		},
		Quality: QualityTable{
			TierWeights:     map[int]float64{1: 95, 2: 85, 3: 70},
			HighMin:         85,
			MediumMin:       70,
			TierUncertainty: map[int]float64{1: 0.10, 2: 0.20, 3: 0.40},
		},
		Sensitivity: SensitivityTable{
			TopN:         5,
			Perturbation: 0.20,
			FlagShare:    0.30,
		},
	}
}

// LoadTables reads factor tables from a YAML file, overlaying the defaults.
// Maps replace wholesale when present; scalar fields replace when non-zero.
func LoadTables(path string) (Tables, error) {
	base := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return base, eris.Wrapf(err, "tables: read %s", path)
	}

	var overlay Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return base, eris.Wrap(err, "tables: parse")
	}

	merged := base
	if overlay.GHG.FossilShare > 0 || overlay.GHG.BiogenicShare > 0 {
		merged.GHG = overlay.GHG
	}
	if len(overlay.Barrels.Burdens) > 0 {
		merged.Barrels.Burdens = overlay.Barrels.Burdens
	}
	if overlay.Barrels.Fallback > 0 {
		merged.Barrels.Fallback = overlay.Barrels.Fallback
	}
	if overlay.Barrels.Reconditioning > 0 {
		merged.Barrels.Reconditioning = overlay.Barrels.Reconditioning
	}
	if len(overlay.Evaporation.Zones) > 0 {
		merged.Evaporation.Zones = overlay.Evaporation.Zones
	}
	if overlay.Evaporation.Fallback > 0 {
		merged.Evaporation.Fallback = overlay.Evaporation.Fallback
	}
	if overlay.Spirit.FillStrength > 0 {
		merged.Spirit.FillStrength = overlay.Spirit.FillStrength
	}
	if overlay.Spirit.EthanolDensity > 0 {
		merged.Spirit.EthanolDensity = overlay.Spirit.EthanolDensity
	}
	if overlay.Spirit.EthanolPOCP > 0 {
		merged.Spirit.EthanolPOCP = overlay.Spirit.EthanolPOCP
	}
	if len(overlay.Energy.Factors) > 0 {
		merged.Energy.Factors = overlay.Energy.Factors
	}
	if len(overlay.Energy.Grid.Countries) > 0 {
		merged.Energy.Grid.Countries = overlay.Energy.Grid.Countries
	}
	if overlay.Energy.Grid.GlobalAverage > 0 {
		merged.Energy.Grid.GlobalAverage = overlay.Energy.Grid.GlobalAverage
	}
	if len(overlay.Quality.TierWeights) > 0 {
		merged.Quality.TierWeights = overlay.Quality.TierWeights
	}
	if overlay.Quality.HighMin > 0 {
		merged.Quality.HighMin = overlay.Quality.HighMin
	}
	if overlay.Quality.MediumMin > 0 {
		merged.Quality.MediumMin = overlay.Quality.MediumMin
	}
	if len(overlay.Quality.TierUncertainty) > 0 {
		merged.Quality.TierUncertainty = overlay.Quality.TierUncertainty
	}
	if overlay.Sensitivity.TopN > 0 {
		merged.Sensitivity.TopN = overlay.Sensitivity.TopN
	}
	if overlay.Sensitivity.Perturbation > 0 {
		merged.Sensitivity.Perturbation = overlay.Sensitivity.Perturbation
	}
	if overlay.Sensitivity.FlagShare > 0 {
		merged.Sensitivity.FlagShare = overlay.Sensitivity.FlagShare
	}

	return merged, nil
}
