package ingest

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// column aliases map normalized header names to record fields.
var columnAliases = map[string]string{
	"name":            "name",
	"material":        "name",
	"category":        "category",
	"type":            "category",
	"quantity":        "quantity",
	"amount":          "quantity",
	"unit":            "unit",
	"climate":         "climate",
	"co2e":            "climate",
	"gwp":             "climate",
	"water":           "water",
	"water_scarcity":  "water_scarcity",
	"aware":           "water_scarcity",
	"land_use":        "land_use",
	"ecotoxicity":     "ecotoxicity",
	"eutrophication":  "eutrophication",
	"acidification":   "acidification",
	"fossil_scarcity": "fossil_scarcity",
	"fossil":          "fossil",
	"biogenic":        "biogenic",
	"luc":             "luc",
	"land_use_change": "luc",
	"tier":            "tier",
	"data_tier":       "tier",
	"confidence":      "confidence",
	"source":          "source",
	"methodology":     "methodology",
}

// MapMaterials converts header-keyed rows into MaterialRecords. The first
// row is the header. Unknown columns are ignored; missing numeric values
// default to zero; a blank tier defaults to the conservative modelled-proxy
// tier. A GHG split is attached only when at least one split column carries
// a value.
func MapMaterials(rows [][]string) []model.MaterialRecord {
	if len(rows) < 2 {
		return nil
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if field, ok := columnAliases[key]; ok {
			index[field] = i
		}
	}
	if _, ok := index["name"]; !ok {
		zap.L().Warn("ingest: no name column found, skipping file")
		return nil
	}

	var out []model.MaterialRecord
	for _, row := range rows[1:] {
		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		name := get("name")
		if name == "" {
			continue
		}

		rec := model.MaterialRecord{
			Name:        name,
			Category:    strings.ToLower(get("category")),
			Quantity:    toFloat(get("quantity")),
			Unit:        get("unit"),
			Source:      get("source"),
			Methodology: get("methodology"),
			Tier:        toTier(get("tier")),
			Impacts: model.ImpactValues{
				Climate:                  toFloat(get("climate")),
				WaterConsumption:         toFloat(get("water")),
				WaterScarcity:            toFloat(get("water_scarcity")),
				LandUse:                  toFloat(get("land_use")),
				TerrestrialEcotoxicity:   toFloat(get("ecotoxicity")),
				FreshwaterEutrophication: toFloat(get("eutrophication")),
				TerrestrialAcidification: toFloat(get("acidification")),
				FossilScarcity:           toFloat(get("fossil_scarcity")),
			},
		}

		if c := get("confidence"); c != "" {
			conf := toFloat(c)
			rec.Confidence = &conf
		}

		if get("fossil") != "" || get("biogenic") != "" || get("luc") != "" {
			rec.GHGSplit = &model.GHGSplit{
				Fossil:        toFloat(get("fossil")),
				Biogenic:      toFloat(get("biogenic")),
				LandUseChange: toFloat(get("luc")),
			}
		}

		out = append(out, rec)
	}

	return out
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}

// toFloat parses a numeric cell, stripping thousands separators. Anything
// unparseable coerces to zero, never an error.
func toFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		zap.L().Debug("ingest: non-numeric value coerced to zero", zap.String("value", s))
		return 0
	}
	return f
}

// toTier parses a data tier, defaulting blanks and junk to tier 3.
func toTier(s string) model.DataTier {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 3 {
		return model.TierProxy
	}
	return model.DataTier(n)
}
