// Package report renders aggregated impact results as human-readable text.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// WriteSummary writes a full text summary of one result to out: totals,
// scope and category breakdowns, ranked contributors, the maturation block
// when present, and the data-quality section.
func WriteSummary(out io.Writer, assessment *model.Assessment, result *model.AggregatedImpactResult) {
	p := message.NewPrinter(language.English)

	name := "assessment"
	if assessment != nil && assessment.ProductName != "" {
		name = assessment.ProductName
	}
	_, _ = p.Fprintf(out, "Impact summary: %s\n", name)
	if assessment != nil && assessment.FunctionalUnitLabel != "" {
		_, _ = p.Fprintf(out, "Functional unit: %v %s\n", assessment.FunctionalUnit, assessment.FunctionalUnitLabel)
	}
	_, _ = fmt.Fprintln(out)

	writeTotals(out, p, result)
	writeScopes(out, p, result)
	writeContributors(out, p, result)
	if result.Maturation != nil {
		writeMaturation(out, p, result.Maturation)
	}
	writeQuality(out, p, &result.Quality)
}

func writeTotals(out io.Writer, p *message.Printer, r *model.AggregatedImpactResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = p.Fprintf(w, "Climate change:\t%.3f kg CO2e\n", r.Totals.Climate)
	_, _ = p.Fprintf(w, "  fossil:\t%.3f kg CO2e\n", r.GHG.Fossil)
	_, _ = p.Fprintf(w, "  biogenic:\t%.3f kg CO2e\n", r.GHG.Biogenic)
	if r.GHG.LandUseChange != 0 {
		_, _ = p.Fprintf(w, "  land-use change:\t%.3f kg CO2e\n", r.GHG.LandUseChange)
	}
	_, _ = p.Fprintf(w, "Water consumption:\t%.3f m3\n", r.Totals.WaterConsumption)
	_, _ = p.Fprintf(w, "Water scarcity:\t%.3f m3 eq\n", r.Totals.WaterScarcity)
	_, _ = p.Fprintf(w, "Land use:\t%.3f m2a crop eq\n", r.Totals.LandUse)
	_, _ = p.Fprintf(w, "Fossil scarcity:\t%.3f kg oil eq\n", r.Totals.FossilScarcity)
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func writeScopes(out io.Writer, p *message.Printer, r *model.AggregatedImpactResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCOPE\tKG CO2E")
	_, _ = fmt.Fprintln(w, "-----\t-------")
	_, _ = p.Fprintf(w, "Scope 1\t%.3f\n", r.Scopes.Scope1)
	_, _ = p.Fprintf(w, "Scope 2\t%.3f\n", r.Scopes.Scope2)
	_, _ = p.Fprintf(w, "Scope 3\t%.3f\n", r.Scopes.Scope3)
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CATEGORY\tKG CO2E")
	_, _ = fmt.Fprintln(w, "--------\t-------")
	_, _ = p.Fprintf(w, "Materials\t%.3f\n", r.Categories.Materials)
	_, _ = p.Fprintf(w, "Packaging\t%.3f\n", r.Categories.Packaging)
	_, _ = p.Fprintf(w, "Production\t%.3f\n", r.Categories.Production)
	_, _ = p.Fprintf(w, "Transport\t%.3f\n", r.Categories.Transport)
	_, _ = p.Fprintf(w, "End of life\t%.3f\n", r.Categories.EndOfLife)
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func writeContributors(out io.Writer, p *message.Printer, r *model.AggregatedImpactResult) {
	if len(r.Materials) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "MATERIAL\tKG CO2E\tSHARE\tTIER")
		_, _ = fmt.Fprintln(w, "--------\t-------\t-----\t----")
		for _, m := range r.Materials {
			_, _ = p.Fprintf(w, "%s\t%.3f\t%.1f%%\t%d\n",
				truncateName(m.Name), m.Climate, m.Percent, int(m.Tier))
		}
		_ = w.Flush()
		_, _ = fmt.Fprintln(out)
	}

	if len(r.Facilities) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "FACILITY\tKG CO2E\tSHARE\tSCOPE 1\tSCOPE 2")
		_, _ = fmt.Fprintln(w, "--------\t-------\t-----\t-------\t-------")
		for _, f := range r.Facilities {
			_, _ = p.Fprintf(w, "%s\t%.3f\t%.1f%%\t%.3f\t%.3f\n",
				truncateName(f.Name), f.Climate, f.Percent, f.Scope1, f.Scope2)
		}
		_ = w.Flush()
		_, _ = fmt.Fprintln(out)
	}
}

func writeMaturation(out io.Writer, p *message.Printer, m *model.MaturationImpact) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "Maturation")
	_, _ = p.Fprintf(w, "  barrels:\t%.3f kg CO2e (%.4f /L)\n", m.BarrelTotalCO2e, m.BarrelPerLiter)
	_, _ = p.Fprintf(w, "  warehouse energy:\t%.3f kg CO2e (%.4f /L)\n", m.WarehouseTotalCO2e, m.WarehousePerLiter)
	_, _ = p.Fprintf(w, "  total:\t%.3f kg CO2e\n", m.TotalCO2e)
	_, _ = p.Fprintf(w, "  output volume:\t%.1f L (%.1f%% evaporative loss)\n", m.OutputVolume, m.LossPercent)
	_, _ = p.Fprintf(w, "  VOC emitted:\t%.3f kg (%.3f kg ethene eq, reported separately)\n", m.VOCMassKg, m.OzonePotential)
	if m.GridFactorEstimated {
		_, _ = fmt.Fprintln(w, "  note:\tgrid factor estimated from global average")
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func writeQuality(out io.Writer, p *message.Printer, q *model.DataQualitySummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = p.Fprintf(w, "Data quality:\t%d/100 (%s)\n", q.Score, q.Rating)
	for _, c := range q.Coverage {
		_, _ = p.Fprintf(w, "  tier %d:\t%d materials (%.1f%%)\n", int(c.Tier), c.Count, c.Percent)
	}
	if q.Uncertainty.Relative > 0 {
		_, _ = p.Fprintf(w, "Uncertainty:\t±%.1f%% (%.3f - %.3f kg CO2e)\n",
			q.Uncertainty.Relative*100, q.Uncertainty.Low, q.Uncertainty.High)
	}
	for _, s := range q.Sensitivity.Entries {
		flag := ""
		if s.HighlySensitive {
			flag = "  [dominant]"
		}
		_, _ = p.Fprintf(w, "  %s ±%.0f%%:\t%.3f - %.3f kg CO2e%s\n",
			truncateName(s.Name), q.Sensitivity.Perturbation*100, s.Low, s.High, flag)
	}
	for _, warn := range q.Warnings {
		_, _ = fmt.Fprintf(w, "  warning:\t%s\n", warn)
	}
	_ = w.Flush()
}

// truncateName keeps table rows compact for long supplier names.
func truncateName(name string) string {
	if len(name) > 30 {
		return name[:27] + "..."
	}
	return name
}
