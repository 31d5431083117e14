package main

import (
	"fmt"
	"io"

	"github.com/niksmo/solarcomp/internal/core/domain"
)

// errWriter remembers the first write error so rendering code can stay
// linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderReport(w io.Writer, r domain.Report) error {
	ew := &errWriter{w: w}
	cfg := r.Configuration

	ew.printf("Report %s (%s)\n\n", r.ID, r.EvaluatedAt.Format("2006-01-02 15:04:05 MST"))
	ew.printf("Product: %s\n", cfg.Product.Describe())

	if len(cfg.Components) == 0 {
		ew.printf("No components added.\n")
	} else {
		ew.printf("Components:\n")
		var category domain.Category
		for _, c := range cfg.Components {
			if c.Category != category {
				category = c.Category
				ew.printf("  %s:\n", category)
			}
			ew.printf("    - %s\n", c.Describe())
		}
	}

	m := r.Metrics
	ew.printf("\nTotal system cost: $%s\n", m.TotalCost.String())
	ew.printf("Total system weight: %skg\n", domain.FormatNumber(m.TotalWeight))

	ew.printf("\nCompatibility: ")
	switch {
	case len(cfg.Components) == 0:
		ew.printf("add components to check engineering compatibility\n")
	case r.Verdict.Viable:
		ew.printf("system is electrically compatible and power ratings are within limits\n")
	default:
		ew.printf("incompatible system configuration\n")
		for _, v := range r.Verdict.Violations {
			ew.printf("  - [%s] %s\n", v.Rule, v.Message)
		}
	}
	for _, n := range r.Verdict.Notices {
		ew.printf("  note: %s\n", n)
	}

	if len(cfg.Components) != 0 {
		renderMetrics(ew, cfg, m)
	}

	if len(r.Recommendations) != 0 {
		ew.printf("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			ew.printf("  - %s\n", rec)
		}
	}

	if len(r.Adjustments) != 0 {
		ew.printf("\nAdjusted input:\n")
		for _, a := range r.Adjustments {
			ew.printf("  - %s\n", a.Error())
		}
	}
	return ew.err
}

func renderMetrics(ew *errWriter, cfg domain.Configuration, m domain.Metrics) {
	ew.printf("\nPower system summary:\n")
	if len(cfg.SolarPanels()) != 0 {
		ew.printf("  Total solar power: %sWp\n", domain.FormatNumber(m.TotalSolarPower))
	}
	if len(cfg.Controllers()) != 0 {
		ew.printf("  Total controller capacity: %sW\n", domain.FormatNumber(m.TotalControllerCapacity))
	}
	if len(cfg.Batteries()) != 0 {
		ew.printf("  Total battery capacity: %sWh\n", domain.FormatNumber(m.TotalBatteryCapacity))
		ew.printf("  Max system power: %.0fW\n", m.MaxSystemPower)
	}
	if len(cfg.Appliances()) != 0 {
		ew.printf("  Total appliance power: %sW\n", domain.FormatNumber(m.TotalAppliancePower))
	}
	ew.printf("  Main product power: %sW\n", domain.FormatNumber(m.ProductPower))
	ew.printf("  Total system load: %sW\n", domain.FormatNumber(m.SystemLoad))
	if m.ControllerUtilization != nil {
		ew.printf("  Controller utilization: %.1f%%\n", *m.ControllerUtilization)
	}
	if m.EstimatedRuntimeHours != nil {
		ew.printf("  Estimated runtime: %.1f hours\n", *m.EstimatedRuntimeHours)
	}
}

func renderCatalog(w io.Writer, products []domain.ProductEntry, groups []domain.CatalogGroup) error {
	ew := &errWriter{w: w}

	ew.printf("Products:\n")
	for _, p := range products {
		ew.printf("  %-16s $%-8s %s, %sW\n",
			p.Name, p.BasePrice.String(), p.VoltageType, domain.FormatNumber(p.DefaultPowerWatts))
	}

	for _, g := range groups {
		ew.printf("\n%s:\n", g.Category)
		for _, e := range g.Entries {
			ew.printf("  %-42s $%s\n", e.Name, e.BasePrice.String())
		}
	}

	return ew.err
}
