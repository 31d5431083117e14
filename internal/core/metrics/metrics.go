// Package metrics derives the power system totals of a configuration.
package metrics

import "github.com/niksmo/solarcomp/internal/core/domain"

// Aggregate sums every subset independently; an empty subset sums to zero.
//
// Utilization and runtime are taken against SystemLoad: the appliance
// components, or the main product alone when no appliance is selected.
func Aggregate(cfg domain.Configuration) domain.Metrics {
	m := domain.Metrics{
		TotalCost:               cfg.Product.Price,
		TotalWeight:             cfg.Product.Weight,
		TotalSolarPower:         cfg.TotalSolarPower(),
		TotalAppliancePower:     cfg.ComponentAppliancePower(),
		ProductPower:            cfg.Product.PowerWatts,
	}

	m.SystemLoad = m.TotalAppliancePower
	if len(cfg.Appliances()) == 0 {
		m.SystemLoad = m.ProductPower
	}

	for _, c := range cfg.Components {
		m.TotalCost = m.TotalCost.Add(c.Price)
		m.TotalWeight += c.Weight
	}

	var maxController float64
	controllers := cfg.Controllers()
	for _, c := range controllers {
		m.TotalControllerCapacity += c.PowerRating
		maxController = max(maxController, c.PowerRating)
	}

	for _, b := range cfg.Batteries() {
		m.TotalBatteryCapacity += b.BatteryCapacity
		m.MaxSystemPower += b.MaxDischarge()
	}

	if len(controllers) != 0 && maxController > 0 {
		u := m.SystemLoad / maxController * 100
		m.ControllerUtilization = &u
	}

	if m.TotalBatteryCapacity > 0 && m.SystemLoad > 0 {
		h := m.TotalBatteryCapacity / m.SystemLoad
		m.EstimatedRuntimeHours = &h
	}

	return m
}
