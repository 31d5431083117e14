package compat

import (
	"fmt"

	"github.com/niksmo/solarcomp/internal/core/domain"
)

// fixed48VBatteryRating is the only battery rating a 48V-only controller accepts.
const fixed48VBatteryRating = 51.2

type (
	acRequiresInverter        struct{}
	dcForbidsInverter         struct{}
	batteryNeedsController    struct{}
	batteryControllerVoltage  struct{}
	controllerLoad            struct{}
	batteryDischarge          struct{}
	motorAttachmentDependency struct{}
	cookerAccessoryDependency struct{}
	solarControllerPower      struct{}
	icemakerIcebox            struct{}
)

func (acRequiresInverter) ID() string { return "ac-requires-inverter" }

func (acRequiresInverter) Check(cfg domain.Configuration) Result {
	if cfg.Product.VoltageType != domain.VoltageAC || cfg.Has(domain.SubtypeInverter) {
		return Result{}
	}

	dcLoad := len(cfg.Batteries()) != 0
	for _, a := range cfg.Appliances() {
		if a.Supply == domain.SupplyDC {
			dcLoad = true
			break
		}
	}
	if !dcLoad {
		return Result{}
	}
	return violation(
		"AC product requires Inverter when using DC components like Battery or DC appliances",
	)
}

func (dcForbidsInverter) ID() string { return "dc-forbids-inverter" }

func (dcForbidsInverter) Check(cfg domain.Configuration) Result {
	if cfg.Product.VoltageType == domain.VoltageDC && cfg.Has(domain.SubtypeInverter) {
		return violation("DC product cannot use Inverter (already DC-compatible)")
	}
	return Result{}
}

func (batteryNeedsController) ID() string { return "battery-needs-controller" }

func (batteryNeedsController) Check(cfg domain.Configuration) Result {
	batteries := cfg.Batteries()
	if len(batteries) == 0 || len(cfg.Controllers()) != 0 {
		return Result{}
	}
	for _, b := range batteries {
		if b.IncludesController {
			return Result{}
		}
	}
	return violation("Battery requires a Solar Controller for regulation")
}

func (batteryControllerVoltage) ID() string { return "battery-controller-voltage" }

// Check pairs every battery with every controller. A 48V-only controller
// takes 51.2V batteries; any other controller must list the battery's
// whole-volt rating.
func (batteryControllerVoltage) Check(cfg domain.Configuration) Result {
	var res Result
	for _, b := range cfg.Batteries() {
		for _, c := range cfg.Controllers() {
			if c.IncludesController {
				continue
			}
			if msg, ok := voltageMismatch(b, c); ok {
				res.Violations = append(res.Violations, msg)
			}
		}
	}
	return res
}

func voltageMismatch(b, c domain.ComponentSelection) (string, bool) {
	emptySet := c.MultiVoltage() && len(c.SupportedVoltages()) == 0
	if b.RatingMalformed || c.RatingMalformed || emptySet {
		return fmt.Sprintf(
			"Invalid voltage configuration between %s and %s", b.Name, c.Name,
		), true
	}

	if c.Subtype == domain.SubtypeFixed48VController {
		if b.Rating != fixed48VBatteryRating {
			return fmt.Sprintf(
				"%s (%sV) not compatible with %s (48V system only)",
				b.Name, b.RatingLabel(), c.Name,
			), true
		}
		return "", false
	}

	if !c.SupportedVoltages().Contains(int(b.Rating)) {
		return fmt.Sprintf(
			"%s (%sV) not compatible with %s (supports %sV)",
			b.Name, b.RatingLabel(), c.Name, c.RatingLabel(),
		), true
	}
	return "", false
}

func (controllerLoad) ID() string { return "controller-load" }

// Check compares the whole load with each controller on its own, it does not
// split the load across controllers.
func (controllerLoad) Check(cfg domain.Configuration) Result {
	var res Result
	load := cfg.TotalLoad()
	for _, c := range cfg.Controllers() {
		if load > c.PowerRating {
			res.Violations = append(res.Violations, fmt.Sprintf(
				"Total appliance power (%sW) exceeds %s max output (%sW)",
				domain.FormatNumber(load), c.Name, domain.FormatNumber(c.PowerRating),
			))
		}
	}
	return res
}

func (batteryDischarge) ID() string { return "battery-discharge" }

func (batteryDischarge) Check(cfg domain.Configuration) Result {
	var res Result
	load := cfg.TotalLoad()
	for _, b := range cfg.Batteries() {
		if maxPower := b.MaxDischarge(); load > maxPower {
			res.Violations = append(res.Violations, fmt.Sprintf(
				"Total load (%sW) exceeds %s max discharge (%.0fW)",
				domain.FormatNumber(load), b.Name, maxPower,
			))
		}
	}
	return res
}

func (motorAttachmentDependency) ID() string { return "motor-attachment-dependency" }

func (motorAttachmentDependency) Check(cfg domain.Configuration) Result {
	if len(cfg.ByCategory(domain.CategoryMotorAttachments)) != 0 &&
		!cfg.HasAppliance(domain.SubtypeMotor) {
		return violation("Motor attachments require a Mighty Motor appliance in the system")
	}
	return Result{}
}

func (cookerAccessoryDependency) ID() string { return "cooker-accessory-dependency" }

func (cookerAccessoryDependency) Check(cfg domain.Configuration) Result {
	if len(cfg.ByCategory(domain.CategoryCookerAccessories)) != 0 &&
		!cfg.HasAppliance(domain.SubtypeCooker) {
		return violation(
			"Cooker accessories require a SunPot or SolarEPC appliance in the system",
		)
	}
	return Result{}
}

func (solarControllerPower) ID() string { return "solar-controller-power" }

func (solarControllerPower) Check(cfg domain.Configuration) Result {
	if len(cfg.SolarPanels()) == 0 {
		return Result{}
	}

	var res Result
	solar := cfg.TotalSolarPower()
	for _, c := range cfg.Controllers() {
		if solar > c.PowerRating {
			res.Violations = append(res.Violations, fmt.Sprintf(
				"Total solar panel power (%sW) exceeds %s max input (%sW)",
				domain.FormatNumber(solar), c.Name, domain.FormatNumber(c.PowerRating),
			))
		}
	}
	return res
}

func (icemakerIcebox) ID() string { return "icemaker-icebox" }

func (icemakerIcebox) Check(cfg domain.Configuration) Result {
	if cfg.HasAppliance(domain.SubtypeIceMaker) && !cfg.Has(domain.SubtypeIcebox) {
		return Result{Notices: []string{
			"Consider adding an insulated icebox for optimal ice-maker performance",
		}}
	}
	return Result{}
}
