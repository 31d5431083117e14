package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type Product struct {
	Name          string
	Price         decimal.Decimal
	VoltageType   VoltageType
	VoltageRating int
	PowerWatts    float64
	Weight        float64
	Custom        bool
}

// A ComponentSelection is a catalog entry the user opted into, carrying the
// values in effect after overrides.
type ComponentSelection struct {
	Name               string
	Code               string
	Category           Category
	Subtype            Subtype
	Price              decimal.Decimal
	Supply             Supply
	Rating             float64
	Voltages           VoltageSet
	PowerRating        float64
	MaxCurrent         float64
	BatteryCapacity    float64
	BatteryCRating     float64
	Weight             float64
	IncludesController bool
	RatingMalformed    bool
}

func (c ComponentSelection) IsAppliance() bool {
	return c.Category == CategoryAppliances
}

func (c ComponentSelection) IsBattery() bool {
	return c.Subtype == SubtypeBattery
}

func (c ComponentSelection) IsController() bool {
	return c.Category == CategoryControllers
}

func (c ComponentSelection) MultiVoltage() bool {
	return c.Subtype == SubtypeMultiVoltageController
}

// SupportedVoltages is the voltage set of a controller: the selected set for
// multi-voltage controllers, the truncated single rating otherwise.
func (c ComponentSelection) SupportedVoltages() VoltageSet {
	if c.MultiVoltage() {
		return c.Voltages
	}
	return NewVoltageSet(int(c.Rating))
}

func (c ComponentSelection) MaxDischarge() float64 {
	return c.BatteryCapacity * c.BatteryCRating
}

// RatingLabel formats the voltage rating for messages and summaries.
func (c ComponentSelection) RatingLabel() string {
	if c.MultiVoltage() {
		return c.Voltages.String()
	}
	return FormatNumber(c.Rating)
}

// FormatNumber prints v without trailing zeros: 2500, 25.6.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// A Configuration is the unit of validation. It is never mutated after
// the builder hands it out.
type Configuration struct {
	Product    Product
	Components []ComponentSelection
}

func (c Configuration) filter(keep func(ComponentSelection) bool) []ComponentSelection {
	var out []ComponentSelection
	for _, s := range c.Components {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (c Configuration) Batteries() []ComponentSelection {
	return c.filter(ComponentSelection.IsBattery)
}

func (c Configuration) Controllers() []ComponentSelection {
	return c.filter(ComponentSelection.IsController)
}

func (c Configuration) Appliances() []ComponentSelection {
	return c.filter(ComponentSelection.IsAppliance)
}

func (c Configuration) SolarPanels() []ComponentSelection {
	return c.BySubtype(SubtypeSolarPanel)
}

func (c Configuration) ByCategory(cat Category) []ComponentSelection {
	return c.filter(func(s ComponentSelection) bool { return s.Category == cat })
}

func (c Configuration) BySubtype(st Subtype) []ComponentSelection {
	return c.filter(func(s ComponentSelection) bool { return s.Subtype == st })
}

func (c Configuration) Has(st Subtype) bool {
	for _, s := range c.Components {
		if s.Subtype == st {
			return true
		}
	}
	return false
}

func (c Configuration) HasAppliance(st Subtype) bool {
	for _, s := range c.Components {
		if s.IsAppliance() && s.Subtype == st {
			return true
		}
	}
	return false
}

// ComponentAppliancePower sums the power of the appliance components only.
func (c Configuration) ComponentAppliancePower() float64 {
	var total float64
	for _, s := range c.Appliances() {
		total += s.PowerRating
	}
	return total
}

// TotalLoad is the load every controller and battery must carry on its own:
// appliance components plus the main product.
func (c Configuration) TotalLoad() float64 {
	return c.ComponentAppliancePower() + c.Product.PowerWatts
}

func (c Configuration) TotalSolarPower() float64 {
	var total float64
	for _, s := range c.SolarPanels() {
		total += s.PowerRating
	}
	return total
}
