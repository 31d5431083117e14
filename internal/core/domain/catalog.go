package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAppliances        Category = "Appliances"
	CategoryControllers       Category = "Controllers"
	CategoryBatteries         Category = "Batteries"
	CategoryPowerConversion   Category = "Power Conversion"
	CategorySolarPanels       Category = "Solar Panels"
	CategoryCablesMounting    Category = "Cables & Mounting"
	CategoryAccessories       Category = "Accessories"
	CategoryCookerAccessories Category = "Cooker Accessories"
	CategoryMotorAttachments  Category = "Motor Attachments"
)

var categories = []Category{
	CategoryAppliances,
	CategoryControllers,
	CategoryBatteries,
	CategoryPowerConversion,
	CategorySolarPanels,
	CategoryCablesMounting,
	CategoryAccessories,
	CategoryCookerAccessories,
	CategoryMotorAttachments,
}

// Categories returns the fixed category enumeration sorted by name.
func Categories() []Category {
	cs := slices.Clone(categories)
	slices.Sort(cs)
	return cs
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// A Subtype tells rules what an entry is without looking at its name.
type Subtype string

const (
	SubtypeWasher                 Subtype = "washer"
	SubtypeCooker                 Subtype = "cooker"
	SubtypeMotor                  Subtype = "motor"
	SubtypeIceMaker               Subtype = "ice-maker"
	SubtypeMultiVoltageController Subtype = "multi-voltage-controller"
	SubtypeFixed48VController     Subtype = "fixed-48v-controller"
	SubtypeBattery                Subtype = "battery"
	SubtypeInverter               Subtype = "inverter"
	SubtypeSolarPanel             Subtype = "solar-panel"
	SubtypeMount                  Subtype = "mount"
	SubtypeSplitter               Subtype = "splitter"
	SubtypeSolarCable             Subtype = "solar-cable"
	SubtypeBatteryCable           Subtype = "battery-cable"
	SubtypeLoadCable              Subtype = "load-cable"
	SubtypeConversionCable        Subtype = "conversion-cable"
	SubtypeIcebox                 Subtype = "icebox"
	SubtypeCookerAccessory        Subtype = "cooker-accessory"
	SubtypeMotorAttachment        Subtype = "motor-attachment"
)

var subtypeCategory = map[Subtype]Category{
	SubtypeWasher:                 CategoryAppliances,
	SubtypeCooker:                 CategoryAppliances,
	SubtypeMotor:                  CategoryAppliances,
	SubtypeIceMaker:               CategoryAppliances,
	SubtypeMultiVoltageController: CategoryControllers,
	SubtypeFixed48VController:     CategoryControllers,
	SubtypeBattery:                CategoryBatteries,
	SubtypeInverter:               CategoryPowerConversion,
	SubtypeSolarPanel:             CategorySolarPanels,
	SubtypeMount:                  CategoryCablesMounting,
	SubtypeSplitter:               CategoryCablesMounting,
	SubtypeSolarCable:             CategoryCablesMounting,
	SubtypeBatteryCable:           CategoryCablesMounting,
	SubtypeLoadCable:              CategoryCablesMounting,
	SubtypeConversionCable:        CategoryCablesMounting,
	SubtypeIcebox:                 CategoryAccessories,
	SubtypeCookerAccessory:        CategoryCookerAccessories,
	SubtypeMotorAttachment:        CategoryMotorAttachments,
}

// Category reports the category a subtype belongs to.
func (s Subtype) Category() (Category, bool) {
	c, ok := subtypeCategory[s]
	return c, ok
}

// A Supply is the electrical side an entry works on.
type Supply string

const (
	SupplyAC     Supply = "AC"
	SupplyDC     Supply = "DC"
	SupplyDCToAC Supply = "DC → AC"
	SupplyNone   Supply = "N/A"
)

// A RatingMode tells the builder where a component's voltage rating comes from.
type RatingMode string

const (
	RatingNone       RatingMode = "none"
	RatingFixed      RatingMode = "fixed"
	RatingAdjustable RatingMode = "adjustable"
	RatingMulti      RatingMode = "multi"
)

func (m RatingMode) Valid() bool {
	switch m {
	case RatingNone, RatingFixed, RatingAdjustable, RatingMulti:
		return true
	}
	return false
}

type (
	LoadSpec struct {
		PowerWatts float64
	}

	ControllerSpec struct {
		PowerRating     float64
		MaxCurrent      float64
		DefaultVoltages VoltageSet
	}

	BatterySpec struct {
		Capacity           float64
		Voltage            float64
		CRating            float64
		IncludesController bool
	}

	PanelSpec struct {
		PowerRating float64
	}
)

// MaxDischarge is the power the battery can deliver: capacity times C-rating.
func (b BatterySpec) MaxDischarge() float64 {
	return b.Capacity * b.CRating
}

// A CatalogEntry is a purchasable component.
//
// Category specific attributes are reachable only through the accessors,
// which report whether the entry carries them.
type CatalogEntry struct {
	Name          string
	Code          string
	Category      Category
	Subtype       Subtype
	BasePrice     decimal.Decimal
	Weight        float64
	Supply        Supply
	RatingMode    RatingMode
	DefaultRating float64
	Position      int

	load       *LoadSpec
	controller *ControllerSpec
	battery    *BatterySpec
	panel      *PanelSpec
}

type EntryOpt func(*CatalogEntry)

func WithLoad(s LoadSpec) EntryOpt {
	return func(e *CatalogEntry) { e.load = &s }
}

func WithController(s ControllerSpec) EntryOpt {
	return func(e *CatalogEntry) {
		s.DefaultVoltages = NewVoltageSet(s.DefaultVoltages...)
		e.controller = &s
	}
}

func WithBattery(s BatterySpec) EntryOpt {
	return func(e *CatalogEntry) { e.battery = &s }
}

func WithPanel(s PanelSpec) EntryOpt {
	return func(e *CatalogEntry) { e.panel = &s }
}

// With returns a copy of the entry carrying the given capability specs.
func (e CatalogEntry) With(opts ...EntryOpt) CatalogEntry {
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e CatalogEntry) Load() (LoadSpec, bool) {
	if e.load == nil {
		return LoadSpec{}, false
	}
	return *e.load, true
}

func (e CatalogEntry) Controller() (ControllerSpec, bool) {
	if e.controller == nil {
		return ControllerSpec{}, false
	}
	s := *e.controller
	s.DefaultVoltages = slices.Clone(s.DefaultVoltages)
	return s, true
}

func (e CatalogEntry) Battery() (BatterySpec, bool) {
	if e.battery == nil {
		return BatterySpec{}, false
	}
	return *e.battery, true
}

func (e CatalogEntry) Panel() (PanelSpec, bool) {
	if e.panel == nil {
		return PanelSpec{}, false
	}
	return *e.panel, true
}

// PowerRating is the nameplate power of a load, controller or panel, zero otherwise.
func (e CatalogEntry) PowerRating() float64 {
	switch {
	case e.load != nil:
		return e.load.PowerWatts
	case e.controller != nil:
		return e.controller.PowerRating
	case e.panel != nil:
		return e.panel.PowerRating
	}
	return 0
}

// A ProductEntry is a main appliance the system is assembled around.
type ProductEntry struct {
	Name              string
	BasePrice         decimal.Decimal
	VoltageType       VoltageType
	DefaultRating     int
	DefaultPowerWatts float64
	Weight            float64
	Custom            bool
}

// A CatalogGroup lists the entries of one category in definition order.
type CatalogGroup struct {
	Category Category
	Entries  []CatalogEntry
}
