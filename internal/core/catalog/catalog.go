package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/port"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

var _ port.CatalogReader = (*Catalog)(nil)

// Catalog is the read-only product and component dataset.
// It is safe for concurrent use.
type Catalog struct {
	version      string
	products     []domain.ProductEntry
	components   []domain.CatalogEntry
	productIdx   map[string]int
	componentIdx map[string]int
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultData)
})

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

func LoadFile(path string) (*Catalog, error) {
	const op = "catalog.LoadFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func Load(data []byte) (*Catalog, error) {
	const op = "catalog.Load"

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Catalog{
		version:      f.Version,
		productIdx:   make(map[string]int, len(f.Products)),
		componentIdx: make(map[string]int, len(f.Components)),
	}

	for _, p := range f.Products {
		entry, err := p.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, dup := c.productIdx[entry.Name]; dup {
			return nil, fmt.Errorf(
				"%s: %w: duplicate product %q", op, ErrInvalidCatalog, entry.Name,
			)
		}
		c.productIdx[entry.Name] = len(c.products)
		c.products = append(c.products, entry)
	}

	for i, comp := range f.Components {
		entry, err := comp.toDomain(i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, dup := c.componentIdx[entry.Name]; dup {
			return nil, fmt.Errorf(
				"%s: %w: duplicate component %q", op, ErrInvalidCatalog, entry.Name,
			)
		}
		c.componentIdx[entry.Name] = len(c.components)
		c.components = append(c.components, entry)
	}

	if len(c.products) == 0 {
		return nil, fmt.Errorf("%s: %w: no products", op, ErrInvalidCatalog)
	}
	return c, nil
}

func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Product(name string) (domain.ProductEntry, error) {
	const op = "Catalog.Product"

	i, ok := c.productIdx[name]
	if !ok {
		return domain.ProductEntry{}, fmt.Errorf(
			"%s: %w: product %q", op, domain.ErrUnknownCatalogEntry, name,
		)
	}
	return c.products[i], nil
}

func (c *Catalog) Component(name string) (domain.CatalogEntry, error) {
	const op = "Catalog.Component"

	i, ok := c.componentIdx[name]
	if !ok {
		return domain.CatalogEntry{}, fmt.Errorf(
			"%s: %w: component %q", op, domain.ErrUnknownCatalogEntry, name,
		)
	}
	return c.components[i], nil
}

func (c *Catalog) Products() []domain.ProductEntry {
	return slices.Clone(c.products)
}

// Components returns every component in definition order.
func (c *Catalog) Components() []domain.CatalogEntry {
	return slices.Clone(c.components)
}

// Grouped returns components grouped by category, categories sorted by name.
// Empty categories are left out.
func (c *Catalog) Grouped() []domain.CatalogGroup {
	var groups []domain.CatalogGroup
	for _, cat := range domain.Categories() {
		var entries []domain.CatalogEntry
		for _, e := range c.components {
			if e.Category == cat {
				entries = append(entries, e)
			}
		}
		if len(entries) != 0 {
			groups = append(groups, domain.CatalogGroup{Category: cat, Entries: entries})
		}
	}
	return groups
}

type (
	file struct {
		Version    string      `yaml:"version"`
		Products   []product   `yaml:"products"`
		Components []component `yaml:"components"`
	}

	product struct {
		Name              string  `yaml:"name"`
		BasePrice         float64 `yaml:"base_price"`
		VoltageType       string  `yaml:"voltage_type"`
		DefaultRating     int     `yaml:"default_rating"`
		DefaultPowerWatts float64 `yaml:"default_power_watts"`
		Weight            float64 `yaml:"weight"`
		Custom            bool    `yaml:"custom"`
	}

	component struct {
		Name          string      `yaml:"name"`
		Category      string      `yaml:"category"`
		Subtype       string      `yaml:"subtype"`
		BasePrice     float64     `yaml:"base_price"`
		Weight        float64     `yaml:"weight"`
		Supply        string      `yaml:"supply"`
		RatingMode    string      `yaml:"rating_mode"`
		DefaultRating float64     `yaml:"default_rating"`
		Load          *load       `yaml:"load"`
		Controller    *controller `yaml:"controller"`
		Battery       *battery    `yaml:"battery"`
		Panel         *panel      `yaml:"panel"`
	}

	load struct {
		PowerWatts float64 `yaml:"power_watts"`
	}

	controller struct {
		PowerRating     float64 `yaml:"power_rating"`
		MaxCurrent      float64 `yaml:"max_current"`
		DefaultVoltages []int   `yaml:"default_voltages"`
	}

	battery struct {
		Capacity           float64 `yaml:"capacity"`
		Voltage            float64 `yaml:"voltage"`
		CRating            float64 `yaml:"c_rating"`
		IncludesController bool    `yaml:"includes_controller"`
	}

	panel struct {
		PowerRating float64 `yaml:"power_rating"`
	}
)

func (p product) toDomain() (domain.ProductEntry, error) {
	vt := domain.VoltageType(p.VoltageType)
	switch {
	case p.Name == "":
		return domain.ProductEntry{}, fmt.Errorf("%w: product without name", ErrInvalidCatalog)
	case !vt.Valid():
		return domain.ProductEntry{}, fmt.Errorf(
			"%w: product %q: voltage type %q", ErrInvalidCatalog, p.Name, p.VoltageType,
		)
	case !vt.Supports(float64(p.DefaultRating)):
		return domain.ProductEntry{}, fmt.Errorf(
			"%w: product %q: rating %d", ErrInvalidCatalog, p.Name, p.DefaultRating,
		)
	case p.BasePrice < 0 || p.Weight < 0 || p.DefaultPowerWatts < 0:
		return domain.ProductEntry{}, fmt.Errorf(
			"%w: product %q: negative value", ErrInvalidCatalog, p.Name,
		)
	}

	return domain.ProductEntry{
		Name:              p.Name,
		BasePrice:         decimal.NewFromFloat(p.BasePrice),
		VoltageType:       vt,
		DefaultRating:     p.DefaultRating,
		DefaultPowerWatts: p.DefaultPowerWatts,
		Weight:            p.Weight,
		Custom:            p.Custom,
	}, nil
}

func (c component) toDomain(position int) (domain.CatalogEntry, error) {
	if err := c.validate(); err != nil {
		return domain.CatalogEntry{}, err
	}

	entry := domain.CatalogEntry{
		Name:          c.Name,
		Code:          orderCode(c.Name),
		Category:      domain.Category(c.Category),
		Subtype:       domain.Subtype(c.Subtype),
		BasePrice:     decimal.NewFromFloat(c.BasePrice),
		Weight:        c.Weight,
		Supply:        domain.Supply(c.Supply),
		RatingMode:    domain.RatingMode(c.RatingMode),
		DefaultRating: c.DefaultRating,
		Position:      position,
	}

	var opts []domain.EntryOpt
	if c.Load != nil {
		opts = append(opts, domain.WithLoad(domain.LoadSpec{PowerWatts: c.Load.PowerWatts}))
	}
	if c.Controller != nil {
		opts = append(opts, domain.WithController(domain.ControllerSpec{
			PowerRating:     c.Controller.PowerRating,
			MaxCurrent:      c.Controller.MaxCurrent,
			DefaultVoltages: domain.NewVoltageSet(c.Controller.DefaultVoltages...),
		}))
	}
	if c.Battery != nil {
		opts = append(opts, domain.WithBattery(domain.BatterySpec{
			Capacity:           c.Battery.Capacity,
			Voltage:            c.Battery.Voltage,
			CRating:            c.Battery.CRating,
			IncludesController: c.Battery.IncludesController,
		}))
	}
	if c.Panel != nil {
		opts = append(opts, domain.WithPanel(domain.PanelSpec{PowerRating: c.Panel.PowerRating}))
	}
	return entry.With(opts...), nil
}

func (c component) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: component without name", ErrInvalidCatalog)
	}

	invalid := func(format string, args ...any) error {
		return fmt.Errorf(
			"%w: component %q: %s", ErrInvalidCatalog, c.Name, fmt.Sprintf(format, args...),
		)
	}

	cat := domain.Category(c.Category)
	if !cat.Valid() {
		return invalid("category %q", c.Category)
	}
	st := domain.Subtype(c.Subtype)
	stCat, ok := st.Category()
	if !ok {
		return invalid("subtype %q", c.Subtype)
	}
	if stCat != cat {
		return invalid("subtype %q is not in category %q", c.Subtype, c.Category)
	}
	if !domain.RatingMode(c.RatingMode).Valid() {
		return invalid("rating mode %q", c.RatingMode)
	}
	if c.BasePrice < 0 || c.Weight < 0 {
		return invalid("negative price or weight")
	}

	switch {
	case cat == domain.CategoryAppliances && c.Load == nil:
		return invalid("appliance without load")
	case cat == domain.CategoryControllers && c.Controller == nil:
		return invalid("controller without controller spec")
	case st == domain.SubtypeBattery && c.Battery == nil:
		return invalid("battery without battery spec")
	case st == domain.SubtypeSolarPanel && c.Panel == nil:
		return invalid("solar panel without panel spec")
	case st == domain.SubtypeMultiVoltageController &&
		domain.RatingMode(c.RatingMode) != domain.RatingMulti:
		return invalid("multi-voltage controller must use rating mode %q", domain.RatingMulti)
	}

	if c.Controller != nil {
		for _, v := range c.Controller.DefaultVoltages {
			if !slices.Contains(domain.ControllerVoltageOptions(), v) {
				return invalid("controller voltage %d", v)
			}
		}
	}
	return nil
}

// orderCode extracts the order code prefix, "CBA75001" in
// "CBA75001 - Battery 750Wh". Names without one have an empty code.
func orderCode(name string) string {
	code, _, found := strings.Cut(name, " - ")
	if !found {
		return ""
	}
	return code
}
