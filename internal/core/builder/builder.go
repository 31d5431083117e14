// Package builder turns a configuration request into an immutable
// [domain.Configuration], layering user overrides over catalog defaults.
//
// Only an unknown catalog name fails a build. Overrides outside their
// documented domain are clamped, values that cannot be read as numbers fall
// back to the catalog default; both are reported as adjustments.
package builder

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/port"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const minPriceAdjustment = -200

var cRatingOptions = []float64{0.5, 1, 2, 3}

var errNotNumber = errors.New("not a number")

type Builder struct {
	catalog port.CatalogReader
}

func New(catalog port.CatalogReader) Builder {
	return Builder{catalog}
}

// Build resolves the request against the catalog. The returned error wraps
// [domain.ErrUnknownCatalogEntry] when a product or component is not listed.
func (b Builder) Build(
	req domain.Request,
) (domain.Configuration, []domain.Adjustment, error) {
	const op = "Builder.Build"

	var notes adjustments

	product, err := b.buildProduct(req.Product, &notes)
	if err != nil {
		return domain.Configuration{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	components := make([]domain.ComponentSelection, 0, len(req.Components))
	positions := make(map[string]int, len(req.Components))
	order := make(map[string]int, len(req.Components))

	for _, choice := range req.Components {
		entry, err := b.catalog.Component(choice.Name)
		if err != nil {
			return domain.Configuration{}, nil, fmt.Errorf("%s: %w", op, err)
		}

		sel := buildComponent(entry, choice, &notes)
		if i, dup := positions[entry.Name]; dup {
			notes.invalid(entry.Name, "name", "selected more than once, the last selection is kept")
			components[i] = sel
			continue
		}
		positions[entry.Name] = len(components)
		order[entry.Name] = entry.Position
		components = append(components, sel)
	}

	slices.SortStableFunc(components, func(a, b domain.ComponentSelection) int {
		if c := strings.Compare(string(a.Category), string(b.Category)); c != 0 {
			return c
		}
		return order[a.Name] - order[b.Name]
	})

	cfg := domain.Configuration{Product: product, Components: components}
	return cfg, notes.list, nil
}

func (b Builder) buildProduct(
	choice domain.ProductChoice, notes *adjustments,
) (domain.Product, error) {
	entry, err := b.catalog.Product(choice.Name)
	if err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		Name:          entry.Name,
		Price:         entry.BasePrice,
		VoltageType:   entry.VoltageType,
		VoltageRating: entry.DefaultRating,
		PowerWatts:    entry.DefaultPowerWatts,
		Weight:        entry.Weight,
		Custom:        entry.Custom,
	}

	if s := strings.TrimSpace(choice.VoltageType); s != "" {
		vt := domain.VoltageType(strings.ToUpper(s))
		if vt.Valid() {
			p.VoltageType = vt
		} else {
			notes.invalid(p.Name, "voltage_type", fmt.Sprintf(
				"%q is not AC or DC, using %s", s, entry.VoltageType,
			))
		}
	}

	p.VoltageRating = productRating(entry, p.VoltageType, choice.VoltageRating, notes)

	if isSet(choice.PowerWatts) {
		switch v, err := number(choice.PowerWatts); {
		case err != nil:
			notes.malformed(p.Name, "power_watts", choice.PowerWatts, domain.FormatNumber(p.PowerWatts))
		case v < 0:
			notes.invalid(p.Name, "power_watts", fmt.Sprintf(
				"%sW is negative, using %sW", domain.FormatNumber(v), domain.FormatNumber(p.PowerWatts),
			))
		default:
			p.PowerWatts = v
		}
	}

	if isSet(choice.PriceAdjustment) {
		p.Price = productPrice(entry, choice.PriceAdjustment, notes)
	}

	if isSet(choice.Weight) {
		switch v, err := number(choice.Weight); {
		case !entry.Custom:
			notes.invalid(p.Name, "weight", "weight is fixed for this product, override ignored")
		case err != nil:
			notes.malformed(p.Name, "weight", choice.Weight, domain.FormatNumber(p.Weight))
		case v < 0:
			notes.invalid(p.Name, "weight", fmt.Sprintf(
				"%skg is negative, using %skg", domain.FormatNumber(v), domain.FormatNumber(p.Weight),
			))
		default:
			p.Weight = v
		}
	}

	return p, nil
}

// productRating picks the product voltage rating. A catalog default that does
// not fit a switched voltage type falls back silently; a requested rating
// outside the set is clamped with a note.
func productRating(
	entry domain.ProductEntry, vt domain.VoltageType, raw any, notes *adjustments,
) int {
	fallback := entry.DefaultRating
	if !vt.Supports(float64(fallback)) {
		fallback = vt.DefaultRating()
	}

	if !isSet(raw) {
		return fallback
	}

	v, err := number(raw)
	if err != nil {
		notes.malformed(entry.Name, "voltage_rating", raw, fmt.Sprintf("%dV", fallback))
		return fallback
	}
	if !vt.Supports(v) {
		notes.invalid(entry.Name, "voltage_rating", fmt.Sprintf(
			"%sV is not a %s rating (%s), using %dV",
			domain.FormatNumber(v), vt, domain.VoltageSet(vt.Ratings()), vt.DefaultRating(),
		))
		return vt.DefaultRating()
	}
	return int(v)
}

func productPrice(
	entry domain.ProductEntry, raw any, notes *adjustments,
) decimal.Decimal {
	if !entry.Custom {
		notes.invalid(entry.Name, "price_adjustment",
			"price adjustment applies to the custom product only, override ignored")
		return entry.BasePrice
	}

	v, err := number(raw)
	if err != nil {
		notes.malformed(entry.Name, "price_adjustment", raw, "no adjustment")
		return entry.BasePrice
	}
	if v < minPriceAdjustment {
		notes.invalid(entry.Name, "price_adjustment", fmt.Sprintf(
			"%s is below %d, using %d", domain.FormatNumber(v), minPriceAdjustment, minPriceAdjustment,
		))
		v = minPriceAdjustment
	}
	return entry.BasePrice.Add(decimal.NewFromFloat(v))
}

func buildComponent(
	entry domain.CatalogEntry, choice domain.ComponentChoice, notes *adjustments,
) domain.ComponentSelection {
	sel := domain.ComponentSelection{
		Name:        entry.Name,
		Code:        entry.Code,
		Category:    entry.Category,
		Subtype:     entry.Subtype,
		Price:       entry.BasePrice,
		Supply:      entry.Supply,
		Rating:      entry.DefaultRating,
		PowerRating: entry.PowerRating(),
		Weight:      entry.Weight,
	}

	if cs, ok := entry.Controller(); ok {
		sel.MaxCurrent = cs.MaxCurrent
	}

	if isSet(choice.Price) {
		switch v, err := number(choice.Price); {
		case err != nil:
			notes.malformed(sel.Name, "price", choice.Price, "$"+entry.BasePrice.String())
		case v < 0:
			notes.invalid(sel.Name, "price", fmt.Sprintf(
				"%s is negative, using %s", domain.FormatNumber(v), entry.BasePrice,
			))
		default:
			sel.Price = decimal.NewFromFloat(v)
		}
	}

	applyRating(&sel, entry, choice.Rating, notes)
	applyBattery(&sel, entry, choice, notes)
	return sel
}

func applyRating(
	sel *domain.ComponentSelection, entry domain.CatalogEntry, raw any, notes *adjustments,
) {
	switch entry.RatingMode {
	case domain.RatingNone:
		sel.Rating = 0
		if isSet(raw) {
			notes.invalid(sel.Name, "rating", "component has no voltage rating, override ignored")
		}

	case domain.RatingFixed:
		if isSet(raw) {
			notes.invalid(sel.Name, "rating", fmt.Sprintf(
				"rating is fixed at %sV, override ignored", domain.FormatNumber(entry.DefaultRating),
			))
		}

	case domain.RatingAdjustable:
		if !isSet(raw) {
			return
		}
		v, err := number(raw)
		switch {
		case err != nil:
			notes.malformed(sel.Name, "rating", raw, "0V")
			sel.Rating = 0
			sel.RatingMalformed = true
		case v < 0 || v != math.Trunc(v):
			notes.invalid(sel.Name, "rating", fmt.Sprintf(
				"%sV is not a whole positive voltage, using %sV",
				domain.FormatNumber(v), domain.FormatNumber(entry.DefaultRating),
			))
		default:
			sel.Rating = v
		}

	case domain.RatingMulti:
		cs, _ := entry.Controller()
		sel.Voltages = cs.DefaultVoltages
		if !isSet(raw) {
			return
		}
		vs, err := voltageSet(raw)
		if err == nil && len(vs) == 0 {
			err = fmt.Errorf("%w: no voltages selected", domain.ErrVoltageSetSyntax)
		}
		if err != nil {
			notes.malformed(sel.Name, "rating", raw, "no supported voltages")
			sel.Voltages = nil
			sel.RatingMalformed = true
			return
		}
		for _, v := range vs {
			if !slices.Contains(domain.ControllerVoltageOptions(), v) {
				notes.invalid(sel.Name, "rating", fmt.Sprintf(
					"%dV is not one of %s, using %s",
					v, domain.VoltageSet(domain.ControllerVoltageOptions()), cs.DefaultVoltages,
				))
				return
			}
		}
		sel.Voltages = vs
	}
}

func applyBattery(
	sel *domain.ComponentSelection, entry domain.CatalogEntry,
	choice domain.ComponentChoice, notes *adjustments,
) {
	bs, ok := entry.Battery()
	if !ok {
		if isSet(choice.Capacity) {
			notes.invalid(sel.Name, "capacity", "only batteries have a capacity, override ignored")
		}
		if isSet(choice.CRating) {
			notes.invalid(sel.Name, "c_rating", "only batteries have a C-rating, override ignored")
		}
		return
	}

	sel.Rating = bs.Voltage
	sel.BatteryCapacity = bs.Capacity
	sel.BatteryCRating = bs.CRating
	sel.IncludesController = bs.IncludesController

	if isSet(choice.Capacity) {
		switch v, err := number(choice.Capacity); {
		case err != nil:
			notes.malformed(sel.Name, "capacity", choice.Capacity, domain.FormatNumber(bs.Capacity)+"Wh")
		case v < 0:
			notes.invalid(sel.Name, "capacity", fmt.Sprintf(
				"%sWh is negative, using %sWh", domain.FormatNumber(v), domain.FormatNumber(bs.Capacity),
			))
		default:
			sel.BatteryCapacity = v
		}
	}

	if isSet(choice.CRating) {
		switch v, err := number(choice.CRating); {
		case err != nil:
			notes.malformed(sel.Name, "c_rating", choice.CRating, domain.FormatNumber(bs.CRating)+"C")
		case !slices.Contains(cRatingOptions, v):
			notes.invalid(sel.Name, "c_rating", fmt.Sprintf(
				"%sC is not one of 0.5, 1, 2, 3, using %sC",
				domain.FormatNumber(v), domain.FormatNumber(bs.CRating),
			))
		default:
			sel.BatteryCRating = v
		}
	}
}

// voltageSet reads a list of voltages from a JSON list or the comma-joined
// display form.
func voltageSet(raw any) (domain.VoltageSet, error) {
	var items []any
	switch v := raw.(type) {
	case string:
		return domain.ParseVoltageSet(v)
	case []any:
		items = v
	case []int:
		return domain.NewVoltageSet(v...), nil
	case []float64:
		for _, f := range v {
			items = append(items, f)
		}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		items = []any{v}
	}

	vs := make([]int, 0, len(items))
	for _, item := range items {
		f, err := number(item)
		if err != nil || f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: %v", domain.ErrVoltageSetSyntax, item)
		}
		vs = append(vs, int(f))
	}
	return domain.NewVoltageSet(vs...), nil
}

func isSet(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// number coerces JSON numbers, numeric strings and Go numeric types.
// Booleans and non-finite values are rejected.
func number(v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		return 0, errNotNumber
	case string:
		v = strings.TrimSpace(x)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errNotNumber, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

type adjustments struct {
	list []domain.Adjustment
}

func (a *adjustments) invalid(target, field, msg string) {
	a.list = append(a.list, domain.Adjustment{
		Target:  target,
		Field:   field,
		Kind:    domain.AdjustmentInvalidOverride,
		Message: msg,
	})
}

func (a *adjustments) malformed(target, field string, raw any, fallback string) {
	a.list = append(a.list, domain.Adjustment{
		Target:  target,
		Field:   field,
		Kind:    domain.AdjustmentMalformedField,
		Message: fmt.Sprintf("%v is not a number, using %s", raw, fallback),
	})
}
