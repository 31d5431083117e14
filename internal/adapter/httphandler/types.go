package httphandler

import (
	"time"

	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Override values stay untyped: clients send numbers, numeric strings or,
// for multi-voltage controllers, lists.
type (
	EvaluationRequest struct {
		Product    ProductChoice     `json:"product"`
		Components []ComponentChoice `json:"components"`
	}

	ProductChoice struct {
		Name            string `json:"name"`
		VoltageType     string `json:"voltage_type,omitempty"`
		VoltageRating   any    `json:"voltage_rating,omitempty"`
		PowerWatts      any    `json:"power_watts,omitempty"`
		PriceAdjustment any    `json:"price_adjustment,omitempty"`
		Weight          any    `json:"weight,omitempty"`
	}

	ComponentChoice struct {
		Name     string `json:"name"`
		Price    any    `json:"price,omitempty"`
		Rating   any    `json:"rating,omitempty"`
		Capacity any    `json:"capacity,omitempty"`
		CRating  any    `json:"c_rating,omitempty"`
	}
)

func (r EvaluationRequest) ToDomain() domain.Request {
	req := domain.Request{
		Product: domain.ProductChoice(r.Product),
	}
	for _, c := range r.Components {
		req.Components = append(req.Components, domain.ComponentChoice(c))
	}
	return req
}

type (
	EvaluationReport struct {
		ID              string       `json:"id"`
		EvaluatedAt     time.Time    `json:"evaluated_at"`
		Viable          bool         `json:"viable"`
		Violations      []Violation  `json:"violations"`
		Notices         []string     `json:"notices"`
		Product         Product      `json:"product"`
		Components      []Component  `json:"components"`
		Metrics         Metrics      `json:"metrics"`
		Recommendations []string     `json:"recommendations"`
		Adjustments     []Adjustment `json:"adjustments"`
	}

	Violation struct {
		Rule    string `json:"rule"`
		Message string `json:"message"`
	}

	Product struct {
		Name          string          `json:"name"`
		Price         decimal.Decimal `json:"price"`
		VoltageType   string          `json:"voltage_type"`
		VoltageRating int             `json:"voltage_rating"`
		PowerWatts    float64         `json:"power_watts"`
		Weight        float64         `json:"weight"`
		Custom        bool            `json:"custom"`
		Summary       string          `json:"summary"`
	}

	Component struct {
		Name               string          `json:"name"`
		Code               string          `json:"code,omitempty"`
		Category           string          `json:"category"`
		Subtype            string          `json:"subtype"`
		Price              decimal.Decimal `json:"price"`
		Supply             string          `json:"supply"`
		Rating             float64         `json:"rating,omitempty"`
		Voltages           []int           `json:"voltages,omitempty"`
		PowerRating        float64         `json:"power_rating,omitempty"`
		MaxCurrent         float64         `json:"max_current,omitempty"`
		BatteryCapacity    float64         `json:"battery_capacity,omitempty"`
		BatteryCRating     float64         `json:"battery_c_rating,omitempty"`
		Weight             float64         `json:"weight"`
		IncludesController bool            `json:"includes_controller,omitempty"`
		Summary            string          `json:"summary"`
	}

	Metrics struct {
		TotalCost               decimal.Decimal `json:"total_cost"`
		TotalWeight             float64         `json:"total_weight"`
		TotalSolarPower         float64         `json:"total_solar_power"`
		TotalControllerCapacity float64         `json:"total_controller_capacity"`
		TotalBatteryCapacity    float64         `json:"total_battery_capacity"`
		MaxSystemPower          float64         `json:"max_system_power"`
		TotalAppliancePower     float64         `json:"total_appliance_power"`
		SystemLoad              float64         `json:"system_load"`
		ProductPower            float64         `json:"product_power"`
		ControllerUtilization   *float64        `json:"controller_utilization,omitempty"`
		EstimatedRuntimeHours   *float64        `json:"estimated_runtime_hours,omitempty"`
	}

	Adjustment struct {
		Target  string `json:"target"`
		Field   string `json:"field"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
)

func NewEvaluationReport(r domain.Report) EvaluationReport {
	out := EvaluationReport{
		ID:              r.ID,
		EvaluatedAt:     r.EvaluatedAt,
		Viable:          r.Verdict.Viable,
		Violations:      make([]Violation, len(r.Verdict.Violations)),
		Notices:         nonNil(r.Verdict.Notices),
		Product:         newProduct(r.Configuration.Product),
		Components:      make([]Component, len(r.Configuration.Components)),
		Metrics:         newMetrics(r.Metrics),
		Recommendations: nonNil(r.Recommendations),
		Adjustments:     make([]Adjustment, len(r.Adjustments)),
	}

	for i, v := range r.Verdict.Violations {
		out.Violations[i] = Violation{Rule: v.Rule, Message: v.Message}
	}
	for i, c := range r.Configuration.Components {
		out.Components[i] = newComponent(c)
	}
	for i, a := range r.Adjustments {
		out.Adjustments[i] = Adjustment{
			Target:  a.Target,
			Field:   a.Field,
			Kind:    string(a.Kind),
			Message: a.Message,
		}
	}
	return out
}

func newProduct(p domain.Product) Product {
	return Product{
		Name:          p.Name,
		Price:         p.Price,
		VoltageType:   string(p.VoltageType),
		VoltageRating: p.VoltageRating,
		PowerWatts:    p.PowerWatts,
		Weight:        p.Weight,
		Custom:        p.Custom,
		Summary:       p.Describe(),
	}
}

func newComponent(c domain.ComponentSelection) Component {
	return Component{
		Name:               c.Name,
		Code:               c.Code,
		Category:           string(c.Category),
		Subtype:            string(c.Subtype),
		Price:              c.Price,
		Supply:             string(c.Supply),
		Rating:             c.Rating,
		Voltages:           c.Voltages,
		PowerRating:        c.PowerRating,
		MaxCurrent:         c.MaxCurrent,
		BatteryCapacity:    c.BatteryCapacity,
		BatteryCRating:     c.BatteryCRating,
		Weight:             c.Weight,
		IncludesController: c.IncludesController,
		Summary:            c.Describe(),
	}
}

func newMetrics(m domain.Metrics) Metrics {
	return Metrics{
		TotalCost:               m.TotalCost,
		TotalWeight:             m.TotalWeight,
		TotalSolarPower:         m.TotalSolarPower,
		TotalControllerCapacity: m.TotalControllerCapacity,
		TotalBatteryCapacity:    m.TotalBatteryCapacity,
		MaxSystemPower:          m.MaxSystemPower,
		TotalAppliancePower:     m.TotalAppliancePower,
		SystemLoad:              m.SystemLoad,
		ProductPower:            m.ProductPower,
		ControllerUtilization:   m.ControllerUtilization,
		EstimatedRuntimeHours:   m.EstimatedRuntimeHours,
	}
}

type (
	Catalog struct {
		Products   []CatalogProduct  `json:"products"`
		Categories []CatalogCategory `json:"categories"`
	}

	CatalogProduct struct {
		Name              string          `json:"name"`
		BasePrice         decimal.Decimal `json:"base_price"`
		VoltageType       string          `json:"voltage_type"`
		VoltageRatings    []int           `json:"voltage_ratings"`
		DefaultRating     int             `json:"default_rating"`
		DefaultPowerWatts float64         `json:"default_power_watts"`
		Weight            float64         `json:"weight"`
		Custom            bool            `json:"custom"`
	}

	CatalogCategory struct {
		Category   string             `json:"category"`
		Components []CatalogComponent `json:"components"`
	}

	CatalogComponent struct {
		Name               string          `json:"name"`
		Code               string          `json:"code,omitempty"`
		Subtype            string          `json:"subtype"`
		BasePrice          decimal.Decimal `json:"base_price"`
		Weight             float64         `json:"weight"`
		Supply             string          `json:"supply"`
		RatingMode         string          `json:"rating_mode"`
		DefaultRating      float64         `json:"default_rating,omitempty"`
		Voltages           []int           `json:"voltages,omitempty"`
		PowerRating        float64         `json:"power_rating,omitempty"`
		MaxCurrent         float64         `json:"max_current,omitempty"`
		Capacity           float64         `json:"capacity,omitempty"`
		CRating            float64         `json:"c_rating,omitempty"`
		IncludesController bool            `json:"includes_controller,omitempty"`
	}
)

func NewCatalog(products []domain.ProductEntry, groups []domain.CatalogGroup) Catalog {
	out := Catalog{
		Products:   make([]CatalogProduct, len(products)),
		Categories: make([]CatalogCategory, len(groups)),
	}

	for i, p := range products {
		out.Products[i] = CatalogProduct{
			Name:              p.Name,
			BasePrice:         p.BasePrice,
			VoltageType:       string(p.VoltageType),
			VoltageRatings:    p.VoltageType.Ratings(),
			DefaultRating:     p.DefaultRating,
			DefaultPowerWatts: p.DefaultPowerWatts,
			Weight:            p.Weight,
			Custom:            p.Custom,
		}
	}

	for i, g := range groups {
		cat := CatalogCategory{
			Category:   string(g.Category),
			Components: make([]CatalogComponent, len(g.Entries)),
		}
		for j, e := range g.Entries {
			cat.Components[j] = newCatalogComponent(e)
		}
		out.Categories[i] = cat
	}
	return out
}

func newCatalogComponent(e domain.CatalogEntry) CatalogComponent {
	c := CatalogComponent{
		Name:          e.Name,
		Code:          e.Code,
		Subtype:       string(e.Subtype),
		BasePrice:     e.BasePrice,
		Weight:        e.Weight,
		Supply:        string(e.Supply),
		RatingMode:    string(e.RatingMode),
		DefaultRating: e.DefaultRating,
		PowerRating:   e.PowerRating(),
	}
	if cs, ok := e.Controller(); ok {
		c.MaxCurrent = cs.MaxCurrent
		c.Voltages = cs.DefaultVoltages
	}
	if bs, ok := e.Battery(); ok {
		c.Capacity = bs.Capacity
		c.CRating = bs.CRating
		c.IncludesController = bs.IncludesController
	}
	return c
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
