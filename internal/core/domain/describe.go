package domain

import "fmt"

// Describe renders the product summary line, e.g.
// "Rice Mill: $800 (230V AC, 1500W, 0kg)".
func (p Product) Describe() string {
	return fmt.Sprintf("%s: $%s (%dV %s, %sW, %skg)",
		p.Name, p.Price, p.VoltageRating, p.VoltageType,
		FormatNumber(p.PowerWatts), FormatNumber(p.Weight),
	)
}

// Describe renders the summary line of a selected component. The details
// shown depend on the subtype.
func (c ComponentSelection) Describe() string {
	var details string
	switch {
	case c.IsBattery():
		details = fmt.Sprintf("%sV, %sWh, %sC, max discharge %.0fW, %skg",
			c.RatingLabel(), FormatNumber(c.BatteryCapacity), FormatNumber(c.BatteryCRating),
			c.MaxDischarge(), FormatNumber(c.Weight),
		)
	case c.IsController():
		details = fmt.Sprintf("%sV, %sW, %sA, %skg",
			c.RatingLabel(), FormatNumber(c.PowerRating), FormatNumber(c.MaxCurrent),
			FormatNumber(c.Weight),
		)
	case c.Subtype == SubtypeSolarPanel:
		details = fmt.Sprintf("%sV, %sWp, %skg",
			c.RatingLabel(), FormatNumber(c.PowerRating), FormatNumber(c.Weight),
		)
	case c.Subtype == SubtypeInverter:
		details = fmt.Sprintf("%s, %skg", c.Supply, FormatNumber(c.Weight))
	case c.IsAppliance():
		details = fmt.Sprintf("%sV %s, %sW, %skg",
			c.RatingLabel(), c.Supply, FormatNumber(c.PowerRating), FormatNumber(c.Weight),
		)
	default:
		details = fmt.Sprintf("%s, %skg", c.Supply, FormatNumber(c.Weight))
	}
	return fmt.Sprintf("%s: $%s (%s)", c.Name, c.Price, details)
}
