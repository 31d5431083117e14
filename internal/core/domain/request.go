package domain

// Override values are kept as the caller sent them (JSON number, numeric
// string, list) and coerced by the builder. A nil value means "not set".
type (
	Request struct {
		Product    ProductChoice
		Components []ComponentChoice
	}

	ProductChoice struct {
		Name            string
		VoltageType     string
		VoltageRating   any
		PowerWatts      any
		PriceAdjustment any
		Weight          any
	}

	ComponentChoice struct {
		Name     string
		Price    any
		Rating   any
		Capacity any
		CRating  any
	}
)
