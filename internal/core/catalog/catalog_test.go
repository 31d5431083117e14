package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niksmo/solarcomp/internal/core/catalog"
	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	again, err := catalog.Default()
	require.NoError(t, err)
	assert.Same(t, c, again)

	assert.NotEmpty(t, c.Version())
	assert.Len(t, c.Products(), 2)
	assert.Len(t, c.Components(), 42)

	t.Run("RiceMill", func(t *testing.T) {
		p, err := c.Product("Rice Mill")
		require.NoError(t, err)
		assert.Equal(t, "800", p.BasePrice.String())
		assert.Equal(t, domain.VoltageAC, p.VoltageType)
		assert.Equal(t, 230, p.DefaultRating)
		assert.Equal(t, 1500.0, p.DefaultPowerWatts)
		assert.False(t, p.Custom)
	})

	t.Run("CustomProduct", func(t *testing.T) {
		p, err := c.Product("Custom Product")
		require.NoError(t, err)
		assert.True(t, p.Custom)
		assert.Equal(t, domain.VoltageDC, p.VoltageType)
	})

	t.Run("Battery", func(t *testing.T) {
		e, err := c.Component("CBA20001 - Battery 5kWh")
		require.NoError(t, err)
		assert.Equal(t, "CBA20001", e.Code)
		assert.Equal(t, domain.CategoryBatteries, e.Category)
		assert.Equal(t, domain.SubtypeBattery, e.Subtype)

		spec, ok := e.Battery()
		require.True(t, ok)
		assert.Equal(t, 5000.0, spec.Capacity)
		assert.Equal(t, 25.6, spec.Voltage)
		assert.True(t, spec.IncludesController)

		_, ok = e.Load()
		assert.False(t, ok)
	})

	t.Run("ControllerPod", func(t *testing.T) {
		e, err := c.Component("CSC04001 - Controller Pod")
		require.NoError(t, err)
		assert.Equal(t, domain.RatingMulti, e.RatingMode)

		spec, ok := e.Controller()
		require.True(t, ok)
		assert.Equal(t, domain.VoltageSet{12, 24}, spec.DefaultVoltages)
		assert.Equal(t, 960.0, spec.PowerRating)
	})

	t.Run("InverterHasNoCode", func(t *testing.T) {
		e, err := c.Component("Inverter")
		require.NoError(t, err)
		assert.Empty(t, e.Code)
		assert.Equal(t, domain.SupplyDCToAC, e.Supply)
	})

	t.Run("DuplicateCodes", func(t *testing.T) {
		a, err := c.Component("CSC00506 - Solar cable 2.5mm, 5m")
		require.NoError(t, err)
		b, err := c.Component("CSC00506 - Solar cable 4mm, 5m")
		require.NoError(t, err)
		assert.Equal(t, a.Code, b.Code)
		assert.Less(t, a.Position, b.Position)
	})

	t.Run("UnknownEntry", func(t *testing.T) {
		_, err := c.Component("Flux capacitor")
		assert.ErrorIs(t, err, domain.ErrUnknownCatalogEntry)

		_, err = c.Product("Flux capacitor")
		assert.ErrorIs(t, err, domain.ErrUnknownCatalogEntry)
	})
}

func TestGrouped(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	groups := c.Grouped()
	require.Len(t, groups, 9)

	var total int
	for i, g := range groups {
		if i > 0 {
			assert.Less(t, string(groups[i-1].Category), string(g.Category))
		}
		for _, e := range g.Entries {
			assert.Equal(t, g.Category, e.Category)
		}
		total += len(g.Entries)
	}
	assert.Equal(t, len(c.Components()), total)
	assert.Equal(t, domain.CategoryAccessories, groups[0].Category)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "SubtypeOutsideCategory",
			data: `
products: [{name: P, base_price: 1, voltage_type: DC, default_rating: 24}]
components:
  - {name: X, category: Accessories, subtype: battery, rating_mode: none}
`,
		},
		{
			name: "UnknownCategory",
			data: `
products: [{name: P, base_price: 1, voltage_type: DC, default_rating: 24}]
components:
  - {name: X, category: Gadgets, subtype: icebox, rating_mode: none}
`,
		},
		{
			name: "BatteryWithoutSpec",
			data: `
products: [{name: P, base_price: 1, voltage_type: DC, default_rating: 24}]
components:
  - {name: X, category: Batteries, subtype: battery, rating_mode: fixed}
`,
		},
		{
			name: "DuplicateName",
			data: `
products: [{name: P, base_price: 1, voltage_type: DC, default_rating: 24}]
components:
  - {name: X, category: Accessories, subtype: icebox, rating_mode: none}
  - {name: X, category: Accessories, subtype: icebox, rating_mode: none}
`,
		},
		{
			name: "ProductRatingOutsideSet",
			data: `
products: [{name: P, base_price: 1, voltage_type: AC, default_rating: 24}]
`,
		},
		{
			name: "NoProducts",
			data: `components: []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Load([]byte(tt.data))
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}

	t.Run("Syntax", func(t *testing.T) {
		_, err := catalog.Load([]byte("products: ["))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	data := `
version: test
products: [{name: P, base_price: 10.5, voltage_type: DC, default_rating: 12}]
components:
  - {name: "AB01 - Box", category: Accessories, subtype: icebox, base_price: 3, rating_mode: none}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Version())

	p, err := c.Product("P")
	require.NoError(t, err)
	assert.Equal(t, "10.5", p.BasePrice.String())

	e, err := c.Component("AB01 - Box")
	require.NoError(t, err)
	assert.Equal(t, "AB01", e.Code)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
