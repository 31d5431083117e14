package advisor_test

import (
	"testing"

	"github.com/niksmo/solarcomp/internal/core/advisor"
	"github.com/niksmo/solarcomp/internal/core/builder"
	"github.com/niksmo/solarcomp/internal/core/catalog"
	"github.com/niksmo/solarcomp/internal/core/compat"
	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advise(t *testing.T, product string, names ...string) ([]string, domain.Verdict) {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	req := domain.Request{Product: domain.ProductChoice{Name: product}}
	for _, n := range names {
		req.Components = append(req.Components, domain.ComponentChoice{Name: n})
	}
	cfg, _, err := builder.New(c).Build(req)
	require.NoError(t, err)

	v := compat.Evaluate(cfg)
	return advisor.Advise(cfg, v, metrics.Aggregate(cfg)), v
}

func TestAdvise(t *testing.T) {
	t.Run("NoComponents", func(t *testing.T) {
		recs, v := advise(t, "Custom Product")
		require.True(t, v.Viable)
		assert.Empty(t, recs)
	})

	t.Run("NotViable", func(t *testing.T) {
		recs, v := advise(t, "Custom Product", "Inverter")
		require.False(t, v.Viable)
		assert.Empty(t, recs)
	})

	t.Run("LonePanels", func(t *testing.T) {
		recs, v := advise(t, "Custom Product", "CSP12501 - Solar panel 125W")
		require.True(t, v.Viable)
		assert.Equal(t, []string{
			"Solar panels work best with a battery and controller system for energy storage",
			"Consider adding solar cables and mounting hardware for your solar panels",
		}, recs)
	})

	t.Run("PanelsWithCabling", func(t *testing.T) {
		recs, _ := advise(t, "Custom Product",
			"CSP12501 - Solar panel 125W", "CSC00506 - Solar cable 4mm, 5m",
		)
		assert.Equal(t, []string{
			"Solar panels work best with a battery and controller system for energy storage",
		}, recs)
	})

	t.Run("IntegratedControllerBattery", func(t *testing.T) {
		recs, v := advise(t, "Custom Product", "CBA20001 - Battery 5kWh")
		require.True(t, v.Viable)
		assert.Equal(t, []string{
			"Estimated battery runtime: 10.0 hours at full load",
			"Consider adding battery cables for proper battery connections",
		}, recs)
	})

	t.Run("BatteryCablePresent", func(t *testing.T) {
		recs, _ := advise(t, "Custom Product",
			"CBA20001 - Battery 5kWh", "CBC00201 - Battery cable, 3m x 16mm",
		)
		assert.Equal(t, []string{"Estimated battery runtime: 10.0 hours at full load"}, recs)
	})

	t.Run("RuntimeAgainstApplianceLoad", func(t *testing.T) {
		recs, v := advise(t, "Custom Product",
			"CIM00501 - Ice-maker 50kg",
			"CBA20001 - Battery 5kWh",
			"CIB00901 - VIP 90L icebox",
			"CBC00201 - Battery cable, 3m x 16mm",
		)
		require.True(t, v.Viable)
		assert.Equal(t, []string{"Estimated battery runtime: 27.8 hours at full load"}, recs)
	})

	t.Run("MotorAndIceMaker", func(t *testing.T) {
		recs, v := advise(t, "Custom Product",
			"CMM75001 - Mighty Motor 750W",
			"CGB00101 - Gearbox",
			"CME02201 - Meat mincer",
			"CIM00501 - Ice-maker 50kg",
		)
		require.True(t, v.Viable)
		assert.Equal(t, []string{
			"Multiple motor attachments selected - ensure they are compatible with each other",
			"Ice-maker works best with an insulated icebox to maintain ice quality",
		}, recs)
		assert.Equal(t, []string{
			"Consider adding an insulated icebox for optimal ice-maker performance",
		}, v.Notices)
	})
}

func TestAdviseControllerSuggestion(t *testing.T) {
	cfg := domain.Configuration{
		Product: domain.Product{Name: "P", VoltageType: domain.VoltageDC},
		Components: []domain.ComponentSelection{{
			Name: "B", Category: domain.CategoryBatteries, Subtype: domain.SubtypeBattery,
			BatteryCapacity: 100, BatteryCRating: 1,
		}},
	}
	recs := advisor.Advise(cfg, domain.Verdict{Viable: true}, domain.Metrics{})
	assert.Equal(t, []string{
		"Consider adding a Solar Controller for better battery charging efficiency",
		"Consider adding battery cables for proper battery connections",
	}, recs)
}
