// Package advisor suggests improvements for viable configurations.
// Its output never affects viability.
package advisor

import (
	"fmt"

	"github.com/niksmo/solarcomp/internal/core/domain"
)

// Advise returns the recommendations in a fixed order. It returns nothing
// for configurations that are not viable or have no components.
func Advise(
	cfg domain.Configuration, verdict domain.Verdict, m domain.Metrics,
) []string {
	if !verdict.Viable || len(cfg.Components) == 0 {
		return nil
	}

	var (
		out         []string
		batteries   = cfg.Batteries()
		controllers = cfg.Controllers()
		panels      = cfg.SolarPanels()
	)

	if len(batteries) != 0 && len(controllers) == 0 && !integratedController(batteries) {
		out = append(out, "Consider adding a Solar Controller for better battery charging efficiency")
	}

	if len(panels) != 0 && len(controllers) == 0 && len(batteries) == 0 {
		out = append(out, "Solar panels work best with a battery and controller system for energy storage")
	}

	if len(cfg.ByCategory(domain.CategoryMotorAttachments)) > 1 {
		out = append(out, "Multiple motor attachments selected - ensure they are compatible with each other")
	}

	if cfg.HasAppliance(domain.SubtypeIceMaker) && !cfg.Has(domain.SubtypeIcebox) {
		out = append(out, "Ice-maker works best with an insulated icebox to maintain ice quality")
	}

	if m.EstimatedRuntimeHours != nil {
		out = append(out, fmt.Sprintf(
			"Estimated battery runtime: %.1f hours at full load", *m.EstimatedRuntimeHours,
		))
	}

	if len(panels) != 0 && len(cfg.ByCategory(domain.CategoryCablesMounting)) == 0 {
		out = append(out, "Consider adding solar cables and mounting hardware for your solar panels")
	}

	if len(batteries) != 0 && !cfg.Has(domain.SubtypeBatteryCable) {
		out = append(out, "Consider adding battery cables for proper battery connections")
	}

	return out
}

func integratedController(batteries []domain.ComponentSelection) bool {
	for _, b := range batteries {
		if b.IncludesController {
			return true
		}
	}
	return false
}
