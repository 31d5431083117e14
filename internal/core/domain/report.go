package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	Violation struct {
		Rule    string
		Message string
	}

	// A Verdict is viable when no blocking rule reported a violation.
	// Notices are advisory and never affect viability.
	Verdict struct {
		Viable     bool
		Violations []Violation
		Notices    []string
	}

	Metrics struct {
		TotalCost               decimal.Decimal
		TotalWeight             float64
		TotalSolarPower         float64
		TotalControllerCapacity float64
		TotalBatteryCapacity    float64
		MaxSystemPower          float64
		TotalAppliancePower     float64
		SystemLoad              float64
		ProductPower            float64
		ControllerUtilization   *float64
		EstimatedRuntimeHours   *float64
	}

	Report struct {
		ID              string
		EvaluatedAt     time.Time
		Configuration   Configuration
		Verdict         Verdict
		Metrics         Metrics
		Recommendations []string
		Adjustments     []Adjustment
	}
)

func (v Verdict) Messages() []string {
	msgs := make([]string, len(v.Violations))
	for i, vl := range v.Violations {
		msgs[i] = vl.Message
	}
	return msgs
}
