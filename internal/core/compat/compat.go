// Package compat decides whether a configuration is electrically and
// mechanically viable.
package compat

import "github.com/niksmo/solarcomp/internal/core/domain"

// A Rule inspects a configuration and reports what it finds. Rules are
// independent of each other and never mutate the configuration.
type Rule interface {
	ID() string
	Check(domain.Configuration) Result
}

// Result of a single rule. Violations make the configuration non-viable,
// notices are advisory.
type Result struct {
	Violations []string
	Notices    []string
}

func violation(msg string) Result {
	return Result{Violations: []string{msg}}
}

// Rules returns the rules in evaluation order.
func Rules() []Rule {
	return []Rule{
		acRequiresInverter{},
		dcForbidsInverter{},
		batteryNeedsController{},
		batteryControllerVoltage{},
		controllerLoad{},
		batteryDischarge{},
		motorAttachmentDependency{},
		cookerAccessoryDependency{},
		solarControllerPower{},
		icemakerIcebox{},
	}
}

// Evaluate runs every rule in order. Messages keep the rule order, the
// verdict is viable when no rule reported a violation.
func Evaluate(cfg domain.Configuration) domain.Verdict {
	return EvaluateWith(cfg, Rules())
}

func EvaluateWith(cfg domain.Configuration, rules []Rule) domain.Verdict {
	var v domain.Verdict
	for _, r := range rules {
		res := r.Check(cfg)
		for _, msg := range res.Violations {
			v.Violations = append(v.Violations, domain.Violation{Rule: r.ID(), Message: msg})
		}
		v.Notices = append(v.Notices, res.Notices...)
	}
	v.Viable = len(v.Violations) == 0
	return v
}
