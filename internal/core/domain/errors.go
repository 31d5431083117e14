package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCatalogEntry   = errors.New("unknown catalog entry")
	ErrInvalidOverride       = errors.New("invalid override")
	ErrMalformedNumericField = errors.New("malformed numeric field")
)

type AdjustmentKind string

const (
	AdjustmentInvalidOverride AdjustmentKind = "invalid_override"
	AdjustmentMalformedField  AdjustmentKind = "malformed_numeric_field"
)

// An Adjustment records an override the builder could not apply as given.
// It unwraps to ErrInvalidOverride or ErrMalformedNumericField.
type Adjustment struct {
	Target  string
	Field   string
	Kind    AdjustmentKind
	Message string
}

func (a Adjustment) Error() string {
	return fmt.Sprintf("%s %s: %s", a.Target, a.Field, a.Message)
}

func (a Adjustment) Unwrap() error {
	if a.Kind == AdjustmentMalformedField {
		return ErrMalformedNumericField
	}
	return ErrInvalidOverride
}
