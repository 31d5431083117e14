package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type VoltageType string

const (
	VoltageAC VoltageType = "AC"
	VoltageDC VoltageType = "DC"
)

var (
	dcRatings = []int{12, 24, 48}
	acRatings = []int{110, 120, 220, 230, 240}
)

const (
	defaultDCRating = 24
	defaultACRating = 230
)

func (t VoltageType) Valid() bool {
	return t == VoltageAC || t == VoltageDC
}

// Ratings returns the selectable voltage ratings for the type.
func (t VoltageType) Ratings() []int {
	switch t {
	case VoltageDC:
		return slices.Clone(dcRatings)
	case VoltageAC:
		return slices.Clone(acRatings)
	}
	return nil
}

// DefaultRating is the rating used when a requested one is not selectable.
func (t VoltageType) DefaultRating() int {
	if t == VoltageAC {
		return defaultACRating
	}
	return defaultDCRating
}

// Supports reports whether v is a whole number in the type's rating set.
func (t VoltageType) Supports(v float64) bool {
	if v != math.Trunc(v) {
		return false
	}
	return slices.Contains(t.Ratings(), int(v))
}

// ControllerVoltageOptions are the voltages a multi-voltage controller can accept.
func ControllerVoltageOptions() []int {
	return slices.Clone(dcRatings)
}

// A VoltageSet is a sorted set of whole voltages.
type VoltageSet []int

func NewVoltageSet(vs ...int) VoltageSet {
	if len(vs) == 0 {
		return nil
	}
	s := slices.Clone(vs)
	slices.Sort(s)
	return slices.Compact(s)
}

func (s VoltageSet) Contains(v int) bool {
	_, ok := slices.BinarySearch(s, v)
	return ok
}

// String renders the set the way it is shown to users, e.g. "12, 24".
func (s VoltageSet) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

var ErrVoltageSetSyntax = errors.New("invalid voltage list")

// ParseVoltageSet reads the comma-joined form produced by [VoltageSet.String].
func ParseVoltageSet(text string) (VoltageSet, error) {
	const op = "ParseVoltageSet"

	var vs []int
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q", op, ErrVoltageSetSyntax, part)
		}
		vs = append(vs, v)
	}
	return NewVoltageSet(vs...), nil
}
