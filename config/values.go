package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Check rejects a value that has the right type but is out of bounds.
type Check func(v any) error

func oneOf(allowed ...string) Check {
	return func(v any) error {
		s, _ := v.(string)
		if !slices.Contains(allowed, s) {
			return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

func between(lo, hi int) Check {
	return func(v any) error {
		n, _ := v.(int)
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// Validate runs the field's checks against v.
func (f *Field) Validate(v any) error {
	for _, check := range f.checks {
		if err := check(v); err != nil {
			return fmt.Errorf("%s %w", f.Key, err)
		}
	}
	return nil
}

// Parse converts command line values into the type of the field's default
// and validates the result.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s needs a value", f.Key)
	}

	var v any
	switch f.Value.(type) {
	case string:
		v = raw[0]
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		v = b
	case float64:
		x, err := strconv.ParseFloat(raw[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value: %s", raw[0])
		}
		v = x
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", f.Key)
	}

	if err := f.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}
