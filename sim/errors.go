package sim

import "fmt"

// InvalidParameterError reports a scenario input rejected before any stepping.
// Unknown threshold tiers, negative multipliers, negative supply and
// non-positive horizons all fail with this type; the engine never substitutes
// a default for an unsupported value.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

func invalidParam(field, format string, args ...any) error {
	return &InvalidParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
