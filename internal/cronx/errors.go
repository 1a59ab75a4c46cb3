package cronx

import "fmt"

// FieldParseError reports a single cron field that failed to parse, naming
// the field, the offending text, and why it was rejected.
type FieldParseError struct {
	FieldName string
	FieldText string
	Reason    string
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("cron field %q (%s): %s", e.FieldText, e.FieldName, e.Reason)
}

// InvalidExpressionError reports a FieldParseError (or a structural problem)
// with the full expression text and the field name for diagnostics. It keeps
// only the field failure's reason text: Unwrap returns nil, so errors.As does
// not reach the underlying FieldParseError.
type InvalidExpressionError struct {
	Expression string
	Field      string
	Reason     string
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid cron expression %q: field %s: %s", e.Expression, e.Field, e.Reason)
}

func (e *InvalidExpressionError) Unwrap() error {
	return nil
}

// InternalCalculationError indicates getNext/getPrev exhausted the search
// horizon. For an expression that passed parse-time validation (every mask
// has at least one true entry) this can only happen because of a calculator
// bug, never because of a legitimately unsatisfiable schedule.
type InternalCalculationError struct {
	Expression string
	Origin     string
	Direction  string // "next" or "prev"
}

func (e *InternalCalculationError) Error() string {
	return fmt.Sprintf("cronx: search for %s occurrence of %q from %s exceeded the %s search horizon",
		e.Direction, e.Expression, e.Origin, horizon)
}

func newFieldError(name, text, reason string) error {
	return &FieldParseError{FieldName: name, FieldText: text, Reason: reason}
}
