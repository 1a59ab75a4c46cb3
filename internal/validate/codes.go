package validate

// Diagnostic codes, mirroring the scheduler's own failure modes so an
// operator sees the same vocabulary at validate-time as at run-time.
const (
	CodeParseError        = "REG-001"
	CodeEmptyName         = "REG-002"
	CodeDuplicateName     = "REG-003"
	CodeFrequencyTooHigh  = "REG-004"
	CodeDOMDOWConflict    = "REG-005"
	CodeExcessiveRuns     = "REG-006"
	CodeNegativeRetryWait = "REG-007"
)

// hint returns a one-line fix suggestion for a diagnostic code.
func hint(code string) string {
	switch code {
	case CodeParseError:
		return "fix the syntax error; the expression must be 5 strict POSIX fields or a supported macro"
	case CodeEmptyName:
		return "give the task a non-empty name"
	case CodeDuplicateName:
		return "rename one of the tasks; names must be unique within a registration list"
	case CodeFrequencyTooHigh:
		return "widen the schedule, or lower the scheduler's poll interval"
	case CodeDOMDOWConflict:
		return "day-of-month and day-of-week are OR'd, not AND'd, when both are restricted; use only one if that's not intended"
	case CodeExcessiveRuns:
		return "this schedule fires very often; confirm that's intentional before registering it"
	case CodeNegativeRetryWait:
		return "retry delay must be zero or positive"
	default:
		return ""
	}
}
