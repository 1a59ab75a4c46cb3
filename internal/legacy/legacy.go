// Package legacy bridges crontab syntax this repository's strict POSIX
// calculator rejects — macros, named months/weekdays, and step expressions —
// into an equivalent strict 5-field expression that cronx.Parse accepts.
// It never changes what a schedule means, only how it is spelled.
package legacy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// macros maps the classic descriptor shorthands to their strict equivalent.
// "@every ..." has no fixed-calendar equivalent and is rejected, matching
// cron(8)'s own refusal to support it.
var macros = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@midnight": "0 0 * * *",
	"@hourly":   "0 * * * *",
}

var monthNames = map[string]string{
	"jan": "1", "feb": "2", "mar": "3", "apr": "4", "may": "5", "jun": "6",
	"jul": "7", "aug": "8", "sep": "9", "oct": "10", "nov": "11", "dec": "12",
}

var weekdayNames = map[string]string{
	"sun": "0", "mon": "1", "tue": "2", "wed": "3", "thu": "4", "fri": "5", "sat": "6",
}

// fieldBounds mirrors cronx's own field ranges; duplicated here rather than
// imported so this package can expand step syntax without depending on
// cronx's internal mask representation.
var fieldBounds = [5][2]int{
	{0, 59}, // minute
	{0, 23}, // hour
	{1, 31}, // day of month
	{1, 12}, // month
	{0, 6},  // weekday
}

// validator parses the full legacy grammar (macros, names, steps, Quartz
// extensions) purely to reject inputs that were never valid cron to begin
// with, before this package's own expansion logic runs.
var validator = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// UnsupportedError reports legacy syntax with no strict-POSIX equivalent.
type UnsupportedError struct {
	Expression string
	Reason     string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("legacy expression %q has no strict equivalent: %s", e.Expression, e.Reason)
}

// Convert rewrites a legacy crontab expression — one that may use macros,
// alphabetic month/weekday names, or step syntax — into the strict 5-field
// form cronx.Parse accepts. Expressions already in strict form go through the
// same expansion: every field other than "*" becomes a sorted, deduplicated
// comma list, so "1-5" comes out as "1,2,3,4,5".
func Convert(expression string) (string, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return "", &UnsupportedError{Expression: expression, Reason: "empty expression"}
	}

	if strings.HasPrefix(trimmed, "@") {
		return convertMacro(trimmed)
	}

	if _, err := validator.Parse(trimmed); err != nil {
		return "", fmt.Errorf("legacy expression %q is not valid cron syntax: %w", expression, err)
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 5 {
		return "", &UnsupportedError{Expression: expression, Reason: fmt.Sprintf("expected 5 fields, got %d", len(fields))}
	}

	out := make([]string, 5)
	for i, field := range fields {
		expanded, err := expandField(field, fieldBounds[i][0], fieldBounds[i][1], fieldNames(i))
		if err != nil {
			return "", fmt.Errorf("legacy expression %q: field %d: %w", expression, i+1, err)
		}
		out[i] = expanded
	}
	return strings.Join(out, " "), nil
}

func convertMacro(expression string) (string, error) {
	lower := strings.ToLower(expression)
	if strict, ok := macros[lower]; ok {
		return strict, nil
	}
	if strings.HasPrefix(lower, "@every ") {
		return "", &UnsupportedError{Expression: expression, Reason: "@every has no fixed-calendar equivalent"}
	}
	return "", &UnsupportedError{Expression: expression, Reason: "unknown macro"}
}

func fieldNames(index int) map[string]string {
	switch index {
	case 3:
		return monthNames
	case 4:
		return weekdayNames
	default:
		return nil
	}
}

// expandField resolves one comma-separated field, substituting alphabetic
// names and expanding step syntax into an explicit sorted, deduplicated
// comma list that means exactly the same thing under POSIX semantics.
func expandField(field string, min, max int, names map[string]string) (string, error) {
	if field == "*" {
		return "*", nil
	}

	values := make(map[int]struct{})
	for _, part := range strings.Split(field, ",") {
		part = substituteNames(part, names)
		vals, err := expandPart(part, min, max)
		if err != nil {
			return "", err
		}
		for _, v := range vals {
			values[v] = struct{}{}
		}
	}
	return joinSorted(values), nil
}

func substituteNames(part string, names map[string]string) string {
	if names == nil {
		return part
	}
	lower := strings.ToLower(part)
	result := lower
	for name, num := range names {
		result = strings.ReplaceAll(result, name, num)
	}
	return result
}

// expandPart expands one step/range/single-value token into explicit ints.
func expandPart(part string, min, max int) ([]int, error) {
	base, step, hasStep, err := splitStep(part)
	if err != nil {
		return nil, err
	}

	var lo, hi int
	switch {
	case base == "*":
		lo, hi = min, max
	case strings.Contains(base, "-"):
		lo, hi, err = parseRange(base, min, max)
		if err != nil {
			return nil, err
		}
	default:
		v, err := strconv.Atoi(base)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", base)
		}
		lo, hi = v, v
	}

	if !hasStep {
		vals := make([]int, 0, hi-lo+1)
		for v := lo; v <= hi; v++ {
			vals = append(vals, v)
		}
		return vals, nil
	}

	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %d", step)
	}
	vals := make([]int, 0)
	for v := lo; v <= hi; v += step {
		vals = append(vals, v)
	}
	return vals, nil
}

func splitStep(part string) (base string, step int, hasStep bool, err error) {
	idx := strings.Index(part, "/")
	if idx < 0 {
		return part, 0, false, nil
	}
	step, err = strconv.Atoi(part[idx+1:])
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid step value %q", part[idx+1:])
	}
	return part[:idx], step, true, nil
}

func parseRange(part string, min, max int) (int, int, error) {
	bounds := strings.SplitN(part, "-", 2)
	if len(bounds) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q", part)
	}
	lo, err := strconv.Atoi(bounds[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q", bounds[0])
	}
	hi, err := strconv.Atoi(bounds[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end %q", bounds[1])
	}
	if lo < min || hi > max || lo > hi {
		return 0, 0, fmt.Errorf("range %q out of bounds [%d,%d]", part, min, max)
	}
	return lo, hi, nil
}

func joinSorted(values map[int]struct{}) string {
	sorted := make([]int, 0, len(values))
	for v := range values {
		sorted = append(sorted, v)
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
