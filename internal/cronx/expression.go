package cronx

import (
	"strconv"
	"strings"
)

// Expression is a parsed, immutable 5-field POSIX cron expression. The zero
// value is not usable; the only way to produce an Expression is Parse.
type Expression struct {
	original string

	minute  mask
	hour    mask
	day     mask
	month   mask
	weekday mask

	// domDowRestricted is true iff both the day-of-month and day-of-week
	// fields were non-wildcard in the source text; it selects OR (true) vs
	// AND (false) semantics for day matching. See matches.
	domDowRestricted bool

	cache *dayCache
}

// String returns the original expression text, for diagnostics and
// equality reporting.
func (e *Expression) String() string {
	return e.original
}

// Minutes, Hours, Days, Months, and Weekdays return the sorted list of
// permitted values for each field, for callers that describe or diff a
// schedule (the human and diff packages) rather than calculate with it.
func (e *Expression) Minutes() []int  { return e.minute.values(MinMinute, MaxMinute) }
func (e *Expression) Hours() []int    { return e.hour.values(MinHour, MaxHour) }
func (e *Expression) Days() []int     { return e.day.values(MinDay, MaxDay) }
func (e *Expression) Months() []int   { return e.month.values(MinMonth, MaxMonth) }
func (e *Expression) Weekdays() []int { return e.weekday.values(MinWeekday, MaxWeekday) }

// DomDowRestricted reports whether both the day-of-month and day-of-week
// fields were explicitly restricted in the source text, which selects OR
// rather than AND semantics when matching a calendar date.
func (e *Expression) DomDowRestricted() bool { return e.domDowRestricted }

// Parse parses a 5-field POSIX cron expression. It rejects macros (@daily,
// ...), step syntax (*/N), alphabetic day/month names, and Quartz
// extensions, returning an *InvalidExpressionError that names the failing
// field and carries its reason (the FieldParseError itself is not wrapped).
func Parse(expression string) (*Expression, error) {
	trimmed := strings.TrimSpace(expression)

	if strings.HasPrefix(trimmed, "@") {
		return nil, &InvalidExpressionError{
			Expression: expression,
			Field:      "expression",
			Reason:     "macros (@hourly, @daily, ...) are not supported; use explicit 5-field syntax",
		}
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 5 {
		return nil, &InvalidExpressionError{
			Expression: expression,
			Field:      "expression",
			Reason:     "expected exactly 5 whitespace-separated fields, got " + strconv.Itoa(len(fields)),
		}
	}

	minuteText, hourText, dayText, monthText, weekdayText := fields[0], fields[1], fields[2], fields[3], fields[4]

	minuteMask, err := parseField(minuteText, minuteSpec)
	if err != nil {
		return nil, wrapFieldError(expression, minuteSpec.name, err)
	}
	hourMask, err := parseField(hourText, hourSpec)
	if err != nil {
		return nil, wrapFieldError(expression, hourSpec.name, err)
	}
	dayMask, err := parseField(dayText, daySpec)
	if err != nil {
		return nil, wrapFieldError(expression, daySpec.name, err)
	}
	monthMask, err := parseField(monthText, monthSpec)
	if err != nil {
		return nil, wrapFieldError(expression, monthSpec.name, err)
	}
	weekdayMask, err := parseField(weekdayText, weekdaySpec)
	if err != nil {
		return nil, wrapFieldError(expression, weekdaySpec.name, err)
	}

	return &Expression{
		original:         expression,
		minute:           minuteMask,
		hour:             hourMask,
		day:              dayMask,
		month:            monthMask,
		weekday:          weekdayMask,
		domDowRestricted: dayText != "*" && weekdayText != "*",
		cache:            newDayCache(dayCacheSize),
	}, nil
}

func wrapFieldError(expression, field string, err error) error {
	fpe, ok := err.(*FieldParseError)
	if !ok {
		return &InvalidExpressionError{Expression: expression, Field: field, Reason: err.Error()}
	}
	return &InvalidExpressionError{Expression: expression, Field: field, Reason: fpe.Reason}
}
