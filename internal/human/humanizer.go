package human

import (
	"fmt"
	"strings"

	"github.com/rjweaver/cronsched/internal/cronx"
)

// Humanizer converts parsed cron expressions to human-readable descriptions.
type Humanizer interface {
	Humanize(expr *cronx.Expression) string
}

type humanizer struct {
	// Could add locale/language support here in future
}

// NewHumanizer creates a new humanizer with English templates (v1).
func NewHumanizer() Humanizer {
	return &humanizer{}
}

// field classifies one cron field's permitted values against its full
// range, the shape every other builder function switches on.
type field struct {
	values []int
	min    int
	max    int
}

func (f field) isWildcard() bool { return len(f.values) == f.max-f.min+1 }
func (f field) isSingle() bool   { return len(f.values) == 1 }
func (f field) isRange() bool {
	if len(f.values) < 2 {
		return false
	}
	for i := 1; i < len(f.values); i++ {
		if f.values[i] != f.values[i-1]+1 {
			return false
		}
	}
	return true
}

// step returns the field's common spacing and true if its values form an
// evenly spaced arithmetic progression spanning the field's full range
// (the shape legacy step syntax like */15 expands into).
func (f field) step() (int, bool) {
	if len(f.values) < 2 {
		return 0, false
	}
	spacing := f.values[1] - f.values[0]
	if spacing <= 0 {
		return 0, false
	}
	for i := 1; i < len(f.values); i++ {
		if f.values[i]-f.values[i-1] != spacing {
			return 0, false
		}
	}
	if f.values[0] != f.min || f.max-f.values[len(f.values)-1] >= spacing {
		return 0, false
	}
	return spacing, true
}

func (f field) value() int        { return f.values[0] }
func (f field) rangeStart() int   { return f.values[0] }
func (f field) rangeEnd() int     { return f.values[len(f.values)-1] }
func (f field) listValues() []int { return f.values }

// Humanize converts a parsed cron expression to human-readable text.
func (h *humanizer) Humanize(expr *cronx.Expression) string {
	var parts []string

	minute := field{expr.Minutes(), cronx.MinMinute, cronx.MaxMinute}
	hour := field{expr.Hours(), cronx.MinHour, cronx.MaxHour}
	dayOfMonth := field{expr.Days(), cronx.MinDay, cronx.MaxDay}
	month := field{expr.Months(), cronx.MinMonth, cronx.MaxMonth}
	dayOfWeek := field{expr.Weekdays(), cronx.MinWeekday, cronx.MaxWeekday}

	timePart := h.buildTimePart(minute, hour)
	dayPart := h.buildDayPart(dayOfWeek, dayOfMonth)
	monthPart := h.buildMonthPart(month)

	parts = append(parts, timePart)

	_, minuteIsStep := minute.step()
	minuteBasedPattern := (minute.isWildcard() || minuteIsStep ||
		(minute.isSingle() && minute.value() == 0)) && hour.isWildcard()
	isSimplePattern := minuteBasedPattern && dayOfWeek.isWildcard() && dayOfMonth.isWildcard()

	// Special case: specific day + specific month (e.g. @yearly)
	if dayOfMonth.isSingle() && month.isSingle() && dayOfWeek.isWildcard() {
		parts = append(parts, fmt.Sprintf("on %s %d%s",
			formatMonth(month.value()),
			dayOfMonth.value(),
			ordinalSuffix(dayOfMonth.value())))
		return strings.Join(parts, " ")
	}

	if dayPart != "" && !isSimplePattern {
		parts = append(parts, dayPart)
	}

	if monthPart != "" {
		parts = append(parts, monthPart)
	}

	return strings.Join(parts, " ")
}

// buildTimePart constructs the time portion of the description.
func (h *humanizer) buildTimePart(minute, hour field) string {
	minuteStep, minuteIsStep := minute.step()

	// Case 1: Every minute (*, *)
	if minute.isWildcard() && hour.isWildcard() {
		return "Every minute"
	}

	// Case 2: Minute intervals with wildcard hour (evenly spaced, *)
	if minuteIsStep && hour.isWildcard() {
		return fmt.Sprintf("Every %d minutes", minuteStep)
	}

	// Case 3: Minute intervals within hour range (evenly spaced, N-M)
	if minuteIsStep && hour.isRange() {
		return fmt.Sprintf("Every %d minutes between %s and %s",
			minuteStep,
			formatHour(hour.rangeStart()),
			formatHourEnd(hour.rangeEnd()))
	}

	// Case 4: Start of every hour (0, *)
	if minute.isSingle() && minute.value() == 0 && hour.isWildcard() {
		return "At the start of every hour"
	}

	// Case 5: Specific minute of every hour (N, *)
	if minute.isSingle() && hour.isWildcard() {
		return fmt.Sprintf("At minute %d of every hour", minute.value())
	}

	// Case 6: Specific time (N, M)
	if minute.isSingle() && hour.isSingle() {
		if minute.value() == 0 && hour.value() == 0 {
			return "At midnight"
		}
		return fmt.Sprintf("At %s", formatTime(hour.value(), minute.value()))
	}

	// Case 7: Specific time with multiple hours (N, M,N,O)
	if minute.isSingle() && !hour.isWildcard() && !hour.isSingle() && !hour.isRange() {
		times := make([]string, len(hour.listValues()))
		for i, hr := range hour.listValues() {
			times[i] = formatTime(hr, minute.value())
		}
		return fmt.Sprintf("At %s", formatList(times))
	}

	// Case 8: Step minutes with single hour
	if minuteIsStep && hour.isSingle() {
		return fmt.Sprintf("Every %d minutes at %s", minuteStep, formatHour(hour.value()))
	}

	// Case 9: Step minutes with list hour
	if minuteIsStep && !hour.isWildcard() && !hour.isSingle() && !hour.isRange() {
		times := make([]string, len(hour.listValues()))
		for i, hr := range hour.listValues() {
			times[i] = formatHour(hr)
		}
		return fmt.Sprintf("Every %d minutes at %s", minuteStep, formatList(times))
	}

	// Case 10: Single minute with range hour (N, M-O)
	if minute.isSingle() && hour.isRange() {
		return fmt.Sprintf("At %d minutes past the hour between %s and %s",
			minute.value(),
			formatHour(hour.rangeStart()),
			formatHourEnd(hour.rangeEnd()))
	}

	// Case 11: List minute with single hour
	if !minute.isWildcard() && !minute.isSingle() && !minuteIsStep && hour.isSingle() {
		times := make([]string, len(minute.listValues()))
		for i, m := range minute.listValues() {
			times[i] = formatTime(hour.value(), m)
		}
		return fmt.Sprintf("At %s", formatList(times))
	}

	// Case 12: List minute with range hour
	if !minute.isWildcard() && !minute.isSingle() && !minuteIsStep && hour.isRange() {
		minuteStrs := make([]string, len(minute.listValues()))
		for i, m := range minute.listValues() {
			minuteStrs[i] = fmt.Sprintf("%d", m)
		}
		return fmt.Sprintf("At %s minutes past the hour between %s and %s",
			formatList(minuteStrs),
			formatHour(hour.rangeStart()),
			formatHourEnd(hour.rangeEnd()))
	}

	// Case 13: List minute with list hour - cartesian product
	if !minute.isWildcard() && !minute.isSingle() && !minuteIsStep &&
		!hour.isWildcard() && !hour.isSingle() && !hour.isRange() {
		times := h.generateTimeCombinations(minute.listValues(), hour.listValues())
		return fmt.Sprintf("At %s", formatList(times))
	}

	// Default fallback
	return "Runs periodically"
}

// generateTimeCombinations creates a cartesian product of minutes and hours
// and returns formatted time strings sorted by hour then minute.
func (h *humanizer) generateTimeCombinations(minutes, hours []int) []string {
	var times []string
	for _, hour := range hours {
		for _, minute := range minutes {
			times = append(times, formatTime(hour, minute))
		}
	}
	return times
}

// buildDayPart constructs the day portion of the description.
func (h *humanizer) buildDayPart(dayOfWeek, dayOfMonth field) string {
	if dayOfWeek.isWildcard() && dayOfMonth.isWildcard() {
		return "every day"
	}

	// Day of week has priority
	if !dayOfWeek.isWildcard() {
		return h.formatDayOfWeek(dayOfWeek)
	}

	if !dayOfMonth.isWildcard() {
		return h.formatDayOfMonth(dayOfMonth)
	}

	return "every day"
}

// buildMonthPart constructs the month portion of the description.
func (h *humanizer) buildMonthPart(month field) string {
	if month.isWildcard() {
		return ""
	}

	if month.isSingle() {
		return fmt.Sprintf("in %s", formatMonth(month.value()))
	}

	if month.isRange() {
		return fmt.Sprintf("from %s to %s",
			formatMonth(month.rangeStart()),
			formatMonth(month.rangeEnd()))
	}

	months := make([]string, len(month.listValues()))
	for i, m := range month.listValues() {
		months[i] = formatMonth(m)
	}
	return fmt.Sprintf("in %s", formatList(months))
}

// formatDayOfWeek formats the day-of-week field.
func (h *humanizer) formatDayOfWeek(dow field) string {
	if dow.isRange() {
		if dow.rangeStart() == 1 && dow.rangeEnd() == 5 {
			return "on weekdays (Mon-Fri)"
		}
		return fmt.Sprintf("on %s-%s",
			dayName(dow.rangeStart()),
			dayName(dow.rangeEnd()))
	}

	if dow.isSingle() {
		if dow.value() == 0 {
			return "every Sunday"
		}
		return fmt.Sprintf("every %s", dayName(dow.value()))
	}

	days := make([]string, len(dow.listValues()))
	for i, d := range dow.listValues() {
		days[i] = dayName(d)
	}
	return fmt.Sprintf("on %s", formatList(days))
}

// formatDayOfMonth formats the day-of-month field.
func (h *humanizer) formatDayOfMonth(dom field) string {
	if dom.isSingle() {
		if dom.value() == 1 {
			return "on the first day of every month"
		}
		return fmt.Sprintf("on day %d of every month", dom.value())
	}

	if dom.isRange() {
		return fmt.Sprintf("on days %d-%d of every month",
			dom.rangeStart(), dom.rangeEnd())
	}

	days := make([]string, len(dom.listValues()))
	for i, d := range dom.listValues() {
		days[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("on days %s of every month", formatList(days))
}
