// Package validate runs the scheduler's Initialize checks against a
// registration list, without touching persistence: name, duplicate and
// retry-delay constraints, cron syntax, and frequency against a poll
// interval, plus advisory warnings a registrant would want to see before
// committing. Unlike Initialize, it passes each expression through
// legacy.Convert before parsing, so macros, month and weekday names, and
// step syntax pass here although Initialize rejects them; entries carry no
// callback, so the callback check is not made.
package validate

import (
	"time"

	"github.com/rjweaver/cronsched/internal/cronx"
	"github.com/rjweaver/cronsched/internal/legacy"
)

// maxRunsForDailyCalculation bounds how many firings are requested from the
// calculator when estimating a schedule's daily run count.
const maxRunsForDailyCalculation = 2000

// defaultMaxRunsPerDay is the advisory threshold past which a schedule is
// flagged as excessively frequent, absent an explicit override.
const defaultMaxRunsPerDay = 1000

// Issue is one diagnostic produced against a single registration entry.
type Issue struct {
	Severity Severity
	Code     string
	Name     string // registration name this issue concerns, if any
	Message  string
	Hint     string
}

// Result is the outcome of validating a registration list.
type Result struct {
	Valid        bool
	Issues       []Issue
	TotalTasks   int
	ValidTasks   int
	InvalidTasks int
}

// Entry is the minimal registration shape validate needs: enough to mirror
// scheduler.Registration without importing it (Initialize's Callback field
// has no role here).
type Entry struct {
	Name           string
	CronExpression string
	RetryDelay     time.Duration
}

// Options configures the thresholds validate applies.
type Options struct {
	// PollInterval is the scheduler poll interval a registration's minimum
	// firing interval is checked against. Zero disables the frequency check.
	PollInterval time.Duration
	// MaxRunsPerDay is the advisory threshold for the excessive-runs warning.
	// Zero selects defaultMaxRunsPerDay.
	MaxRunsPerDay int
	// Now anchors the frequency probe and the 24-hour run count window.
	// Zero selects time.Now().
	Now time.Time
}

// Entries validates a registration list with the checks listed in the
// package doc, plus
// advisory warnings Initialize has no opinion about (DOM/DOW conflicts,
// excessive run counts).
func Entries(entries []Entry, opts Options) Result {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	maxRunsPerDay := opts.MaxRunsPerDay
	if maxRunsPerDay == 0 {
		maxRunsPerDay = defaultMaxRunsPerDay
	}

	result := Result{Valid: true}
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		result.TotalTasks++
		issues, expr := validateOne(e, seen, now, opts.PollInterval, maxRunsPerDay)
		result.Issues = append(result.Issues, issues...)

		failed := false
		for _, iss := range issues {
			if iss.Severity.IsError() {
				failed = true
			}
		}
		if failed || expr == nil {
			result.Valid = false
			result.InvalidTasks++
			continue
		}
		result.ValidTasks++
	}

	return result
}

func validateOne(e Entry, seen map[string]struct{}, now time.Time, pollInterval time.Duration, maxRunsPerDay int) ([]Issue, *cronx.Expression) {
	var issues []Issue

	if e.Name == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeEmptyName,
			Message:  "task name is required",
			Hint:     hint(CodeEmptyName),
		})
	} else if _, dup := seen[e.Name]; dup {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeDuplicateName,
			Name:     e.Name,
			Message:  "duplicate task name: already used earlier in this list",
			Hint:     hint(CodeDuplicateName),
		})
	} else {
		seen[e.Name] = struct{}{}
	}

	if e.RetryDelay < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeNegativeRetryWait,
			Name:     e.Name,
			Message:  "retry delay must not be negative",
			Hint:     hint(CodeNegativeRetryWait),
		})
	}

	strict, err := legacy.Convert(e.CronExpression)
	if err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeParseError,
			Name:     e.Name,
			Message:  "invalid cron expression: " + err.Error(),
			Hint:     hint(CodeParseError),
		})
		return issues, nil
	}

	expr, err := cronx.Parse(strict)
	if err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeParseError,
			Name:     e.Name,
			Message:  "invalid cron expression: " + err.Error(),
			Hint:     hint(CodeParseError),
		})
		return issues, nil
	}

	if expr.DomDowRestricted() {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     CodeDOMDOWConflict,
			Name:     e.Name,
			Message:  "both day-of-month and day-of-week are restricted; the task runs if either matches",
			Hint:     hint(CodeDOMDOWConflict),
		})
	}

	if pollInterval > 0 {
		if err := expr.ValidateFrequency(now, pollInterval); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeFrequencyTooHigh,
				Name:     e.Name,
				Message:  err.Error(),
				Hint:     hint(CodeFrequencyTooHigh),
			})
		}
	}

	if runsPerDay, err := runsPerDay(expr, now); err == nil && runsPerDay > maxRunsPerDay {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     CodeExcessiveRuns,
			Name:     e.Name,
			Message:  "schedule fires more than the configured daily threshold",
			Hint:     hint(CodeExcessiveRuns),
		})
	}

	return issues, expr
}

// runsPerDay counts how many times expr fires in the 24 hours starting at
// the top of now's minute, requesting up to maxRunsForDailyCalculation
// firings from the calculator.
func runsPerDay(expr *cronx.Expression, now time.Time) (int, error) {
	start := now.Truncate(time.Minute)
	end := start.Add(24 * time.Hour)

	count := 0
	t := start.Add(-time.Minute)
	for i := 0; i < maxRunsForDailyCalculation; i++ {
		next, err := expr.GetNext(t)
		if err != nil {
			return count, err
		}
		if !next.Before(end) {
			break
		}
		if !next.Before(start) {
			count++
		}
		t = next
	}
	return count, nil
}
