package cronx

import "time"

// minFrequencySamples is the minimum number of consecutive getNext steps
// tried from each seed before giving up on that seed, per spec (>= 10).
const minFrequencySamples = 12

// permissiveInterval is used when a seed finds no two fires within the
// search horizon; treating the expression as firing at most once a year is
// the conservative (permissive) choice.
const permissiveInterval = 365 * 24 * time.Hour

// MinimumInterval conservatively estimates the smallest gap between two
// consecutive firings of e. It probes from several seed times (now, +1
// minute, +1 hour, +1 day), stepping GetNext forward up to
// minFrequencySamples times per seed and tracking the smallest observed
// delta. A sub-minute delta (impossible for a minute-granularity
// expression, but checked defensively) short-circuits the search.
func (e *Expression) MinimumInterval(now time.Time) (time.Duration, error) {
	seeds := []time.Time{
		now,
		now.Add(time.Minute),
		now.Add(time.Hour),
		now.Add(24 * time.Hour),
	}

	min := permissiveInterval
	found := false

	for _, seed := range seeds {
		prev, err := e.GetNext(seed)
		if err != nil {
			continue
		}
		for i := 0; i < minFrequencySamples; i++ {
			next, err := e.GetNext(prev)
			if err != nil {
				break
			}
			delta := next.Sub(prev)
			if delta < min {
				min = delta
				found = true
			}
			if delta < time.Minute {
				return delta, nil
			}
			prev = next
		}
	}

	if !found {
		return permissiveInterval, nil
	}
	return min, nil
}

// ScheduleFrequencyError reports that an expression's minimum firing
// interval is below a scheduler's poll interval, making it impossible for
// the poller to observe every firing.
type ScheduleFrequencyError struct {
	Expression      string
	TaskFrequencyMs int64
	PollFrequencyMs int64
}

func (e *ScheduleFrequencyError) Error() string {
	return "cron expression " + e.Expression + " fires more often than the poll interval allows"
}

// ValidateFrequency rejects e if its minimum firing interval is strictly
// less than pollInterval.
func (e *Expression) ValidateFrequency(now time.Time, pollInterval time.Duration) error {
	min, err := e.MinimumInterval(now)
	if err != nil {
		return err
	}
	if min < pollInterval {
		return &ScheduleFrequencyError{
			Expression:      e.original,
			TaskFrequencyMs: min.Milliseconds(),
			PollFrequencyMs: pollInterval.Milliseconds(),
		}
	}
	return nil
}
