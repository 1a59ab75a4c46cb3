package scheduler

import (
	"log/slog"
	"time"

	"github.com/rjweaver/cronsched/internal/clock"
	"github.com/rjweaver/cronsched/internal/store"
)

// Options configures a new Instance. PollInterval, Clock, and Logger have
// working defaults; Store is required.
type Options struct {
	Store        store.Store
	Clock        clock.Clock
	Logger       *slog.Logger
	PollInterval time.Duration
	// Identifier overrides the instance's generated identifier; tests use
	// this to pin deterministic values. Production callers leave it empty
	// and get a fresh google/uuid string per process start.
	Identifier string
}

const defaultPollInterval = 30 * time.Second

func (o *Options) withDefaults() Options {
	out := *o
	if out.Clock == nil {
		out.Clock = clock.NewSystem()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.PollInterval <= 0 {
		out.PollInterval = defaultPollInterval
	}
	return out
}
