// Package diff previews the create/keep/delete sets the scheduler's own
// registration pass (scheduler Instance.Initialize) would produce against persisted task
// state, without writing anything.
package diff

import (
	"time"

	"github.com/rjweaver/cronsched/internal/store"
)

// ChangeType classifies one task's relationship between the registration
// list and the persisted store.
type ChangeType int

const (
	ChangeTypeUnchanged ChangeType = iota
	ChangeTypeAdded
	ChangeTypeRemoved
	ChangeTypeModified
)

// Entry is a minimal registration shape, decoupled from the scheduler
// package so this diff can run against a YAML file before any Callback
// exists to attach.
type Entry struct {
	Name           string
	CronExpression string
	RetryDelay     time.Duration
}

// Change describes one task's outcome if the registration list were
// applied to the store as-is.
type Change struct {
	Type              ChangeType
	Name              string
	OldCronExpression string
	NewCronExpression string
	OldRetryDelay     time.Duration
	NewRetryDelay     time.Duration
	FieldsChanged     []string
}

// Diff groups every task by what initialize() would do with it.
type Diff struct {
	Added     []Change
	Removed   []Change
	Modified  []Change
	Unchanged []Change
}

// Compare mirrors the diff initialize() performs internally: registrations
// with a name not in persisted does sets get created fresh, persisted
// names missing from registrations get dropped, and names present in both
// keep their history but may have their cron expression or retry delay
// overridden by the registration.
func Compare(persisted []store.TaskState, registrations []Entry) *Diff {
	d := &Diff{}

	byName := make(map[string]store.TaskState, len(persisted))
	for _, st := range persisted {
		byName[st.Name] = st
	}

	seen := make(map[string]struct{}, len(registrations))
	for _, reg := range registrations {
		seen[reg.Name] = struct{}{}
		st, exists := byName[reg.Name]
		if !exists {
			d.Added = append(d.Added, Change{
				Type:              ChangeTypeAdded,
				Name:              reg.Name,
				NewCronExpression: reg.CronExpression,
				NewRetryDelay:     reg.RetryDelay,
			})
			continue
		}

		fields := fieldsChanged(st, reg)
		change := Change{
			Name:              reg.Name,
			OldCronExpression: st.CronExpression,
			NewCronExpression: reg.CronExpression,
			OldRetryDelay:     st.RetryDelay,
			NewRetryDelay:     reg.RetryDelay,
			FieldsChanged:     fields,
		}
		if len(fields) > 0 {
			change.Type = ChangeTypeModified
			d.Modified = append(d.Modified, change)
		} else {
			change.Type = ChangeTypeUnchanged
			d.Unchanged = append(d.Unchanged, change)
		}
	}

	for _, st := range persisted {
		if _, ok := seen[st.Name]; !ok {
			d.Removed = append(d.Removed, Change{
				Type:              ChangeTypeRemoved,
				Name:              st.Name,
				OldCronExpression: st.CronExpression,
				OldRetryDelay:     st.RetryDelay,
			})
		}
	}

	return d
}

func fieldsChanged(st store.TaskState, reg Entry) []string {
	var fields []string
	if st.CronExpression != reg.CronExpression {
		fields = append(fields, "cron_expression")
	}
	if st.RetryDelay != reg.RetryDelay {
		fields = append(fields, "retry_delay")
	}
	return fields
}
