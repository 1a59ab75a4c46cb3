package scheduler

import "fmt"

// RegistrationShapeError reports a structurally invalid registration entry,
// caught before any persistence happens.
type RegistrationShapeError struct {
	Index  int
	Reason string
}

func (e *RegistrationShapeError) Error() string {
	return fmt.Sprintf("registration at index %d must be an array of length 4: %s", e.Index, e.Reason)
}

// ScheduleInvalidNameError reports an empty or otherwise invalid task name.
type ScheduleInvalidNameError struct {
	Index int
}

func (e *ScheduleInvalidNameError) Error() string {
	return fmt.Sprintf("task name must be a non-empty string (registration at index %d)", e.Index)
}

// ScheduleDuplicateTaskError reports a second registration using a name
// already claimed earlier in the same registration list.
type ScheduleDuplicateTaskError struct {
	TaskName string
}

func (e *ScheduleDuplicateTaskError) Error() string {
	return fmt.Sprintf("task with name %s is already scheduled", e.TaskName)
}
