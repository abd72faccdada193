package internal

import "fmt"

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ConflictError reports a uniqueness violation: a duplicate item number
// or a duplicate (judge, performance) score.
type ConflictError struct {
	Msg        string
	ExistingID int
}

func (e *ConflictError) Error() string { return e.Msg }

type DuplicateAssignmentError struct {
	JudgeID int
	EventID int
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("judge %d already assigned to event %d", e.JudgeID, e.EventID)
}

type CapacityError struct {
	EventID int
	Limit   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("event %d already has %d judges", e.EventID, e.Limit)
}

type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }

// ReorderReport enumerates the outcome of a bulk reorder. Failed entries
// are safe to retry individually.
type ReorderReport struct {
	UpdatedCount int             `json:"updated_count"`
	Failed       []ReorderFailed `json:"failed,omitempty"`
}

type ReorderFailed struct {
	EntryID int    `json:"entry_id"`
	Reason  string `json:"reason"`
}

type RegionAssignReport struct {
	AssignedCount int `json:"assigned_count"`
	SkippedCount  int `json:"skipped_count"`
}

type SyncReport struct {
	SyncedCount int          `json:"synced_count"`
	Failed      []SyncFailed `json:"failed,omitempty"`
}

type SyncFailed struct {
	EntryID int    `json:"entry_id"`
	Reason  string `json:"reason"`
}
