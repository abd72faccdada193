package internal

import (
	"context"
	"errors"
)

// AssignItemNumber writes itemNumber to the entry and to its performance,
// keeping the two in lockstep. Fails with ConflictError if another entry in
// the same event already holds the number. A missing performance is fine:
// the performance may not be materialized yet, and the reconciliation sweep
// picks it up later.
func AssignItemNumber(ctx context.Context, st Store, entryID, itemNumber int) error {
	if itemNumber <= 0 {
		return &ValidationError{Msg: "item number must be positive"}
	}

	entry, err := st.EntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	siblings, err := st.EntriesByEvent(ctx, entry.EventID)
	if err != nil {
		return err
	}
	for _, e := range siblings {
		if e.ID != entryID && e.ItemNumber != nil && *e.ItemNumber == itemNumber {
			return &ConflictError{
				Msg:        "item number already taken in this event",
				ExistingID: e.ID,
			}
		}
	}

	if err := st.SetEntryItemNumber(ctx, entryID, itemNumber); err != nil {
		return err
	}

	perf, err := st.PerformanceByEntry(ctx, entryID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return err
	}
	return st.SetPerformanceItemNumber(ctx, perf.ID, itemNumber)
}

// ReorderItem is one element of a bulk reorder request.
type ReorderItem struct {
	EntryID    int `json:"id"`
	ItemNumber int `json:"item_number"`
}

// ReorderPerformances applies AssignItemNumber per item. A failed item does
// not stop the rest; the report lists every failure so the caller can retry
// just those.
func ReorderPerformances(ctx context.Context, st Store, eventID int, items []ReorderItem) (*ReorderReport, error) {
	if _, err := st.EventByID(ctx, eventID); err != nil {
		return nil, err
	}

	report := &ReorderReport{}
	for _, it := range items {
		entry, err := st.EntryByID(ctx, it.EntryID)
		if err == nil && entry.EventID != eventID {
			err = &ValidationError{Msg: "entry belongs to a different event"}
		}
		if err == nil {
			err = AssignItemNumber(ctx, st, it.EntryID, it.ItemNumber)
		}
		if err != nil {
			report.Failed = append(report.Failed, ReorderFailed{
				EntryID: it.EntryID,
				Reason:  err.Error(),
			})
			continue
		}
		report.UpdatedCount++
	}
	return report, nil
}

// SyncAllItemNumbers repairs drift between entry and performance item
// numbers after out-of-band edits. The entry is the source of truth.
// A failure on one pair does not stop the sweep; failed entries are
// enumerated in the report and safe to retry on the next run.
// Idempotent: a second run right after finds nothing to change.
func SyncAllItemNumbers(ctx context.Context, st Store) (*SyncReport, error) {
	entries, err := st.AllEntries(ctx)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	for _, e := range entries {
		if e.ItemNumber == nil {
			continue
		}
		perf, err := st.PerformanceByEntry(ctx, e.ID)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			report.Failed = append(report.Failed, SyncFailed{EntryID: e.ID, Reason: err.Error()})
			continue
		}
		if perf.ItemNumber != nil && *perf.ItemNumber == *e.ItemNumber {
			continue
		}
		if err := st.SetPerformanceItemNumber(ctx, perf.ID, *e.ItemNumber); err != nil {
			report.Failed = append(report.Failed, SyncFailed{EntryID: e.ID, Reason: err.Error()})
			continue
		}
		report.SyncedCount++
	}
	return report, nil
}
