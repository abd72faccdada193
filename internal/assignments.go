package internal

import (
	"context"
	"errors"
)

// MaxJudgesPerEvent caps concurrent judge assignments per event.
const MaxJudgesPerEvent = 4

// AssignJudgeToEvent checks existence, duplication, and capacity, then
// creates the assignment. The checks here are a fast path; the store's
// unique index and row-locked count are what actually hold under
// concurrent calls.
func AssignJudgeToEvent(ctx context.Context, st Store, judgeID, eventID, assignedBy int) (*JudgeEventAssignment, error) {
	if _, err := st.JudgeByID(ctx, judgeID); err != nil {
		return nil, err
	}
	if _, err := st.EventByID(ctx, eventID); err != nil {
		return nil, err
	}

	exists, err := st.AssignmentExists(ctx, judgeID, eventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateAssignmentError{JudgeID: judgeID, EventID: eventID}
	}

	count, err := st.AssignmentCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if count >= MaxJudgesPerEvent {
		return nil, &CapacityError{EventID: eventID, Limit: MaxJudgesPerEvent}
	}

	a := &JudgeEventAssignment{JudgeID: judgeID, EventID: eventID, AssignedBy: assignedBy}
	if err := st.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AssignJudgeToRegion assigns the judge to every event in the region
// (matched case-insensitively). An already-assigned event counts as a skip;
// any other failure aborts the remaining events and surfaces, since a
// capacity or not-found problem should not pass silently.
func AssignJudgeToRegion(ctx context.Context, st Store, judgeID int, region string, assignedBy int) (*RegionAssignReport, error) {
	if _, err := st.JudgeByID(ctx, judgeID); err != nil {
		return nil, err
	}

	events, err := st.EventsByRegion(ctx, region)
	if err != nil {
		return nil, err
	}

	report := &RegionAssignReport{}
	for _, ev := range events {
		_, err := AssignJudgeToEvent(ctx, st, judgeID, ev.ID, assignedBy)
		if err != nil {
			var dup *DuplicateAssignmentError
			if errors.As(err, &dup) {
				report.SkippedCount++
				continue
			}
			return nil, err
		}
		report.AssignedCount++
	}
	return report, nil
}

// RemoveAssignment deletes an assignment; removing one that is already gone
// is the desired state, not an error.
func RemoveAssignment(ctx context.Context, st Store, assignmentID int) error {
	return st.DeleteAssignment(ctx, assignmentID)
}
