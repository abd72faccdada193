package internal

import "context"

const maxComponentScore = 10.0

// SubmitScore records a judge's score for a performance. The judge must
// hold an assignment for the performance's event, the performance must not
// be withdrawn, and a (judge, performance) pair scores at most once — the
// store's unique index backstops that check. The total is derived from the
// components, never taken from the caller.
func SubmitScore(ctx context.Context, st Store, judgeID, performanceID int, technique, artistry, presentation float64) (*Score, error) {
	if err := validateComponents(technique, artistry, presentation); err != nil {
		return nil, err
	}

	perf, err := st.PerformanceByID(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if perf.Withdrawn {
		return nil, &ValidationError{Msg: "performance is withdrawn"}
	}

	assigned, err := st.AssignmentExists(ctx, judgeID, perf.EventID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, &UnauthorizedError{Msg: "judge is not assigned to this event"}
	}

	sc := &Score{
		JudgeID:       judgeID,
		PerformanceID: performanceID,
		Technique:     technique,
		Artistry:      artistry,
		Presentation:  presentation,
		Total:         technique + artistry + presentation,
	}
	if err := st.CreateScore(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// AdminOverrideScore is the only mutation path for a submitted score.
func AdminOverrideScore(ctx context.Context, st Store, scoreID int, technique, artistry, presentation float64) (*Score, error) {
	if err := validateComponents(technique, artistry, presentation); err != nil {
		return nil, err
	}
	sc := &Score{
		ID:           scoreID,
		Technique:    technique,
		Artistry:     artistry,
		Presentation: presentation,
		Total:        technique + artistry + presentation,
	}
	if err := st.UpdateScore(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func validateComponents(components ...float64) error {
	for _, v := range components {
		if v < 0 || v > maxComponentScore {
			return &ValidationError{Msg: "component scores must be between 0 and 10"}
		}
	}
	return nil
}

// WithdrawPerformance flags a performance out of judging and ranking while
// keeping its score rows for audit and restore.
func WithdrawPerformance(ctx context.Context, st Store, performanceID int) error {
	if _, err := st.PerformanceByID(ctx, performanceID); err != nil {
		return err
	}
	return st.SetPerformanceWithdrawn(ctx, performanceID, true)
}

// RestorePerformance returns a withdrawn performance to eligibility with
// its prior scores intact.
func RestorePerformance(ctx context.Context, st Store, performanceID int) error {
	if _, err := st.PerformanceByID(ctx, performanceID); err != nil {
		return err
	}
	return st.SetPerformanceWithdrawn(ctx, performanceID, false)
}
