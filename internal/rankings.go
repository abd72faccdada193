package internal

import (
	"context"
	"sort"
	"strings"
)

// RankingFilter narrows the ranking scope. Zero values mean "no filter".
// EventIDs intersects with the region filter when both are set.
type RankingFilter struct {
	Region          string
	AgeCategory     string
	PerformanceType string
	EventIDs        []int
}

// CalculateRankings aggregates judge scores into an ordered ranking.
// Withdrawn performances and performances with no scores yet are excluded.
// The aggregate is the arithmetic mean of judge totals (judge counts differ
// per performance, so a sum would bias toward heavily judged ones). Ties on
// the mean break by lower item number, which is unique per event and gives
// a reproducible total order; ranks are 1-based and strictly increasing.
func CalculateRankings(ctx context.Context, st Store, f RankingFilter) ([]RankingEntry, error) {
	var eventSet map[int]bool
	if f.Region != "" {
		events, err := st.EventsByRegion(ctx, f.Region)
		if err != nil {
			return nil, err
		}
		eventSet = map[int]bool{}
		for _, ev := range events {
			eventSet[ev.ID] = true
		}
	}
	if len(f.EventIDs) > 0 {
		explicit := map[int]bool{}
		for _, id := range f.EventIDs {
			if eventSet == nil || eventSet[id] {
				explicit[id] = true
			}
		}
		eventSet = explicit
	}

	entries, err := st.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	entryByID := map[int]Entry{}
	for _, e := range entries {
		entryByID[e.ID] = e
	}

	perfs, err := st.AllPerformances(ctx)
	if err != nil {
		return nil, err
	}

	var ranked []RankingEntry
	for _, p := range perfs {
		if p.Withdrawn {
			continue
		}
		if eventSet != nil && !eventSet[p.EventID] {
			continue
		}
		entry, ok := entryByID[p.EntryID]
		if !ok {
			continue
		}
		if f.AgeCategory != "" && !strings.EqualFold(entry.AgeCategory, f.AgeCategory) {
			continue
		}
		if f.PerformanceType != "" && !strings.EqualFold(entry.PerformanceType, f.PerformanceType) {
			continue
		}

		scores, err := st.ScoresByPerformance(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if len(scores) == 0 {
			continue
		}

		sum := 0.0
		for _, s := range scores {
			sum += s.Total
		}

		ranked = append(ranked, RankingEntry{
			PerformanceID: p.ID,
			EntryID:       p.EntryID,
			ContestantID:  entry.ContestantID,
			ItemNumber:    p.ItemNumber,
			JudgeCount:    len(scores),
			AverageScore:  sum / float64(len(scores)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AverageScore != ranked[j].AverageScore {
			return ranked[i].AverageScore > ranked[j].AverageScore
		}
		ni, nj := itemOrMax(ranked[i].ItemNumber), itemOrMax(ranked[j].ItemNumber)
		if ni != nj {
			return ni < nj
		}
		return ranked[i].PerformanceID < ranked[j].PerformanceID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// Unnumbered performances sort after every numbered one.
func itemOrMax(n *int) int {
	if n == nil {
		return int(^uint(0) >> 1)
	}
	return *n
}
