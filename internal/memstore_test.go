package internal

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memStore is an in-memory Store for engine tests. It enforces the same
// uniqueness and capacity invariants as the postgres implementation, under
// a mutex instead of row locks.
type memStore struct {
	mu           sync.Mutex
	events       map[int]*Event
	entries      map[int]*Entry
	performances map[int]*Performance
	scores       map[int]*Score
	judges       map[int]*User
	assignments  map[int]*JudgeEventAssignment
	dancers      map[int]*Dancer
	nextID       int
}

func newMemStore() *memStore {
	return &memStore{
		events:       map[int]*Event{},
		entries:      map[int]*Entry{},
		performances: map[int]*Performance{},
		scores:       map[int]*Score{},
		judges:       map[int]*User{},
		assignments:  map[int]*JudgeEventAssignment{},
		dancers:      map[int]*Dancer{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

/* ---------- seeding helpers ---------- */

func (m *memStore) addEvent(name, region string) *Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &Event{ID: m.id(), Name: name, Region: region, Status: "open"}
	m.events[e.ID] = e
	return e
}

func (m *memStore) addEntry(eventID int, ageCategory, performanceType string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &Entry{
		ID: m.id(), EventID: eventID, ContestantID: eventID*100 + m.nextID,
		EntryType: "live", AgeCategory: ageCategory, PerformanceType: performanceType,
	}
	m.entries[e.ID] = e
	return e
}

func (m *memStore) addPerformance(entry *Entry) *Performance {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &Performance{ID: m.id(), EntryID: entry.ID, EventID: entry.EventID, Status: "scheduled"}
	if entry.ItemNumber != nil {
		n := *entry.ItemNumber
		p.ItemNumber = &n
	}
	m.performances[p.ID] = p
	return p
}

func (m *memStore) addJudge(name string) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := &User{ID: m.id(), Username: name, Role: "judge"}
	m.judges[j.ID] = j
	return j
}

func (m *memStore) addDancer(masteryLevel string, paid bool) *Dancer {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &Dancer{ID: m.id(), Name: "dancer", MasteryLevel: masteryLevel, RegistrationPaid: paid}
	m.dancers[d.ID] = d
	return d
}

func (m *memStore) addScore(judgeID, performanceID int, total float64) *Score {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Score{ID: m.id(), JudgeID: judgeID, PerformanceID: performanceID, Total: total}
	m.scores[s.ID] = s
	return s
}

/* ---------- Store ---------- */

func (m *memStore) EntryByID(_ context.Context, id int) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, &NotFoundError{Kind: "entry", ID: id}
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) EntriesByEvent(_ context.Context, eventID int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries {
		if e.EventID == eventID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) AllEntries(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SetEntryItemNumber(_ context.Context, entryID, itemNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok {
		return &NotFoundError{Kind: "entry", ID: entryID}
	}
	// mirrors the UNIQUE(event_id, item_number) index
	for _, other := range m.entries {
		if other.ID != entryID && other.EventID == e.EventID &&
			other.ItemNumber != nil && *other.ItemNumber == itemNumber {
			return &ConflictError{Msg: "item number already taken in this event"}
		}
	}
	n := itemNumber
	e.ItemNumber = &n
	return nil
}

func (m *memStore) PerformanceByID(_ context.Context, id int) (*Performance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.performances[id]
	if !ok {
		return nil, &NotFoundError{Kind: "performance", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) PerformanceByEntry(_ context.Context, entryID int) (*Performance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.performances {
		if p.EntryID == entryID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, &NotFoundError{Kind: "performance for entry", ID: entryID}
}

func (m *memStore) AllPerformances(_ context.Context) ([]Performance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Performance
	for _, p := range m.performances {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SetPerformanceItemNumber(_ context.Context, performanceID, itemNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.performances[performanceID]
	if !ok {
		return &NotFoundError{Kind: "performance", ID: performanceID}
	}
	for _, other := range m.performances {
		if other.ID != performanceID && other.EventID == p.EventID &&
			other.ItemNumber != nil && *other.ItemNumber == itemNumber {
			return &ConflictError{Msg: "item number already taken in this event"}
		}
	}
	n := itemNumber
	p.ItemNumber = &n
	return nil
}

func (m *memStore) SetPerformanceWithdrawn(_ context.Context, performanceID int, withdrawn bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.performances[performanceID]
	if !ok {
		return &NotFoundError{Kind: "performance", ID: performanceID}
	}
	p.Withdrawn = withdrawn
	return nil
}

func (m *memStore) ScoresByPerformance(_ context.Context, performanceID int) ([]Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Score
	for _, s := range m.scores {
		if s.PerformanceID == performanceID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateScore(_ context.Context, sc *Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scores {
		if s.JudgeID == sc.JudgeID && s.PerformanceID == sc.PerformanceID {
			return &ConflictError{Msg: "score already submitted for this performance"}
		}
	}
	sc.ID = m.id()
	cp := *sc
	m.scores[sc.ID] = &cp
	return nil
}

func (m *memStore) UpdateScore(_ context.Context, sc *Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.scores[sc.ID]
	if !ok {
		return &NotFoundError{Kind: "score", ID: sc.ID}
	}
	cur.Technique = sc.Technique
	cur.Artistry = sc.Artistry
	cur.Presentation = sc.Presentation
	cur.Total = sc.Total
	return nil
}

func (m *memStore) EventByID(_ context.Context, id int) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, &NotFoundError{Kind: "event", ID: id}
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) EventsByRegion(_ context.Context, region string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if strings.EqualFold(e.Region, region) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) JudgeByID(_ context.Context, id int) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.judges[id]
	if !ok {
		return nil, &NotFoundError{Kind: "judge", ID: id}
	}
	cp := *j
	return &cp, nil
}

func (m *memStore) CreateAssignment(_ context.Context, a *JudgeEventAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, x := range m.assignments {
		if x.EventID == a.EventID {
			if x.JudgeID == a.JudgeID {
				return &DuplicateAssignmentError{JudgeID: a.JudgeID, EventID: a.EventID}
			}
			count++
		}
	}
	if count >= MaxJudgesPerEvent {
		return &CapacityError{EventID: a.EventID, Limit: MaxJudgesPerEvent}
	}
	a.ID = m.id()
	cp := *a
	m.assignments[a.ID] = &cp
	return nil
}

func (m *memStore) AssignmentExists(_ context.Context, judgeID, eventID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.assignments {
		if x.JudgeID == judgeID && x.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AssignmentCount(_ context.Context, eventID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, x := range m.assignments {
		if x.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) DeleteAssignment(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, id)
	return nil
}

func (m *memStore) DancersByIDs(_ context.Context, ids []int) ([]Dancer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Dancer
	for _, id := range ids {
		if d, ok := m.dancers[id]; ok {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
