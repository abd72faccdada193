package internal

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgres unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Store is the data-access boundary of the engine. Every call is atomic on
// its own; the engine never assumes cross-call transactions. CreateScore and
// CreateAssignment are the enforcement points for the uniqueness and
// capacity invariants (the engine's own checks are a fast path only).
type Store interface {
	EntryByID(ctx context.Context, id int) (*Entry, error)
	EntriesByEvent(ctx context.Context, eventID int) ([]Entry, error)
	AllEntries(ctx context.Context) ([]Entry, error)
	SetEntryItemNumber(ctx context.Context, entryID, itemNumber int) error

	PerformanceByID(ctx context.Context, id int) (*Performance, error)
	PerformanceByEntry(ctx context.Context, entryID int) (*Performance, error)
	AllPerformances(ctx context.Context) ([]Performance, error)
	SetPerformanceItemNumber(ctx context.Context, performanceID, itemNumber int) error
	SetPerformanceWithdrawn(ctx context.Context, performanceID int, withdrawn bool) error

	ScoresByPerformance(ctx context.Context, performanceID int) ([]Score, error)
	CreateScore(ctx context.Context, s *Score) error
	UpdateScore(ctx context.Context, s *Score) error

	EventByID(ctx context.Context, id int) (*Event, error)
	EventsByRegion(ctx context.Context, region string) ([]Event, error)
	JudgeByID(ctx context.Context, id int) (*User, error)

	CreateAssignment(ctx context.Context, a *JudgeEventAssignment) error
	AssignmentExists(ctx context.Context, judgeID, eventID int) (bool, error)
	AssignmentCount(ctx context.Context, eventID int) (int, error)
	DeleteAssignment(ctx context.Context, id int) error

	DancersByIDs(ctx context.Context, ids []int) ([]Dancer, error)
}

// PgStore implements Store over postgres.
//
// Expected tables: events(id, name, region, status),
// entries(id, event_id, contestant_id, participant_ids int[], entry_type,
// age_category, performance_type, item_number, qualified, music_url,
// video_url, UNIQUE(event_id, item_number) DEFERRABLE),
// performances(id, entry_id, event_id, item_number, status, withdrawn,
// UNIQUE(event_id, item_number) DEFERRABLE),
// scores(id, judge_id, performance_id, technique, artistry,
// presentation, total, UNIQUE(judge_id, performance_id)),
// judge_event_assignments(id, judge_id, event_id, assigned_by,
// UNIQUE(judge_id, event_id)), users(id, username, pass_hash, role),
// dancers(id, studio_id, name, mastery_level, registration_paid).
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

var _ Store = (*PgStore)(nil)

/* ===================== ENTRIES ===================== */

const entryCols = "id, event_id, contestant_id, participant_ids, entry_type, age_category, performance_type, item_number, qualified, COALESCE(music_url,''), COALESCE(video_url,'')"

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.EventID, &e.ContestantID, &e.ParticipantIDs,
		&e.EntryType, &e.AgeCategory, &e.PerformanceType, &e.ItemNumber,
		&e.Qualified, &e.MusicURL, &e.VideoURL)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PgStore) EntryByID(ctx context.Context, id int) (*Entry, error) {
	e, err := scanEntry(qRow(ctx, s.db, psql.Select(entryCols).From("entries").Where(sq.Eq{"id": id})))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "entry", ID: id}
	}
	return e, err
}

func (s *PgStore) EntriesByEvent(ctx context.Context, eventID int) ([]Entry, error) {
	return s.queryEntries(ctx, psql.Select(entryCols).From("entries").
		Where(sq.Eq{"event_id": eventID}).OrderBy("id ASC"))
}

func (s *PgStore) AllEntries(ctx context.Context) ([]Entry, error) {
	return s.queryEntries(ctx, psql.Select(entryCols).From("entries").OrderBy("id ASC"))
}

func (s *PgStore) queryEntries(ctx context.Context, q sq.SelectBuilder) ([]Entry, error) {
	rows, err := qQuery(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// SetEntryItemNumber relies on the UNIQUE(event_id, item_number) index to
// reject a concurrent duplicate that slipped past the engine's sibling
// scan; the violation surfaces as ConflictError.
func (s *PgStore) SetEntryItemNumber(ctx context.Context, entryID, itemNumber int) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE entries SET item_number=$1 WHERE id=$2", itemNumber, entryID)
	if isUniqueViolation(err) {
		return &ConflictError{Msg: "item number already taken in this event"}
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "entry", ID: entryID}
	}
	return nil
}

/* ===================== PERFORMANCES ===================== */

const perfCols = "id, entry_id, event_id, item_number, status, withdrawn"

func scanPerformance(row pgx.Row) (*Performance, error) {
	var p Performance
	err := row.Scan(&p.ID, &p.EntryID, &p.EventID, &p.ItemNumber, &p.Status, &p.Withdrawn)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PgStore) PerformanceByID(ctx context.Context, id int) (*Performance, error) {
	p, err := scanPerformance(qRow(ctx, s.db,
		psql.Select(perfCols).From("performances").Where(sq.Eq{"id": id})))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "performance", ID: id}
	}
	return p, err
}

func (s *PgStore) PerformanceByEntry(ctx context.Context, entryID int) (*Performance, error) {
	p, err := scanPerformance(qRow(ctx, s.db,
		psql.Select(perfCols).From("performances").Where(sq.Eq{"entry_id": entryID})))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "performance for entry", ID: entryID}
	}
	return p, err
}

func (s *PgStore) AllPerformances(ctx context.Context) ([]Performance, error) {
	rows, err := qQuery(ctx, s.db,
		psql.Select(perfCols).From("performances").OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Performance
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PgStore) SetPerformanceItemNumber(ctx context.Context, performanceID, itemNumber int) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE performances SET item_number=$1 WHERE id=$2", itemNumber, performanceID)
	if isUniqueViolation(err) {
		return &ConflictError{Msg: "item number already taken in this event"}
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "performance", ID: performanceID}
	}
	return nil
}

func (s *PgStore) SetPerformanceWithdrawn(ctx context.Context, performanceID int, withdrawn bool) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE performances SET withdrawn=$1 WHERE id=$2", withdrawn, performanceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "performance", ID: performanceID}
	}
	return nil
}

/* ===================== SCORES ===================== */

func (s *PgStore) ScoresByPerformance(ctx context.Context, performanceID int) ([]Score, error) {
	rows, err := qQuery(ctx, s.db, psql.
		Select("id, judge_id, performance_id, technique, artistry, presentation, total").
		From("scores").Where(sq.Eq{"performance_id": performanceID}).OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.ID, &sc.JudgeID, &sc.PerformanceID,
			&sc.Technique, &sc.Artistry, &sc.Presentation, &sc.Total); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// CreateScore relies on the UNIQUE(judge_id, performance_id) index; a
// concurrent duplicate loses the insert and surfaces as ConflictError.
func (s *PgStore) CreateScore(ctx context.Context, sc *Score) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO scores(judge_id, performance_id, technique, artistry, presentation, total)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT(judge_id, performance_id) DO NOTHING
		 RETURNING id`,
		sc.JudgeID, sc.PerformanceID, sc.Technique, sc.Artistry, sc.Presentation, sc.Total,
	).Scan(&sc.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &ConflictError{Msg: "score already submitted for this performance"}
	}
	return err
}

func (s *PgStore) UpdateScore(ctx context.Context, sc *Score) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE scores SET technique=$1, artistry=$2, presentation=$3, total=$4 WHERE id=$5",
		sc.Technique, sc.Artistry, sc.Presentation, sc.Total, sc.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "score", ID: sc.ID}
	}
	return nil
}

/* ===================== EVENTS / JUDGES ===================== */

func (s *PgStore) EventByID(ctx context.Context, id int) (*Event, error) {
	var e Event
	err := qRow(ctx, s.db, psql.Select("id, name, region, status").
		From("events").Where(sq.Eq{"id": id})).
		Scan(&e.ID, &e.Name, &e.Region, &e.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "event", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PgStore) EventsByRegion(ctx context.Context, region string) ([]Event, error) {
	rows, err := qQuery(ctx, s.db, psql.Select("id, name, region, status").
		From("events").Where("LOWER(region) = ?", strings.ToLower(region)).
		OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Region, &e.Status); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PgStore) JudgeByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := qRow(ctx, s.db, psql.Select("id, username, role").
		From("users").Where(sq.Eq{"id": id, "role": "judge"})).
		Scan(&u.ID, &u.Username, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "judge", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

/* ===================== ASSIGNMENTS ===================== */

// CreateAssignment serializes concurrent callers on the event's assignment
// rows: the capacity count runs after FOR UPDATE locks, and the unique index
// on (judge_id, event_id) backstops the duplicate check.
func (s *PgStore) CreateAssignment(ctx context.Context, a *JudgeEventAssignment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"SELECT id FROM judge_event_assignments WHERE event_id=$1 FOR UPDATE", a.EventID); err != nil {
		return err
	}

	var count int
	if err := qRowTx(ctx, tx, psql.Select("COUNT(*)").
		From("judge_event_assignments").Where(sq.Eq{"event_id": a.EventID})).Scan(&count); err != nil {
		return err
	}
	if count >= MaxJudgesPerEvent {
		return &CapacityError{EventID: a.EventID, Limit: MaxJudgesPerEvent}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO judge_event_assignments(judge_id, event_id, assigned_by)
		 VALUES ($1,$2,$3)
		 ON CONFLICT(judge_id, event_id) DO NOTHING
		 RETURNING id`,
		a.JudgeID, a.EventID, a.AssignedBy,
	).Scan(&a.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &DuplicateAssignmentError{JudgeID: a.JudgeID, EventID: a.EventID}
	}
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PgStore) AssignmentExists(ctx context.Context, judgeID, eventID int) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM judge_event_assignments WHERE judge_id=$1 AND event_id=$2)",
		judgeID, eventID).Scan(&ok)
	return ok, err
}

func (s *PgStore) AssignmentCount(ctx context.Context, eventID int) (int, error) {
	var count int
	err := qRow(ctx, s.db, psql.Select("COUNT(*)").
		From("judge_event_assignments").Where(sq.Eq{"event_id": eventID})).Scan(&count)
	return count, err
}

// DeleteAssignment is idempotent: deleting an absent row is a no-op.
func (s *PgStore) DeleteAssignment(ctx context.Context, id int) error {
	_, err := qExec(ctx, s.db, psql.Delete("judge_event_assignments").Where(sq.Eq{"id": id}))
	return err
}

/* ===================== DANCERS ===================== */

func (s *PgStore) DancersByIDs(ctx context.Context, ids []int) ([]Dancer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := qQuery(ctx, s.db, psql.
		Select("id, studio_id, name, mastery_level, registration_paid").
		From("dancers").Where(sq.Eq{"id": ids}).OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dancer
	for rows.Next() {
		var d Dancer
		if err := rows.Scan(&d.ID, &d.StudioID, &d.Name, &d.MasteryLevel, &d.RegistrationPaid); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
