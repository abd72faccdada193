package internal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// fail maps engine errors to HTTP status codes.
func fail(c *gin.Context, err error) {
	var (
		ve     *ValidationError
		nf     *NotFoundError
		ce     *ConflictError
		dup    *DuplicateAssignmentError
		capErr *CapacityError
		ua     *UnauthorizedError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(400, gin.H{"error": ve.Msg})
	case errors.As(err, &nf):
		c.JSON(404, gin.H{"error": nf.Error()})
	case errors.As(err, &ce):
		c.JSON(409, gin.H{"error": ce.Msg, "existing_id": ce.ExistingID})
	case errors.As(err, &dup):
		c.JSON(409, gin.H{"error": dup.Error()})
	case errors.As(err, &capErr):
		c.JSON(409, gin.H{"error": capErr.Error()})
	case errors.As(err, &ua):
		c.JSON(403, gin.H{"error": ua.Msg})
	default:
		c.JSON(500, gin.H{"error": "db"})
	}
}

// ------------------- Events / entries (registry glue) -------------------

func ListEvents(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		region := c.Query("region")
		ctx := context.Background()

		sql := "SELECT id, name, region, status FROM events"
		args := []any{}
		if region != "" {
			sql += " WHERE LOWER(region)=LOWER($1)"
			args = append(args, region)
		}
		sql += " ORDER BY id DESC LIMIT 200"

		rows, err := db.Query(ctx, sql, args...)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		var out []Event
		for rows.Next() {
			var e Event
			_ = rows.Scan(&e.ID, &e.Name, &e.Region, &e.Status)
			out = append(out, e)
		}
		c.JSON(200, out)
	}
}

func ListEventEntries(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, _ := strconv.Atoi(c.Param("id"))
		entries, err := st.EntriesByEvent(context.Background(), eventID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(200, entries)
	}
}

// ------------------- Item numbers -------------------

func AdminAssignItemNumber(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		entryID, _ := strconv.Atoi(c.Param("id"))
		var req struct {
			ItemNumber int `json:"item_number"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		if err := AssignItemNumber(context.Background(), st, entryID, req.ItemNumber); err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "assign_item_number", "entry_id="+strconv.Itoa(entryID))
		c.JSON(200, gin.H{"ok": true})
	}
}

func AdminReorderPerformances(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		eventID, _ := strconv.Atoi(c.Param("id"))
		var items []ReorderItem
		if err := c.BindJSON(&items); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		report, err := ReorderPerformances(context.Background(), st, eventID, items)
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "reorder_performances", "event_id="+strconv.Itoa(eventID))
		c.JSON(200, report)
	}
}

func AdminSyncItemNumbers(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		report, err := SyncAllItemNumbers(context.Background(), st)
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "sync_item_numbers", "synced="+strconv.Itoa(report.SyncedCount))
		c.JSON(200, report)
	}
}

// ------------------- Judge assignments -------------------

func AdminAssignJudge(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req struct {
			JudgeID int `json:"judge_id"`
			EventID int `json:"event_id"`
		}
		if err := c.BindJSON(&req); err != nil || req.JudgeID == 0 || req.EventID == 0 {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		a, err := AssignJudgeToEvent(context.Background(), st, req.JudgeID, req.EventID, actor)
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "assign_judge", "judge_id="+strconv.Itoa(req.JudgeID)+" event_id="+strconv.Itoa(req.EventID))
		c.JSON(200, gin.H{"assignment": a})
	}
}

func AdminAssignJudgeToRegion(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req struct {
			JudgeID int    `json:"judge_id"`
			Region  string `json:"region"`
		}
		if err := c.BindJSON(&req); err != nil || req.JudgeID == 0 || req.Region == "" {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		report, err := AssignJudgeToRegion(context.Background(), st, req.JudgeID, req.Region, actor)
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "assign_judge_region", "judge_id="+strconv.Itoa(req.JudgeID)+" region="+req.Region)
		c.JSON(200, report)
	}
}

func AdminRemoveAssignment(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, _ := strconv.Atoi(c.Param("id"))
		if err := RemoveAssignment(context.Background(), st, id); err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "remove_assignment", "assignment_id="+strconv.Itoa(id))
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Rankings -------------------

// GET /api/rankings?region=&age_category=&performance_type=&event_ids=1,2
func Rankings(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := RankingFilter{
			Region:          c.Query("region"),
			AgeCategory:     c.Query("age_category"),
			PerformanceType: c.Query("performance_type"),
		}
		if raw := c.Query("event_ids"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				id, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					c.JSON(400, gin.H{"error": "bad event_ids"})
					return
				}
				f.EventIDs = append(f.EventIDs, id)
			}
		}

		out, err := CalculateRankings(context.Background(), st, f)
		if err != nil {
			fail(c, err)
			return
		}
		if out == nil {
			out = []RankingEntry{}
		}
		c.JSON(200, out)
	}
}

// ------------------- Fees -------------------

func GetFee() gin.HandlerFunc {
	return func(c *gin.Context) {
		fee, err := CalculateFee(c.Query("age_category"), c.Query("performance_type"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(200, gin.H{"fee": fee})
	}
}

func NationalsFee(st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PerformanceType  string `json:"performance_type"`
			SoloCount        int    `json:"solo_count"`
			ParticipantCount int    `json:"participant_count"`
			ParticipantIDs   []int  `json:"participant_ids"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		breakdown, err := CalculateNationalsFee(context.Background(), st,
			req.PerformanceType, req.SoloCount, req.ParticipantCount, req.ParticipantIDs)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(200, breakdown)
	}
}

// ------------------- Scores / withdrawal -------------------

func JudgeSubmitScore(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		judgeID := uid(c)
		var req struct {
			PerformanceID int     `json:"performance_id"`
			Technique     float64 `json:"technique"`
			Artistry      float64 `json:"artistry"`
			Presentation  float64 `json:"presentation"`
		}
		if err := c.BindJSON(&req); err != nil || req.PerformanceID == 0 {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		sc, err := SubmitScore(context.Background(), st, judgeID, req.PerformanceID,
			req.Technique, req.Artistry, req.Presentation)
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &judgeID, "submit_score", "performance_id="+strconv.Itoa(req.PerformanceID))
		c.JSON(200, sc)
	}
}

func AdminOverrideScoreHandler(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		scoreID, _ := strconv.Atoi(c.Param("id"))
		var req struct {
			Technique    float64 `json:"technique"`
			Artistry     float64 `json:"artistry"`
			Presentation float64 `json:"presentation"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		sc, err := AdminOverrideScore(context.Background(), st, scoreID,
			req.Technique, req.Artistry, req.Presentation)
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "admin_override_score", "score_id="+strconv.Itoa(scoreID))
		c.JSON(200, sc)
	}
}

// POST /api/admin/performances/:id/withdraw {action: withdraw|restore}
func AdminWithdrawPerformance(db *pgxpool.Pool, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		perfID, _ := strconv.Atoi(c.Param("id"))
		var req struct {
			Action string `json:"action"`
		}
		if err := c.BindJSON(&req); err != nil || (req.Action != "withdraw" && req.Action != "restore") {
			c.JSON(400, gin.H{"error": "action must be withdraw or restore"})
			return
		}

		var err error
		if req.Action == "withdraw" {
			err = WithdrawPerformance(context.Background(), st, perfID)
		} else {
			err = RestorePerformance(context.Background(), st, perfID)
		}
		if err != nil {
			fail(c, err)
			return
		}
		logAction(db, &actor, "performance_"+req.Action, "performance_id="+strconv.Itoa(perfID))
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Admin: logs -------------------

func AdminLogs(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			`SELECT l.id,
			        to_char(l.created_at, 'YYYY-MM-DD HH24:MI:SS') AS created_at,
			        COALESCE(u.username,'(deleted)') AS actor,
			        l.action,
			        l.details
			 FROM logs l
			 LEFT JOIN users u ON u.id=l.actor_id
			 ORDER BY l.id DESC LIMIT 200`)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		type row struct {
			ID        int64  `json:"id"`
			CreatedAt string `json:"created_at"`
			Actor     string `json:"actor"`
			Action    string `json:"action"`
			Details   string `json:"details"`
		}

		out := []row{}
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Actor, &r.Action, &r.Details); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, r)
		}

		c.JSON(200, out)
	}
}
