package internal

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"` // admin|judge|studio
}

type Event struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Status string `json:"status"` // open|closed
}

type Dancer struct {
	ID               int    `json:"id"`
	StudioID         int    `json:"studio_id"`
	Name             string `json:"name"`
	MasteryLevel     string `json:"mastery_level"` // novice|intermediate|advanced
	RegistrationPaid bool   `json:"registration_paid"`
}

type Entry struct {
	ID              int    `json:"id"`
	EventID         int    `json:"event_id"`
	ContestantID    int    `json:"contestant_id"`
	ParticipantIDs  []int  `json:"participant_ids,omitempty"`
	EntryType       string `json:"entry_type"` // live|prerecorded
	AgeCategory     string `json:"age_category"`
	PerformanceType string `json:"performance_type"`
	ItemNumber      *int   `json:"item_number,omitempty"`
	Qualified       bool   `json:"qualified"`
	MusicURL        string `json:"music_url,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
}

type Performance struct {
	ID         int    `json:"id"`
	EntryID    int    `json:"entry_id"`
	EventID    int    `json:"event_id"`
	ItemNumber *int   `json:"item_number,omitempty"`
	Status     string `json:"status"` // scheduled|in_progress|completed|cancelled
	Withdrawn  bool   `json:"withdrawn"`
}

type Score struct {
	ID            int     `json:"id"`
	JudgeID       int     `json:"judge_id"`
	PerformanceID int     `json:"performance_id"`
	Technique     float64 `json:"technique"`
	Artistry      float64 `json:"artistry"`
	Presentation  float64 `json:"presentation"`
	Total         float64 `json:"total"`
}

type JudgeEventAssignment struct {
	ID         int `json:"id"`
	JudgeID    int `json:"judge_id"`
	EventID    int `json:"event_id"`
	AssignedBy int `json:"assigned_by"`
}

type RankingEntry struct {
	Rank          int     `json:"rank"`
	PerformanceID int     `json:"performance_id"`
	EntryID       int     `json:"entry_id"`
	ContestantID  int     `json:"contestant_id"`
	ItemNumber    *int    `json:"item_number,omitempty"`
	JudgeCount    int     `json:"judge_count"`
	AverageScore  float64 `json:"average_score"`
}

// FeeBreakdown is computed, never persisted.
type FeeBreakdown struct {
	BaseFee          int `json:"base_fee"`
	RegistrationFees int `json:"registration_fees"`
	UnpaidCount      int `json:"unpaid_count"`
	Total            int `json:"total"`
}
