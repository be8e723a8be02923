package models

import "time"

// GenerationRecord is one row in the generation log: every prompt that made
// it through the pipeline, whether or not the generator accepted it.
type GenerationRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Prompt       string    `json:"prompt"`
	Shape        string    `json:"shape"`
	Geometry     string    `json:"geometry"`
	Material     string    `json:"material"`
	Valid        bool      `json:"valid"`
	WarningCount int       `json:"warning_count"`
	Status       string    `json:"status"`
	LatencyMS    int64     `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Generation statuses.
const (
	StatusGenerated = "generated"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// FeedbackRecord captures a thumbs up/down on a generated model.
type FeedbackRecord struct {
	GenerationID  string `json:"generation_id"`
	Helpful       bool   `json:"helpful"`
	IssueCategory string `json:"issue_category"`
	Comment       string `json:"comment"`
}
