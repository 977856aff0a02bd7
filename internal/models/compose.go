package models

import "time"

// ComposeRequest is the inbound payload from the web-route layer.
type ComposeRequest struct {
	Text string `json:"text"`
	Mood string `json:"mood"`
}

// Composition is the finished pipeline output: one encoded audio buffer
// plus the script it was rendered from.
type Composition struct {
	Audio       []byte           `json:"-"`
	ContentType string           `json:"content_type"`
	DurationMs  int              `json:"duration_ms"`
	Script      MotivationScript `json:"script"`
}

// JobStatus represents the status of an async composition job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
	JobStatusError      JobStatus = "error"
)

// Job represents an asynchronous composition job. Audio bytes live only
// in the job record for its TTL; nothing is persisted.
type Job struct {
	ID          string     `json:"job_id"`
	Status      JobStatus  `json:"status"`
	Stage       string     `json:"stage,omitempty"` // e.g. "synthesizing"
	Error       string     `json:"error,omitempty"`
	Audio       []byte     `json:"-"`
	DurationMs  int        `json:"duration_ms,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
