package store

import "time"

// HistoryRecord is one row of the installation audit trail.
type HistoryRecord struct {
	ID          int64
	RequestID   string
	SourcePath  string
	Format      string
	Status      string
	Message     string
	SHA256      string
	SizeBytes   int64
	SubmittedAt time.Time
	FinishedAt  time.Time
}
