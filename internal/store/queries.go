package store

import (
	"fmt"
	"time"
)

// RecordOutcome appends one completed attempt to the ledger. Rows are never
// updated afterwards.
func (s *Store) RecordOutcome(rec *HistoryRecord) error {
	query := `
		INSERT INTO install_history
		(request_id, source_path, format, status, message, sha256, size_bytes, submitted_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		rec.RequestID,
		rec.SourcePath,
		rec.Format,
		rec.Status,
		rec.Message,
		rec.SHA256,
		rec.SizeBytes,
		rec.SubmittedAt.Format(time.RFC3339),
		rec.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", rec.SourcePath, mapSchemaErr(err))
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// History returns all recorded attempts in completion order (insertion
// order equals completion order; the engine records under its install
// lock).
func (s *Store) History() ([]*HistoryRecord, error) {
	query := `
		SELECT id, request_id, source_path, format, status, message, sha256, size_bytes, submitted_at, finished_at
		FROM install_history
		ORDER BY id ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var records []*HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var submittedAt, finishedAt string

		err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.SourcePath,
			&rec.Format,
			&rec.Status,
			&rec.Message,
			&rec.SHA256,
			&rec.SizeBytes,
			&submittedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		rec.SubmittedAt, _ = time.Parse(time.RFC3339, submittedAt)
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return records, nil
}

// Count returns the number of recorded attempts.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM install_history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", mapSchemaErr(err))
	}
	return count, nil
}

// SeenDigest reports whether a byte-identical file was processed before,
// used to flag duplicates in outcome messages. Informational only, never a
// block.
func (s *Store) SeenDigest(sha256 string) (bool, error) {
	if sha256 == "" {
		return false, nil
	}

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM install_history WHERE sha256 = ?", sha256).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check digest: %w", mapSchemaErr(err))
	}
	return n > 0, nil
}

// ClearHistory atomically replaces the ledger with an empty sequence.
// There is deliberately no partial delete: filtering is a presentation
// concern, and the audit trail stays all-or-nothing.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM install_history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", mapSchemaErr(err))
	}
	return nil
}
