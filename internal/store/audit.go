package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEntry records one mutation sent from this console.
type AuditEntry struct {
	ID        string            `json:"id"`
	Entity    string            `json:"entity"`    // "case", "note", "court", ...
	RecordID  string            `json:"record_id"` // backend id, empty for failed creates
	Action    string            `json:"action"`    // "create", "update", "delete", "complete", "add_date", ...
	Outcome   string            `json:"outcome"`
	Actor     string            `json:"actor"`
	Details   map[string]string `json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}

// DefaultActor is the local OS user, used when no actor is given.
func DefaultActor() string {
	for _, k := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return "console"
}

// AddAuditEntry stores entry, filling id, actor and timestamp when unset.
func (s *Store) AddAuditEntry(ctx context.Context, entry AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Actor == "" {
		entry.Actor = DefaultActor()
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeSuccess
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	details := entry.Details
	if details == nil {
		details = map[string]string{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, entity, record_id, action, outcome, actor, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Entity, entry.RecordID, entry.Action, entry.Outcome, entry.Actor,
		string(detailsJSON), entry.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns the newest entries first. entity filters when non-empty.
func (s *Store) ListAuditEntries(ctx context.Context, entity string, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, entity, record_id, action, outcome, actor, details, created_at FROM audit_entries`
	args := []interface{}{}
	if entity != "" {
		query += ` WHERE entity = ?`
		args = append(args, entity)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e         AuditEntry
			details   string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Entity, &e.RecordID, &e.Action, &e.Outcome, &e.Actor, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			e.Details = map[string]string{"raw": details}
		}
		e.CreatedAt = time.Unix(0, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
