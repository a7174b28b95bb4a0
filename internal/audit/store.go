package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// Event kinds.
const (
	KindDenial   = "denial"
	KindMutation = "mutation"
	KindStartup  = "startup"
)

// Outcomes.
const (
	OutcomeDenied  = "denied"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is one journal entry: a lock denial, the result of a
// state-changing action, or the startup lock validation.
type Event struct {
	ID        string
	CreatedAt time.Time
	Kind      string
	Tool      string
	Action    string
	ProjectID string
	Outcome   string
	Reason    string
	Detail    string
}

// Store is the sqlite-backed audit journal. A nil *Store is a valid,
// fully disabled journal: every method no-ops.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the journal at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		kind TEXT NOT NULL,
		tool TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL DEFAULT '',
		project_id TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the journal.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends an event. A journal failure is logged, never surfaced:
// auditing must not take down the call it describes.
func (s *Store) Record(event Event) {
	if s == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	logger.Slog().Info("audit",
		"kind", event.Kind,
		"tool", event.Tool,
		"action", event.Action,
		"project_id", event.ProjectID,
		"outcome", event.Outcome,
		"reason", event.Reason,
	)

	_, err := s.db.Exec(
		`INSERT INTO events (id, created_at, kind, tool, action, project_id, outcome, reason, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.CreatedAt, event.Kind, event.Tool, event.Action,
		event.ProjectID, event.Outcome, event.Reason, event.Detail,
	)
	if err != nil {
		logger.Error("failed to record audit event: %v", err)
	}
}

// RecordDenial journals a call rejected by lock enforcement.
func (s *Store) RecordDenial(tool, action, projectID, reason, detail string) {
	s.Record(Event{
		Kind:      KindDenial,
		Tool:      tool,
		Action:    action,
		ProjectID: projectID,
		Outcome:   OutcomeDenied,
		Reason:    reason,
		Detail:    detail,
	})
}

// RecordMutation journals the outcome of a state-changing action.
func (s *Store) RecordMutation(tool, action, projectID string, err error) {
	event := Event{
		Kind:      KindMutation,
		Tool:      tool,
		Action:    action,
		ProjectID: projectID,
		Outcome:   OutcomeSuccess,
	}
	if err != nil {
		event.Outcome = OutcomeFailure
		event.Detail = err.Error()
	}
	s.Record(event)
}

// RecordStartup journals the startup lock validation result.
func (s *Store) RecordStartup(lockedProject string, err error) {
	event := Event{
		Kind:      KindStartup,
		ProjectID: lockedProject,
		Outcome:   OutcomeSuccess,
	}
	if err != nil {
		event.Outcome = OutcomeFailure
		event.Detail = err.Error()
	}
	s.Record(event)
}

// Filter narrows a List call.
type Filter struct {
	Kind  string
	Limit int
}

// List returns the newest events first.
func (s *Store) List(filter Filter) ([]*Event, error) {
	if s == nil {
		return nil, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, created_at, kind, tool, action, project_id, outcome, reason, detail FROM events`
	args := []any{}
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.CreatedAt, &event.Kind, &event.Tool,
			&event.Action, &event.ProjectID, &event.Outcome, &event.Reason, &event.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}

// Sweep deletes events older than the retention window and reports how
// many were removed.
func (s *Store) Sweep(retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-retention)
	result, err := s.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep audit events: %w", err)
	}
	return result.RowsAffected()
}
