package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hylla/weekplan/internal/app"
	"github.com/hylla/weekplan/internal/domain"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultListLimit caps activity listings when no limit is given.
const defaultListLimit = 50

// Repository stores the activity ledger.
type Repository struct {
	db *sql.DB
}

var (
	_ app.ActivityRecorder = (*Repository)(nil)
	_ app.ActivityReader   = (*Repository)(nil)
)

// Open opens a file-backed ledger, creating the parent directory.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newRepository(db)
}

// OpenInMemory opens a private in-memory ledger that lives until Close.
func OpenInMemory() (*Repository, error) {
	dsn := fmt.Sprintf("file:weekplan-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	return newRepository(db)
}

func newRepository(db *sql.DB) (*Repository, error) {
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			task_ids_json TEXT NOT NULL DEFAULT '[]',
			day TEXT NOT NULL DEFAULT '',
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_session_created_at ON change_events(session_id, created_at DESC, id DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// RecordChange appends one event to the ledger.
func (r *Repository) RecordChange(ctx context.Context, event domain.ChangeEvent) error {
	return insertChangeEvent(ctx, r.db, event)
}

// ListChangeEvents lists recent session events for activity-log consumption, newest first.
func (r *Repository) ListChangeEvents(ctx context.Context, sessionID string, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, operation, task_ids_json, day, metadata_json, created_at
		FROM change_events
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, strings.TrimSpace(sessionID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event       domain.ChangeEvent
			opRaw       string
			taskIDsRaw  string
			dayRaw      string
			metadataRaw string
			createdRaw  string
		)
		if err := rows.Scan(&event.ID, &event.SessionID, &opRaw, &taskIDsRaw, &dayRaw, &metadataRaw, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = domain.ChangeOperation(strings.TrimSpace(opRaw))
		event.Day = domain.Day(dayRaw)
		event.OccurredAt = parseTS(createdRaw)
		if err := decodeJSONColumn(taskIDsRaw, "[]", &event.TaskIDs); err != nil {
			return nil, fmt.Errorf("decode change_events.task_ids_json: %w", err)
		}
		if err := decodeJSONColumn(metadataRaw, "{}", &event.Metadata); err != nil {
			return nil, fmt.Errorf("decode change_events.metadata_json: %w", err)
		}
		if event.TaskIDs == nil {
			event.TaskIDs = []int{}
		}
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// execerContext represents a write-only DB contract used by DB and Tx implementations.
type execerContext interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// insertChangeEvent inserts a change-event ledger record.
func insertChangeEvent(ctx context.Context, execer execerContext, event domain.ChangeEvent) error {
	if strings.TrimSpace(event.SessionID) == "" {
		return errors.New("change event session id is required")
	}
	taskIDs := event.TaskIDs
	if taskIDs == nil {
		taskIDs = []int{}
	}
	taskIDsJSON, err := json.Marshal(taskIDs)
	if err != nil {
		return fmt.Errorf("encode change event task ids: %w", err)
	}
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode change event metadata: %w", err)
	}
	_, err = execer.ExecContext(ctx, `
		INSERT INTO change_events(session_id, operation, task_ids_json, day, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		strings.TrimSpace(event.SessionID),
		string(event.Operation),
		string(taskIDsJSON),
		string(event.Day),
		string(metadataJSON),
		ts(normalizeEventTS(event.OccurredAt)),
	)
	if err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

func decodeJSONColumn(raw, empty string, dst any) error {
	if strings.TrimSpace(raw) == "" {
		raw = empty
	}
	return json.Unmarshal([]byte(raw), dst)
}

// normalizeEventTS fills a missing event time with now.
func normalizeEventTS(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// tsLayout keeps a fixed fraction width so stored timestamps sort as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
