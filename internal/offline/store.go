package offline

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

var (
	// ErrStorageUnavailable indicates the local store could not be opened
	// or written.
	ErrStorageUnavailable = errors.New("offline store unavailable")

	// ErrNotFound indicates the referenced queued submission does not exist.
	// A deleted record reports ErrNotFound on every subsequent call.
	ErrNotFound = errors.New("queued submission not found")
)

// Store is the local submission store: durable, client-resident storage of
// job cards submitted while offline. Every operation opens its own
// connection scope and closes it on every exit path, so no handle outlives
// a single call.
type Store struct {
	path string
}

// NewStore creates a store backed by the SQLite database at path. The
// schema is created lazily on first use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

const queueSchema = `
	CREATE TABLE IF NOT EXISTS queued_submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		form_json TEXT NOT NULL,
		synced INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_queued_synced ON queued_submissions(synced);
	CREATE INDEX IF NOT EXISTS idx_queued_created_at ON queued_submissions(created_at);
	`

// open establishes a fresh connection scope and ensures the schema exists.
// Callers must close the returned handle.
func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// Single writer; the handle lives for one operation only.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, queueSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return db, nil
}

// Save inserts a new queued submission with synced=false and the current
// timestamp. It returns the locally-assigned id, or ErrStorageUnavailable
// without an id if the underlying write fails.
func (s *Store) Save(ctx context.Context, form model.FormValues) (int64, error) {
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	formJSON, err := json.Marshal(form)
	if err != nil {
		return 0, fmt.Errorf("failed to encode form data: %w", err)
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO queued_submissions (created_at, form_json, synced) VALUES (?, ?, 0)`,
		time.Now().UnixMilli(), string(formJSON))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return id, nil
}

// ListUnsynced returns all records that have not been delivered remotely,
// oldest first.
func (s *Store) ListUnsynced(ctx context.Context) ([]model.QueuedSubmission, error) {
	return s.list(ctx, `SELECT id, created_at, form_json, synced FROM queued_submissions WHERE synced = 0 ORDER BY id`)
}

// ListAll returns every queued submission, synced or not. Diagnostic and
// export use only.
func (s *Store) ListAll(ctx context.Context) ([]model.QueuedSubmission, error) {
	return s.list(ctx, `SELECT id, created_at, form_json, synced FROM queued_submissions ORDER BY id`)
}

func (s *Store) list(ctx context.Context, query string) ([]model.QueuedSubmission, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var subs []model.QueuedSubmission
	for rows.Next() {
		var (
			sub      model.QueuedSubmission
			formJSON string
			synced   int
		)
		if err := rows.Scan(&sub.ID, &sub.Timestamp, &formJSON, &synced); err != nil {
			return nil, fmt.Errorf("failed to scan queued submission: %w", err)
		}
		if err := json.Unmarshal([]byte(formJSON), &sub.FormData); err != nil {
			return nil, fmt.Errorf("failed to decode form data for submission %d: %w", sub.ID, err)
		}
		sub.Synced = synced != 0
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return subs, nil
}

// CountUnsynced returns the number of records still awaiting delivery.
func (s *Store) CountUnsynced(ctx context.Context) (int, error) {
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM queued_submissions WHERE synced = 0`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return count, nil
}

// MarkSynced sets synced=true for the given id. The operation is
// idempotent: marking an already-synced record succeeds. It returns
// ErrNotFound if no such record exists.
func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `UPDATE queued_submissions SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a record permanently, regardless of its synced state.
// It returns ErrNotFound if the record does not exist.
func (s *Store) Delete(ctx context.Context, id int64) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM queued_submissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}
