package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/uid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteJobCardRepository implements JobCardRepository using SQLite.
// Development/single-instance deployments; the hosted setup uses MySQL.
type SQLiteJobCardRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteJobCardRepository creates a new SQLite job card repository.
// dbPath is the path to the SQLite database file (e.g. "./data/jobcards.db")
func NewSQLiteJobCardRepository(dbPath string) (*SQLiteJobCardRepository, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createJobCardTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteJobCardRepository] Initialized with database: %s", dbPath)
	return &SQLiteJobCardRepository{db: db}, nil
}

func createJobCardTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS job_cards (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		engineer_name TEXT NOT NULL,
		engineer_id TEXT NOT NULL,
		engineer_phone TEXT NOT NULL,
		client_name TEXT NOT NULL,
		client_company TEXT NOT NULL,
		client_phone TEXT NOT NULL,
		client_email TEXT NOT NULL,
		machine_name TEXT NOT NULL,
		machine_serial_number TEXT NOT NULL,
		machine_model TEXT,
		fault_description TEXT NOT NULL,
		reported_date DATETIME NOT NULL,
		resolution_status TEXT NOT NULL,
		resolution_details TEXT NOT NULL,
		parts_replaced TEXT,
		recommendations TEXT NOT NULL,
		stamp_image_url TEXT,
		signature_image_url TEXT,
		email_sent INTEGER NOT NULL DEFAULT 0,
		synced_from_offline INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_job_cards_created_at ON job_cards(created_at);
	`
	_, err := db.Exec(query)
	return err
}

const jobCardColumns = `id, created_at, engineer_name, engineer_id, engineer_phone,
	client_name, client_company, client_phone, client_email,
	machine_name, machine_serial_number, machine_model,
	fault_description, reported_date, resolution_status, resolution_details,
	parts_replaced, recommendations, stamp_image_url, signature_image_url,
	email_sent, synced_from_offline`

// Insert persists a new job card and returns its assigned id.
func (r *SQLiteJobCardRepository) Insert(ctx context.Context, card model.JobCard) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	card.ID = uid.New()
	card.CreatedAt = time.Now().UTC()

	query := `INSERT INTO job_cards (` + jobCardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.CreatedAt,
		card.EngineerName, card.EngineerID, card.EngineerPhone,
		card.ClientName, card.ClientCompany, card.ClientPhone, card.ClientEmail,
		card.MachineName, card.MachineSerialNumber, card.MachineModel,
		card.FaultDescription, card.ReportedDate,
		card.ResolutionStatus, card.ResolutionDetails,
		card.PartsReplaced, card.Recommendations,
		card.StampImageURL, card.SignatureImageURL,
		boolToInt(card.EmailSent), boolToInt(card.SyncedFromOffline))
	if err != nil {
		return "", fmt.Errorf("failed to insert job card: %w", err)
	}
	return card.ID, nil
}

// GetByID retrieves a job card by id. Returns (nil, nil) if absent.
func (r *SQLiteJobCardRepository) GetByID(ctx context.Context, id string) (*model.JobCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT ` + jobCardColumns + ` FROM job_cards WHERE id = ?`

	card, err := scanJobCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job card: %w", err)
	}
	return card, nil
}

// List returns the most recent job cards, newest first.
func (r *SQLiteJobCardRepository) List(ctx context.Context, limit int) ([]model.JobCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + jobCardColumns + ` FROM job_cards ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list job cards: %w", err)
	}
	defer rows.Close()

	var cards []model.JobCard
	for rows.Next() {
		card, err := scanJobCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job card: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// MarkEmailSent flips the email_sent flag.
func (r *SQLiteJobCardRepository) MarkEmailSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `UPDATE job_cards SET email_sent = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}
	return nil
}

// GetStats returns statistics about the job card database.
func (r *SQLiteJobCardRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]interface{})

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_cards").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_job_cards"] = count

	var offline int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM job_cards WHERE synced_from_offline = 1").Scan(&offline); err == nil {
		stats["synced_from_offline"] = offline
	}

	var lastSubmission time.Time
	if err := r.db.QueryRowContext(ctx,
		"SELECT created_at FROM job_cards ORDER BY created_at DESC LIMIT 1").Scan(&lastSubmission); err == nil {
		stats["last_submission"] = lastSubmission
	}

	return stats, nil
}

// Close closes the database connection.
func (r *SQLiteJobCardRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteJobCardRepository implements JobCardRepository
var _ JobCardRepository = (*SQLiteJobCardRepository)(nil)
