package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/uid"
)

// MySQLJobCardRepository implements JobCardRepository against the hosted
// MySQL database. The connection is injected so the caller owns pooling and
// lifecycle.
type MySQLJobCardRepository struct {
	db *sql.DB
}

// NewMySQLJobCardRepository creates a new MySQL job card repository and
// ensures the schema exists.
func NewMySQLJobCardRepository(db *sql.DB) (*MySQLJobCardRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS job_cards (
		id VARCHAR(36) PRIMARY KEY,
		created_at DATETIME NOT NULL,
		engineer_name VARCHAR(255) NOT NULL,
		engineer_id VARCHAR(64) NOT NULL,
		engineer_phone VARCHAR(32) NOT NULL,
		client_name VARCHAR(255) NOT NULL,
		client_company VARCHAR(255) NOT NULL,
		client_phone VARCHAR(32) NOT NULL,
		client_email VARCHAR(255) NOT NULL,
		machine_name VARCHAR(255) NOT NULL,
		machine_serial_number VARCHAR(128) NOT NULL,
		machine_model VARCHAR(128),
		fault_description TEXT NOT NULL,
		reported_date DATE NOT NULL,
		resolution_status VARCHAR(32) NOT NULL,
		resolution_details TEXT NOT NULL,
		parts_replaced TEXT,
		recommendations TEXT NOT NULL,
		stamp_image_url VARCHAR(512),
		signature_image_url VARCHAR(512),
		email_sent TINYINT(1) NOT NULL DEFAULT 0,
		synced_from_offline TINYINT(1) NOT NULL DEFAULT 0,
		INDEX idx_job_cards_created_at (created_at)
	)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create job_cards table: %w", err)
	}
	return &MySQLJobCardRepository{db: db}, nil
}

// Insert persists a new job card and returns its assigned id.
func (r *MySQLJobCardRepository) Insert(ctx context.Context, card model.JobCard) (string, error) {
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
func (r *MySQLJobCardRepository) GetByID(ctx context.Context, id string) (*model.JobCard, error) {
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
func (r *MySQLJobCardRepository) List(ctx context.Context, limit int) ([]model.JobCard, error) {
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
func (r *MySQLJobCardRepository) MarkEmailSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE job_cards SET email_sent = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}
	return nil
}

// GetStats returns statistics about the job card database.
func (r *MySQLJobCardRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
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

	var lastSubmission sql.NullTime
	if err := r.db.QueryRowContext(ctx,
		"SELECT MAX(created_at) FROM job_cards").Scan(&lastSubmission); err == nil && lastSubmission.Valid {
		stats["last_submission"] = lastSubmission.Time
	}

	return stats, nil
}

// Close is a no-op: the injected connection is owned by the caller.
func (r *MySQLJobCardRepository) Close() error {
	return nil
}

// Ensure MySQLJobCardRepository implements JobCardRepository
var _ JobCardRepository = (*MySQLJobCardRepository)(nil)
