package repository

import (
	"context"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
)

// JobCardRepository defines job card data access methods.
type JobCardRepository interface {
	// Insert persists a new job card and returns its assigned id.
	Insert(ctx context.Context, card model.JobCard) (string, error)

	// GetByID retrieves a job card by id. Returns (nil, nil) if absent.
	GetByID(ctx context.Context, id string) (*model.JobCard, error)

	// List returns the most recent job cards, newest first.
	List(ctx context.Context, limit int) ([]model.JobCard, error)

	// MarkEmailSent flips the email_sent flag after successful dispatch.
	MarkEmailSent(ctx context.Context, id string) error

	// GetStats returns statistics about the job card database.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
