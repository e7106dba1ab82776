package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/pkg/database"
)

// waitlistRepository implements WaitlistRepository interface
type waitlistRepository struct {
	db *database.Postgres
}

// NewWaitlistRepository creates a new waitlist repository
func NewWaitlistRepository(db *database.Postgres) WaitlistRepository {
	return &waitlistRepository{db: db}
}

// Create adds a new waitlist entry
func (r *waitlistRepository) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (id, email, created_at)
		VALUES ($1, $2, $3)
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query, entry.ID, entry.Email, entry.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("email %s already on waitlist: %w", entry.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	return nil
}

// List returns all waitlist entries
func (r *waitlistRepository) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	query := `
		SELECT id, email, created_at
		FROM waitlist_entries
		ORDER BY created_at
	`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.WaitlistEntry
	for rows.Next() {
		entry := &domain.WaitlistEntry{}
		if err := rows.Scan(&entry.ID, &entry.Email, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate waitlist entries: %w", err)
	}

	return entries, nil
}
