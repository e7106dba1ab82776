package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/pkg/database"
)

// magicLinkRepository implements MagicLinkRepository interface
type magicLinkRepository struct {
	db *database.Postgres
}

// NewMagicLinkRepository creates a new magic link repository
func NewMagicLinkRepository(db *database.Postgres) MagicLinkRepository {
	return &magicLinkRepository{db: db}
}

// Create creates a new magic link row
func (r *magicLinkRepository) Create(ctx context.Context, link *domain.MagicLink) error {
	query := `
		INSERT INTO magic_links (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		link.UserID,
		link.Token,
		link.ExpiresAt,
		link.CreatedAt,
	).Scan(&link.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("magic link token collision: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create magic link: %w", err)
	}

	return nil
}

// Redeem atomically marks an unused, unexpired magic link as used and
// returns it. The used/expired/email checks are part of the UPDATE
// predicate itself, so when two verifications race on the same token at
// most one of them gets a row back; the other sees ErrNotFound.
func (r *magicLinkRepository) Redeem(ctx context.Context, token, email string, now time.Time) (*domain.MagicLink, error) {
	query := `
		UPDATE magic_links ml
		SET used_at = $2
		FROM users u
		WHERE ml.user_id = u.id
		  AND ml.token = $1
		  AND ml.used_at IS NULL
		  AND ml.expires_at > $2
		  AND u.email = $3
		RETURNING ml.id, ml.user_id, ml.token, ml.expires_at, ml.used_at, ml.created_at
	`

	link := &domain.MagicLink{}
	var usedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, token, now, email).Scan(
		&link.ID,
		&link.UserID,
		&link.Token,
		&link.ExpiresAt,
		&usedAt,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("magic link not redeemable: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to redeem magic link: %w", err)
	}

	if usedAt.Valid {
		link.UsedAt = &usedAt.Time
	}

	return link, nil
}
