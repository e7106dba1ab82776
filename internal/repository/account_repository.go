package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/pkg/database"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *database.Postgres
}

// NewAccountRepository creates a new provider account repository
func NewAccountRepository(db *database.Postgres) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new provider account link
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, provider, provider_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// Generate UUID if not provided
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.Provider,
		account.ProviderAccountID,
		account.CreatedAt,
	)

	if err != nil {
		// Unique constraint on (provider, provider_account_id) arbitrates
		// concurrent linking attempts.
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("account link for %s already exists: %w", account.Provider, ErrDuplicateAccount)
			}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByProvider retrieves an account link by provider and provider account ID
func (r *accountRepository) GetByProvider(ctx context.Context, provider, providerAccountID string) (*domain.Account, error) {
	query := `
		SELECT id, user_id, provider, provider_account_id, created_at
		FROM accounts
		WHERE provider = $1 AND provider_account_id = $2
	`

	account := &domain.Account{}
	err := r.db.DB.QueryRowContext(ctx, query, provider, providerAccountID).Scan(
		&account.ID,
		&account.UserID,
		&account.Provider,
		&account.ProviderAccountID,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account link not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetByUserID retrieves all provider account links for a user
func (r *accountRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Account, error) {
	query := `
		SELECT id, user_id, provider, provider_account_id, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by user id: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account := &domain.Account{}
		err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Provider,
			&account.ProviderAccountID,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
