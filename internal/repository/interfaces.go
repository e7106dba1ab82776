package repository

import (
	"context"
	"time"

	"github.com/webapp-template/auth-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// AccountRepository defines methods for provider account links
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByProvider(ctx context.Context, provider, providerAccountID string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.Account, error)
}

// MagicLinkRepository defines methods for magic link operations.
// Redeem marks an unused, unexpired link as used in a single conditional
// update so that concurrent redemptions of the same token cannot both
// succeed.
type MagicLinkRepository interface {
	Create(ctx context.Context, link *domain.MagicLink) error
	Redeem(ctx context.Context, token, email string, now time.Time) (*domain.MagicLink, error)
}

// WaitlistRepository defines methods for waitlist signups
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) error
	List(ctx context.Context) ([]*domain.WaitlistEntry, error)
}
