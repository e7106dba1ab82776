package repository

import (
	"github.com/webapp-template/auth-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Account   AccountRepository
	MagicLink MagicLinkRepository
	Waitlist  WaitlistRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Account:   NewAccountRepository(db),
		MagicLink: NewMagicLinkRepository(db),
		Waitlist:  NewWaitlistRepository(db),
	}
}
