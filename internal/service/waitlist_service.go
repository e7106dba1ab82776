package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/repository"
	"github.com/webapp-template/auth-service/internal/utils"
	"go.uber.org/zap"
)

// waitlistService implements WaitlistService interface
type waitlistService struct {
	waitlist repository.WaitlistRepository
	logger   *zap.Logger
}

// NewWaitlistService creates a new waitlist service
func NewWaitlistService(waitlist repository.WaitlistRepository, logger *zap.Logger) WaitlistService {
	return &waitlistService{waitlist: waitlist, logger: logger}
}

// Join adds an email to the waitlist
func (s *waitlistService) Join(ctx context.Context, email string) (*domain.WaitlistEntry, error) {
	entry := &domain.WaitlistEntry{
		Email: utils.SanitizeEmail(email),
	}

	if err := s.waitlist.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	s.logger.Info("waitlist signup", zap.String("email", entry.Email))
	return entry, nil
}

// List returns all waitlist entries
func (s *waitlistService) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}
