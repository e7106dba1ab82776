package service

import (
	"context"

	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/dto"
	"github.com/webapp-template/auth-service/internal/oauth"
)

// AuthService defines the boundary operations of the authentication core
type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)

	// RequestMagicLink never fails from the caller's point of view:
	// lookup, creation and delivery errors are absorbed so the response
	// cannot be used to probe which emails are registered.
	RequestMagicLink(ctx context.Context, email string)
	VerifyMagicLink(ctx context.Context, email, token string) (*AuthResult, error)

	ResolveProviderUser(ctx context.Context, providerName string, profile *oauth.Profile) (*AuthResult, error)

	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// MagicLinkMailer delivers magic-link emails.
type MagicLinkMailer interface {
	SendMagicLink(ctx context.Context, to, token string) error
}

// WaitlistService manages pre-launch signups
type WaitlistService interface {
	Join(ctx context.Context, email string) (*domain.WaitlistEntry, error)
	List(ctx context.Context) ([]*domain.WaitlistEntry, error)
}
