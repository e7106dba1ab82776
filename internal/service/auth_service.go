package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/dto"
	"github.com/webapp-template/auth-service/internal/oauth"
	"github.com/webapp-template/auth-service/internal/repository"
	"github.com/webapp-template/auth-service/internal/utils"
	"github.com/webapp-template/auth-service/pkg/observability"
	"go.uber.org/zap"
)

const (
	// magicLinkTTL is the redemption window of an emailed login link.
	magicLinkTTL = 15 * time.Minute

	// magicLinkTokenBytes of entropy, hex-encoded to 64 characters.
	magicLinkTokenBytes = 32
)

// MagicLinkSentMessage is returned for every magic-link request, whether
// the account existed, was just created, or the email failed to send.
const MagicLinkSentMessage = "If an account with this email exists, a magic link has been sent."

// authService implements AuthService interface
type authService struct {
	users      repository.UserRepository
	accounts   repository.AccountRepository
	magicLinks repository.MagicLinkRepository
	jwtManager *utils.JWTManager
	mailer     MagicLinkMailer
	bcryptCost int
	logger     *zap.Logger
	metrics    *observability.AuthMetrics
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repository.Repositories,
	jwtManager *utils.JWTManager,
	mailer MagicLinkMailer,
	bcryptCost int,
	logger *zap.Logger,
) AuthService {
	metrics, err := observability.NewAuthMetrics()
	if err != nil {
		// Metric registration failure never blocks authentication.
		logger.Warn("failed to register auth metrics", zap.Error(err))
	}

	return &authService{
		users:      repos.User,
		accounts:   repos.Account,
		magicLinks: repos.MagicLink,
		jwtManager: jwtManager,
		mailer:     mailer,
		bcryptCost: bcryptCost,
		logger:     logger,
		metrics:    metrics,
	}
}

// SignUp registers a new user with an email and password
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*AuthResult, error) {
	email := utils.SanitizeEmail(req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: &passwordHash,
		Name:         &req.Name,
		Role:         domain.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint arbitrates concurrent signups with the
		// same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up", zap.String("email", email))
	s.metrics.Signup(ctx)
	return s.generateAuthResult(user)
}

// Login authenticates a user by email and password. All failure modes
// collapse into ErrInvalidCredentials so the response does not reveal
// whether the email exists.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	user, err := s.validateCredentials(ctx, utils.SanitizeEmail(req.Email), req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email))
	s.metrics.Login(ctx)
	return s.generateAuthResult(user)
}

func (s *authService) validateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		// Magic-link or OAuth-only account.
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// RequestMagicLink creates (if necessary) the user, persists a single-use
// login token and emails it. Every failure is absorbed: the handler
// returns MagicLinkSentMessage no matter what happened here.
func (s *authService) RequestMagicLink(ctx context.Context, email string) {
	email = utils.SanitizeEmail(email)

	// Malformed addresses never create user shells, even when transport
	// validation was bypassed.
	if !utils.ValidateEmail(email) {
		s.logger.Warn("magic link requested for malformed email")
		return
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("magic link lookup failed", zap.String("email", email), zap.Error(err))
			return
		}

		// Magic-link request doubles as account creation.
		user = &domain.User{
			Email: email,
			Role:  domain.RoleUser,
		}
		if err := s.users.Create(ctx, user); err != nil {
			s.logger.Error("magic link user creation failed", zap.String("email", email), zap.Error(err))
			return
		}
		s.logger.Info("user created via magic link request", zap.String("email", email))
	}

	token, err := generateMagicLinkToken()
	if err != nil {
		s.logger.Error("magic link token generation failed", zap.Error(err))
		return
	}

	link := &domain.MagicLink{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(magicLinkTTL),
	}
	if err := s.magicLinks.Create(ctx, link); err != nil {
		s.logger.Error("magic link persistence failed", zap.String("email", email), zap.Error(err))
		return
	}

	if err := s.mailer.SendMagicLink(ctx, email, token); err != nil {
		s.logger.Error("magic link email failed", zap.String("email", email), zap.Error(err))
		return
	}

	s.logger.Info("magic link sent", zap.String("email", email))
	s.metrics.MagicLinkIssued(ctx)
}

// VerifyMagicLink redeems a login token. Unknown, expired, already-used
// and email-mismatched tokens all yield ErrInvalidMagicLink.
func (s *authService) VerifyMagicLink(ctx context.Context, email, token string) (*AuthResult, error) {
	email = utils.SanitizeEmail(email)

	link, err := s.magicLinks.Redeem(ctx, token, email, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidMagicLink
		}
		return nil, fmt.Errorf("failed to redeem magic link: %w", err)
	}

	user, err := s.users.GetByID(ctx, link.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidMagicLink
		}
		return nil, fmt.Errorf("failed to get magic link user: %w", err)
	}

	s.logger.Info("magic link verified", zap.String("email", user.Email))
	s.metrics.MagicLinkRedeemed(ctx)
	return s.generateAuthResult(user)
}

// ResolveProviderUser finds or creates the local user for a provider
// identity assertion. Resolution order: exact account match, then email
// match (link), then create.
func (s *authService) ResolveProviderUser(ctx context.Context, providerName string, profile *oauth.Profile) (*AuthResult, error) {
	if profile.Email == "" {
		// Logged distinctly: this means the provider integration is
		// misconfigured, not that the user did anything wrong.
		s.logger.Error("provider profile missing email",
			zap.String("provider", providerName),
			zap.String("provider_id", profile.ID),
		)
		return nil, fmt.Errorf("resolving %s identity: %w", providerName, oauth.ErrNoEmail)
	}

	// 1. Exact account match.
	account, err := s.accounts.GetByProvider(ctx, providerName, profile.ID)
	if err == nil {
		user, err := s.users.GetByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get linked user: %w", err)
		}
		if err := s.refreshProfile(ctx, user, profile); err != nil {
			return nil, err
		}
		s.metrics.OAuthLogin(ctx, providerName)
		return s.generateAuthResult(user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	// 2. Email match: link the provider to the existing user.
	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		if err := s.backfillProfile(ctx, user, profile); err != nil {
			return nil, err
		}
		if err := s.linkAccount(ctx, user.ID, providerName, profile.ID); err != nil {
			return nil, err
		}
		s.logger.Info("provider linked to existing user",
			zap.String("provider", providerName),
			zap.String("email", user.Email),
		)
		s.metrics.OAuthLogin(ctx, providerName)
		return s.generateAuthResult(user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	// 3. No match: create user and account link.
	user = &domain.User{
		Email: profile.Email,
		Role:  domain.RoleUser,
	}
	if name := profile.DisplayName(); name != "" {
		user.Name = &name
	}
	if profile.AvatarURL != "" {
		avatar := profile.AvatarURL
		user.AvatarURL = &avatar
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user from provider: %w", err)
	}
	if err := s.linkAccount(ctx, user.ID, providerName, profile.ID); err != nil {
		return nil, err
	}

	s.logger.Info("user created from provider",
		zap.String("provider", providerName),
		zap.String("email", user.Email),
	)
	s.metrics.OAuthLogin(ctx, providerName)
	return s.generateAuthResult(user)
}

func (s *authService) linkAccount(ctx context.Context, userID, providerName, providerAccountID string) error {
	account := &domain.Account{
		UserID:            userID,
		Provider:          providerName,
		ProviderAccountID: providerAccountID,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return ErrConflict
		}
		return fmt.Errorf("failed to link account: %w", err)
	}
	return nil
}

// refreshProfile overwrites name and avatar when the provider asserts
// fresher values. Used on the exact-account-match path where the
// provider is the authoritative source for this identity.
func (s *authService) refreshProfile(ctx context.Context, user *domain.User, profile *oauth.Profile) error {
	changed := false

	if name := profile.DisplayName(); name != "" && (user.Name == nil || *user.Name != name) {
		user.Name = &name
		changed = true
	}
	if profile.AvatarURL != "" && (user.AvatarURL == nil || *user.AvatarURL != profile.AvatarURL) {
		avatar := profile.AvatarURL
		user.AvatarURL = &avatar
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to refresh user profile: %w", err)
	}
	return nil
}

// backfillProfile fills only unset name and avatar fields, so linking a
// provider never overwrites values the user edited themselves.
func (s *authService) backfillProfile(ctx context.Context, user *domain.User, profile *oauth.Profile) error {
	changed := false

	if name := profile.DisplayName(); name != "" && (user.Name == nil || *user.Name == "") {
		user.Name = &name
		changed = true
	}
	if profile.AvatarURL != "" && (user.AvatarURL == nil || *user.AvatarURL == "") {
		avatar := profile.AvatarURL
		user.AvatarURL = &avatar
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to backfill user profile: %w", err)
	}
	return nil
}

// GetProfile re-fetches the user from storage so out-of-band role or
// profile changes are reflected immediately.
func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ValidateToken validates a bearer token cryptographically.
func (s *authService) ValidateToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateMagicLinkToken() (string, error) {
	buf := make([]byte, magicLinkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate magic link token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
