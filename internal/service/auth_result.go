package service

import (
	"fmt"

	"github.com/webapp-template/auth-service/internal/domain"
)

// AuthResult is a freshly issued bearer token together with the
// authenticated user.
type AuthResult struct {
	AccessToken string
	ExpiresIn   int // seconds
	User        *domain.User
}

func (s *authService) generateAuthResult(user *domain.User) (*AuthResult, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResult{
		AccessToken: token,
		ExpiresIn:   s.jwtManager.TokenExpiry(),
		User:        user,
	}, nil
}
