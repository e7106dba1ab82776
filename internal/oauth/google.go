package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/webapp-template/auth-service/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleProvider struct {
	cfg *oauth2.Config
}

// NewGoogle creates the Google provider adapter.
func NewGoogle(cfg config.OAuthProviderConfig) Provider {
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) Name() string {
	return "google"
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *googleProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange google code: %w", err)
	}

	resp, err := p.cfg.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode google userinfo: %w", err)
	}

	if info.Email == "" {
		return nil, ErrNoEmail
	}

	return &Profile{
		ID:         info.ID,
		Email:      info.Email,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		AvatarURL:  info.Picture,
	}, nil
}
