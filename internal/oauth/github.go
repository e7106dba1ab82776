package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/webapp-template/auth-service/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type githubProvider struct {
	cfg *oauth2.Config
}

// NewGitHub creates the GitHub provider adapter.
func NewGitHub(cfg config.OAuthProviderConfig) Provider {
	return &githubProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *githubProvider) Name() string {
	return "github"
}

func (p *githubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *githubProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange github code: %w", err)
	}

	client := p.cfg.Client(ctx, token)

	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(client, githubUserURL, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}

	email := user.Email
	if email == "" {
		// The profile email is empty when the user keeps it private; the
		// user:email scope still exposes it through the emails endpoint.
		email, err = p.fetchPrimaryEmail(client)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, ErrNoEmail
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}
	given, family := splitName(displayName)

	return &Profile{
		ID:         strconv.FormatInt(user.ID, 10),
		Email:      email,
		Name:       displayName,
		GivenName:  given,
		FamilyName: family,
		AvatarURL:  user.AvatarURL,
	}, nil
}

func (p *githubProvider) fetchPrimaryEmail(client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, githubEmailsURL, &emails); err != nil {
		return "", fmt.Errorf("failed to fetch github emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func getJSON(client *http.Client, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
