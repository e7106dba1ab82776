// Package oauth adapts third-party identity providers to a single
// normalized profile shape. The rest of the service consumes only
// Profile and never sees provider-specific payloads.
package oauth

import (
	"context"
	"strings"
)

// Profile is the normalized identity assertion produced by every
// provider adapter.
type Profile struct {
	// ID is the provider-assigned user identifier.
	ID string
	// Email is the cross-provider linking key. Adapters must fail when
	// the provider does not assert one.
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	AvatarURL  string
}

// DisplayName derives a best-effort display name from the profile
// fields, preferring the provider's display name over the assembled
// given/family pair.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// Provider is an identity provider the service can federate with.
type Provider interface {
	// Name returns the provider key stored in account links, e.g. "google".
	Name() string
	// AuthCodeURL builds the provider's consent page URL carrying the
	// anti-CSRF state value.
	AuthCodeURL(state string) string
	// FetchProfile exchanges the callback code and fetches the user's
	// profile, normalized. Returns ErrNoEmail when the provider did not
	// assert an email address.
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

// splitName breaks a display name into given and family parts the way
// providers without structured names (GitHub) are normalized.
func splitName(displayName string) (given, family string) {
	parts := strings.Fields(displayName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
