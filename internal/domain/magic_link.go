package domain

import "time"

// MagicLink is a single-use, time-limited login token emailed to a user.
// A link is redeemable iff the current time is before ExpiresAt and
// UsedAt is nil; redemption sets UsedAt exactly once.
type MagicLink struct {
	ID        int64      `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Token     string     `json:"-" db:"token"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Redeemable reports whether the link can still be used at the given time.
func (m *MagicLink) Redeemable(now time.Time) bool {
	return m.UsedAt == nil && now.Before(m.ExpiresAt)
}
