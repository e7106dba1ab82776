package oauth

import "errors"

// ErrNoEmail is returned when a provider assertion does not include an
// email address. Email is the cross-provider linking key, so this is a
// provider misconfiguration rather than a user error.
var ErrNoEmail = errors.New("provider profile did not include an email")
