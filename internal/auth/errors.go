package auth

import "errors"

var (
	// ErrNotFound is returned by stores when no account matches the lookup.
	ErrNotFound = errors.New("auth: not found")
	// ErrProfileNotFound is returned by provider clients when the provider
	// does not vouch for the supplied token.
	ErrProfileNotFound = errors.New("auth: provider profile not found")
	// ErrMissingAccountID signals that reconciliation finished without an
	// identifier to key the access token with.
	ErrMissingAccountID = errors.New("auth: account id missing after reconciliation")

	ErrInvalidToken      = errors.New("auth: invalid token")
	ErrEmptyTokenKey     = errors.New("auth: token carries no key")
	ErrInvalidExpiration = errors.New("auth: expiration must be at least one second")
	ErrMissingSecret     = errors.New("auth: token secret is not configured")
)
