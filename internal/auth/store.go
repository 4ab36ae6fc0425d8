package auth

import (
	"context"
	"time"
)

// ProviderClient resolves a provider token into the provider's user profile.
// Implementations return ErrProfileNotFound when the provider rejects the token.
type ProviderClient interface {
	LoadUser(ctx context.Context, token string) (*ProviderProfile, error)
}

// AccountStore describes persistence operations required by the login flow.
type AccountStore interface {
	// Load returns ErrNotFound when no account has the given email.
	Load(ctx context.Context, email string) (*Account, error)
	CreateFromProvider(ctx context.Context, params CreateAccountParams) (string, error)
	UpdateWithProvider(ctx context.Context, params UpdateAccountParams) error
}

// TokenIssuer signs and verifies first-party tokens carrying an opaque key.
type TokenIssuer interface {
	Generate(ctx context.Context, key string, expiration time.Duration) (string, error)
	Verify(ctx context.Context, token string) (string, error)
}
