package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Authenticator turns a provider token into a first-party access token.
// It holds only its collaborators and is safe for concurrent use.
type Authenticator struct {
	provider   ProviderClient
	accounts   AccountStore
	tokens     TokenIssuer
	expiration time.Duration
}

// AuthenticatorOption configures Authenticator behavior.
type AuthenticatorOption func(*Authenticator) error

// WithTokenExpiration overrides AccessTokenExpiration.
func WithTokenExpiration(d time.Duration) AuthenticatorOption {
	return func(a *Authenticator) error {
		if d < time.Second {
			return ErrInvalidExpiration
		}
		a.expiration = d
		return nil
	}
}

// NewAuthenticator constructs an Authenticator from its collaborators.
func NewAuthenticator(provider ProviderClient, accounts AccountStore, tokens TokenIssuer, opts ...AuthenticatorOption) (*Authenticator, error) {
	if provider == nil || accounts == nil || tokens == nil {
		return nil, errors.New("auth: provider, accounts and tokens are required")
	}
	a := &Authenticator{
		provider:   provider,
		accounts:   accounts,
		tokens:     tokens,
		expiration: AccessTokenExpiration,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Perform runs one authentication attempt. It returns AuthenticationError
// when the provider does not vouch for token; any other collaborator failure
// is returned as error, unchanged.
func (a *Authenticator) Perform(ctx context.Context, token string) (Result, error) {
	profile, err := a.provider.LoadUser(ctx, token)
	if errors.Is(err, ErrProfileNotFound) || (err == nil && profile == nil) {
		return AuthenticationError{}, nil
	}
	if err != nil {
		return nil, err
	}

	accountID, err := a.reconcile(ctx, profile)
	if err != nil {
		return nil, err
	}

	signed, err := a.tokens.Generate(ctx, accountID, a.expiration)
	if err != nil {
		return nil, err
	}
	return AccessToken{Value: signed}, nil
}

// reconcile upserts the account by email and returns its identifier.
func (a *Authenticator) reconcile(ctx context.Context, profile *ProviderProfile) (string, error) {
	existing, err := a.accounts.Load(ctx, profile.Email)
	switch {
	case errors.Is(err, ErrNotFound) || (err == nil && existing == nil):
		id, err := a.accounts.CreateFromProvider(ctx, CreateAccountParams{
			Email:      profile.Email,
			Name:       profile.Name,
			ProviderID: profile.ProviderID,
		})
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(id) == "" {
			return "", ErrMissingAccountID
		}
		return id, nil
	case err != nil:
		return "", err
	}

	if strings.TrimSpace(existing.ID) == "" {
		return "", ErrMissingAccountID
	}
	if err := a.accounts.UpdateWithProvider(ctx, UpdateAccountParams{
		ID:         existing.ID,
		Name:       profile.Name,
		ProviderID: profile.ProviderID,
	}); err != nil {
		return "", err
	}
	return existing.ID, nil
}
