package auth

import "time"

// AccessTokenExpiration is the lifetime of tokens issued by a successful login.
const AccessTokenExpiration = 30 * time.Minute

// ProviderProfile is the identity the provider returns for a valid token.
type ProviderProfile struct {
	Name       string
	Email      string
	ProviderID string
}

// Account is the durable record of a user, keyed by email.
type Account struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email"`
	ProviderID string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateAccountParams links a new account to its provider identity.
type CreateAccountParams struct {
	Email      string
	Name       string
	ProviderID string
}

// UpdateAccountParams refreshes the provider link of an existing account.
type UpdateAccountParams struct {
	ID         string
	Name       string
	ProviderID string
}

// Result is the outcome of an authentication attempt. It is either an
// AccessToken or an AuthenticationError.
type Result interface {
	isResult()
}

// AccessToken wraps a signed first-party token.
type AccessToken struct {
	Value string
}

func (AccessToken) isResult() {}

// AuthenticationError reports that the provider token did not resolve to an identity.
type AuthenticationError struct{}

func (AuthenticationError) isResult() {}
