// Package facebook resolves Facebook user tokens into provider profiles
// through the Graph API.
package facebook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"fbauth.dev/internal/auth"
)

const (
	DefaultGraphURL = "https://graph.facebook.com"
	defaultTimeout  = 10 * time.Second
)

var _ auth.ProviderClient = (*Client)(nil)

// Client loads user profiles from the Graph API.
type Client struct {
	graphURL   string
	appID      string
	appSecret  string
	httpClient *http.Client
	app        *clientcredentials.Config
}

// Option configures Client.
type Option func(*Client)

// WithGraphURL overrides the Graph API base URL.
func WithGraphURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.graphURL = u
		}
	}
}

// WithAppCredentials enables debug_token checks so that only tokens issued
// to this app are accepted.
func WithAppCredentials(appID, appSecret string) Option {
	return func(c *Client) {
		c.appID = strings.TrimSpace(appID)
		c.appSecret = strings.TrimSpace(appSecret)
	}
}

// WithHTTPClient sets the transport used for every Graph call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		graphURL:   DefaultGraphURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.appID != "" && c.appSecret != "" {
		c.app = &clientcredentials.Config{
			ClientID:     c.appID,
			ClientSecret: c.appSecret,
			TokenURL:     c.graphURL + "/oauth/access_token",
			AuthStyle:    oauth2.AuthStyleInParams,
		}
	}
	return c
}

type graphUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type debugTokenResponse struct {
	Data struct {
		AppID   string `json:"app_id"`
		UserID  string `json:"user_id"`
		IsValid bool   `json:"is_valid"`
	} `json:"data"`
}

// LoadUser returns auth.ErrProfileNotFound when Facebook rejects token
// (OAuth error 190 or 102) or the profile lacks an email. Throttling, other
// 4xx and 5xx responses and transport failures are operational errors.
func (c *Client) LoadUser(ctx context.Context, token string) (*auth.ProviderProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	if c.app != nil {
		if err := c.checkAppToken(ctx, token); err != nil {
			return nil, err
		}
	}

	q := url.Values{"fields": {"id,name,email"}}
	if c.appSecret != "" {
		q.Set("appsecret_proof", appSecretProof(c.appSecret, token))
	}
	userClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	var user graphUser
	if err := getJSON(ctx, userClient, c.graphURL+"/me?"+q.Encode(), &user); err != nil {
		return nil, err
	}
	if user.ID == "" || user.Email == "" {
		return nil, fmt.Errorf("facebook: profile without id or email: %w", auth.ErrProfileNotFound)
	}
	return &auth.ProviderProfile{
		Name:       user.Name,
		Email:      user.Email,
		ProviderID: user.ID,
	}, nil
}

func (c *Client) checkAppToken(ctx context.Context, token string) error {
	q := url.Values{"input_token": {token}}
	var resp debugTokenResponse
	if err := getJSON(ctx, c.app.Client(ctx), c.graphURL+"/debug_token?"+q.Encode(), &resp); err != nil {
		return err
	}
	if !resp.Data.IsValid {
		return fmt.Errorf("facebook: token is not valid: %w", auth.ErrProfileNotFound)
	}
	if resp.Data.AppID != c.appID {
		return fmt.Errorf("facebook: token issued to app %q: %w", resp.Data.AppID, auth.ErrProfileNotFound)
	}
	return nil
}

// Graph error codes meaning the user token itself is unusable.
const (
	codeAPISession  = 102
	codeAccessToken = 190
)

type graphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
		Subcode int    `json:"error_subcode"`
	} `json:"error"`
}

// tokenRejected reports whether a failed Graph call means the provider does
// not vouch for the user token, as opposed to throttling or misconfiguration.
func tokenRejected(status int, ge graphErrorResponse) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
	default:
		return false
	}
	return ge.Error.Code == codeAccessToken || ge.Error.Code == codeAPISession
}

func getJSON(ctx context.Context, hc *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("facebook: request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ge graphErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&ge)
		if tokenRejected(resp.StatusCode, ge) {
			return fmt.Errorf("facebook: %s %s (code %d): %w", req.URL.Path, resp.Status, ge.Error.Code, auth.ErrProfileNotFound)
		}
		return fmt.Errorf("facebook: %s unexpected status %s (code %d): %s", req.URL.Path, resp.Status, ge.Error.Code, ge.Error.Message)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("facebook: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// appSecretProof signs token with the app secret as the Graph API expects.
func appSecretProof(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

