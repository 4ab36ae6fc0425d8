package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"fbauth.dev/internal/audit"
	"fbauth.dev/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

type accountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		unauthorized(w, r, err.Error())
		return
	}

	ctx := r.Context()
	accountID, err := a.verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			unauthorized(w, r, "invalid token")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}

	ctx = audit.WithAccountID(ctx, accountID)
	acc, err := a.accounts.Find(ctx, accountID)
	switch {
	case errors.Is(err, auth.ErrNotFound):
		_ = audit.LogEvent(ctx, "auth.account.missing", nil)
		unauthorized(w, r, "invalid token")
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, (&ServerError{Err: err}).Error())
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		ID:    acc.ID,
		Name:  acc.Name,
		Email: acc.Email,
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="fbauth"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
