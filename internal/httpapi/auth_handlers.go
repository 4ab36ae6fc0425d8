package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"fbauth.dev/internal/audit"
	"fbauth.dev/internal/auth"
	"fbauth.dev/internal/obs"
	"fbauth.dev/internal/validation"
)

type facebookLoginRequest struct {
	Token string `json:"token"`
}

type facebookLoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// ServerError is the 500 response cause. It keeps the message of the
// underlying error.
type ServerError struct {
	Err error
}

func (e *ServerError) Error() string {
	if e.Err == nil {
		return "server failed"
	}
	return "server failed: " + e.Err.Error()
}

func (e *ServerError) Unwrap() error { return e.Err }

func (a *API) handleFacebookLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req facebookLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		obs.ObserveLogin(obs.LoginInvalid)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.Compose(
		validation.RequiredStringValidator{Value: req.Token, Field: "token"},
	); err != nil {
		obs.ObserveLogin(obs.LoginInvalid)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	res, err := a.login.Perform(ctx, req.Token)
	if err != nil {
		serr := &ServerError{Err: err}
		obs.ObserveLogin(obs.LoginFailed)
		obs.Logger().Error("facebook login failed",
			zap.String("request_id", audit.RequestIDFromContext(ctx)),
			zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, serr.Error())
		return
	}

	switch res := res.(type) {
	case auth.AccessToken:
		obs.ObserveLogin(obs.LoginSucceeded)
		_ = audit.LogEvent(ctx, "auth.login.succeeded", map[string]any{"provider": "facebook"})
		writeJSON(w, http.StatusOK, facebookLoginResponse{AccessToken: res.Value})
	case auth.AuthenticationError:
		obs.ObserveLogin(obs.LoginRejected)
		_ = audit.LogEvent(ctx, "auth.login.rejected", map[string]any{"provider": "facebook"})
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
	default:
		serr := &ServerError{}
		obs.ObserveLogin(obs.LoginFailed)
		writeError(w, r, http.StatusInternalServerError, serr.Error())
	}
}
