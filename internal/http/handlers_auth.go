package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
	"github.com/edupulse/edupulse/internal/service"
)

// loginFailedMessage is the single message every failed login returns. The
// handler never distinguishes a wrong password from an unknown identifier.
const loginFailedMessage = "Invalid credentials. Please try again."

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds profile.Credentials) (*domainauth.Session, error)
	Signup(ctx context.Context, req profile.SignupRequest) (profile.Profile, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Refresh(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Resolver     StateResolver
	NewMonitor   func(sessionID string) *service.AuthMonitor
	CookieDomain string
	SSOEnabled   bool
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the password login endpoint.
// POST /api/auth/login with {"role", "identifier", "password"}.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds profile.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}

	session, err := h.Svc.Login(r.Context(), creds)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_credentials",
			Err:     errors.New(loginFailedMessage),
		})
		return
	}

	h.setSessionCookie(w, r, *session)
	h.setRoleHintCookie(w, r, session.Role)

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"redirect_to": DashboardPathFor(session.Role),
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// Signup handles new-account registration.
// POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req profile.SignupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.Signup(r.Context(), req)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "signup_failed",
			Err:     err,
		})
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"id":    p.ID,
		"role":  p.Role,
		"name":  p.Name,
		"email": p.Email,
	})
}

// Refresh extends the current session's expiry.
// POST /api/auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	session, err := h.Svc.Refresh(r.Context(), sessionCookie.Value)
	if err != nil {
		h.clearCookie(w, r, SessionCookieName)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "session_invalid",
			Err:     errors.New("session invalid or expired"),
		})
		return
	}

	h.setSessionCookie(w, r, *session)
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"expires_at": session.ExpiresAt,
	})
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, SessionCookieName)
	h.clearCookie(w, r, RoleHintCookieName)

	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = r.URL.Query().Get("redirect_uri")
	}
	if redirectURI == "" {
		redirectURI = "/"
	}
	redirectURI = safeRedirectPath(redirectURI)

	u := url.URL{Path: SignedOutPath}
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()
	signedOutURL := u.String()

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": signedOutURL,
		})
		return
	}

	http.Redirect(w, r, signedOutURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// Redirect routes an already-signed-in user to their role's dashboard.
// GET /redirect.
//
// The decision rests on the resolved state, never on cookies: an anonymous or
// unresolvable visitor lands on the login page.
func (h *AuthHandlers) Redirect(w http.ResponseWriter, r *http.Request) {
	var session *domainauth.Session
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if s, getErr := h.Svc.GetSession(r.Context(), sessionCookie.Value); getErr == nil {
			session = s
		}
	}

	state := h.Resolver.Resolve(r.Context(), session)
	if state.Status != domainauth.StatusAuthenticated {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}

	h.setRoleHintCookie(w, r, state.Role)
	http.Redirect(w, r, DashboardPathFor(state.Role), http.StatusSeeOther)
}

// Watch streams auth-state changes for the caller's session as server-sent
// events. The first event is the current state; later events follow session
// sign-in, sign-out, and refresh. The stream ends when the client disconnects.
// GET /auth/watch.
func (h *AuthHandlers) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     errors.New("streaming unsupported"),
		})
		return
	}

	sessionID := ""
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = sessionCookie.Value
	}

	monitor := h.NewMonitor(sessionID)
	defer monitor.Stop()

	updates, cancelWatch := monitor.Watch()
	defer cancelWatch()

	if err := monitor.Start(r.Context()); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "watch_failed",
			Err:     err,
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeStateEvent(w, monitor.State())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, open := <-updates:
			if !open {
				return
			}
			writeStateEvent(w, st)
			flusher.Flush()
		}
	}
}

// SignedOut confirms sign-out and tells the frontend where to go next.
// GET /auth/signed-out?redirect_uri=<path>.
func (h *AuthHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "signed_out",
		"redirect_to": safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// SSOLogin handles the SSO login initiation endpoint.
// GET /auth/sso/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		redirectURI = "/"
	}
	redirectURI = safeRedirectPath(redirectURI)

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback handles the OAuth callback endpoint.
// GET /auth/sso/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_params",
			Err:     errors.New("code and state parameters are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_completion_failed",
			Err:     errors.New(loginFailedMessage),
		})
		return
	}

	h.setSessionCookie(w, r, *session)
	h.setRoleHintCookie(w, r, session.Role)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	redirectURI := h.getPostLoginRedirect(w, r)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// writeStateEvent emits one auth-state SSE frame.
func writeStateEvent(w http.ResponseWriter, st domainauth.State) {
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: auth_state\ndata: %s\n\n", data)
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain

	for _, c := range []struct{ name, value string }{
		{"oauth_state", p.State},
		{"oauth_nonce", p.Nonce},
		{"post_login_redirect", p.RedirectURI},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    c.value,
			Path:     "/",
			Domain:   cd,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600, // 10 minutes
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// setRoleHintCookie records the resolved role for provisional rendering. The
// cookie is readable by the frontend and is never an input to authorization.
func (h *AuthHandlers) setRoleHintCookie(w http.ResponseWriter, r *http.Request, role domainauth.Role) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     RoleHintCookieName,
		Value:    string(role),
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: false,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		candidate := redirectCookie.Value
		// Defensive re-validation: allow only relative paths
		u, parseErr := url.Parse(candidate)
		if parseErr == nil && !u.IsAbs() && u.Host == "" && strings.HasPrefix(u.Path, "/") {
			redirectURI = candidate
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}
