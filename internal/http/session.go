package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Justin322322/Ecotracker/internal/domain"
)

const (
	// SessionCookieName is the sole authentication token of the system.
	SessionCookieName = "session"

	// legacyTokenCookie predates the session cookie; logout still clears it.
	legacyTokenCookie = "auth-token"

	sessionMaxAge = 7 * 24 * time.Hour
)

var errInvalidSession = errors.New("invalid session cookie")

// newSessionCookie serializes the identity blob into the session cookie.
// The value is URL-escaped JSON: raw JSON is not a valid RFC 6265
// cookie-value and browsers percent-encode it the same way.
func newSessionCookie(s domain.Session, secure bool) (*http.Cookie, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// expireCookie clears a cookie by writing an empty value with epoch expiry.
func expireCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// decodeSessionValue parses a cookie value back into a Session. The blob is
// unsigned and trusted at face value; the only structural requirement is a
// positive id field.
func decodeSessionValue(raw string) (domain.Session, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Session{}, errInvalidSession
	}
	unescaped, err := url.QueryUnescape(trimmed)
	if err != nil {
		unescaped = trimmed
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(unescaped), &s); err != nil {
		return domain.Session{}, errInvalidSession
	}
	if s.ID <= 0 {
		return domain.Session{}, errInvalidSession
	}
	return s, nil
}

// sessionFromRequest reads and decodes the session cookie.
func sessionFromRequest(req *http.Request) (domain.Session, error) {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil {
		return domain.Session{}, errInvalidSession
	}
	return decodeSessionValue(cookie.Value)
}

// requireSessionPage gates browser-facing paths. An absent, blank or
// malformed cookie redirects to the public root. No signature check is
// performed: a client can forge a session by setting any JSON value with
// an id field. That weakness is carried over deliberately from the
// deployed behavior; harden here only together with the cookie issuer.
func (r *Router) requireSessionPage(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if _, err := sessionFromRequest(req); err != nil {
			http.Redirect(w, req, "/", http.StatusTemporaryRedirect)
			return
		}
		next(w, req)
	}
}

// requireSessionAPI gates API paths with a JSON 401 instead of a redirect.
func (r *Router) requireSessionAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if _, err := sessionFromRequest(req); err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, req)
	}
}
