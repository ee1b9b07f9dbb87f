package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName is the name of the wizard session cookie
	CookieName = "builder_session"
	// DefaultCookieMaxAge is used when no session TTL is configured
	DefaultCookieMaxAge = 30 * time.Minute
)

// SetSessionCookie sets an HTTP-only session cookie
func SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = DefaultCookieMaxAge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionCookie reads the session ID from the cookie
func GetSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// getOrCreateSessionID returns the caller's session id, issuing a new cookie when
// there is none or it is not one we minted.
// The cookie lives as long as an idle wizard session.
func (s *Server) getOrCreateSessionID(w http.ResponseWriter, r *http.Request) string {
	if sid, err := GetSessionCookie(r); err == nil {
		if _, perr := uuid.Parse(sid); perr == nil {
			SetSessionCookie(w, r, sid, s.cfg.SessionTTL)
			return sid
		}
	}
	sid := uuid.NewString()
	SetSessionCookie(w, r, sid, s.cfg.SessionTTL)
	return sid
}
