package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie holding the session token for
// browser clients. Its value takes precedence over the Authorization
// header during credential validation.
const SessionCookieName = "sessionId"

// SetSessionCookie attaches the session token as an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, isProduction bool, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionTokenFromCookie reads the session token from the request cookie.
func GetSessionTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
