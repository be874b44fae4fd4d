package server

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	// accessTokenCookie holds the short-lived stateless credential.
	accessTokenCookie = "access_token"
	// refreshTokenCookie holds the long-lived credential whose record
	// lives server-side.
	refreshTokenCookie = "refresh_token"
)

func (s *Server) setSessionCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	s.setAccessCookie(w, accessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokens.RefreshTokenExpiry().Seconds()),
	})
}

func (s *Server) setAccessCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokens.AccessTokenExpiry().Seconds()),
	})
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secureCookies(),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func (s *Server) secureCookies() bool {
	return strings.EqualFold(s.env, "production")
}

// cookieValue returns the named cookie's value, or "" when absent.
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// redirectWithError sends the browser to the generic error page with a
// short human-readable reason. Raw provider and database errors stay in
// the server log.
func redirectWithError(w http.ResponseWriter, r *http.Request, errorMsg string) {
	http.Redirect(w, r, RouteAuthError+"?error="+url.QueryEscape(errorMsg), http.StatusSeeOther)
}

// isSafeRedirect accepts only relative in-app paths, so the redirect
// target carried through sign-in can never become an open redirect.
func isSafeRedirect(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
}
