package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionGate guards the configured path prefixes. Decision table:
//
//	valid access token                  -> allow
//	invalid access token                -> redirect to sign-in
//	no tokens at all                    -> redirect to sign-in
//	refresh token with a live record    -> mint access token, allow
//	refresh token without a live record -> redirect to sign-in
//
// A revoked or expired store record fails the refresh path even while
// the token's own signature is still valid; revocation wins. Every
// failure resolves to a sign-in redirect carrying the original path,
// never an error page.
func (s *Server) SessionGate(next http.HandlerFunc) http.HandlerFunc {
	prefixes := s.config.GetProtectedPrefixes()

	return func(w http.ResponseWriter, r *http.Request) {
		if !matchesPrefix(r.URL.Path, prefixes) {
			next(w, r)
			return
		}

		if accessToken := cookieValue(r, accessTokenCookie); accessToken != "" {
			if _, err := s.tokens.VerifyAccess(accessToken); err == nil {
				next(w, r)
				return
			}
			s.redirectToSignIn(w, r)
			return
		}

		refreshToken := cookieValue(r, refreshTokenCookie)
		if refreshToken == "" {
			s.redirectToSignIn(w, r)
			return
		}

		claims, err := s.tokens.VerifyRefresh(refreshToken)
		if err != nil {
			s.redirectToSignIn(w, r)
			return
		}

		record, err := s.repos.RefreshTokens.Get(r.Context(), refreshToken)
		if err != nil {
			log.Err(err).Msg("refresh record lookup failed")
			s.redirectToSignIn(w, r)
			return
		}
		if record == nil || record.ExpiresAt.Before(time.Now()) {
			s.redirectToSignIn(w, r)
			return
		}

		user, err := s.repos.Users.Get(r.Context(), claims.Subject)
		if err != nil || user == nil {
			s.redirectToSignIn(w, r)
			return
		}

		accessToken, err := s.tokens.IssueAccess(user)
		if err != nil {
			log.Err(err).Msg("access token mint failed")
			s.redirectToSignIn(w, r)
			return
		}

		s.setAccessCookie(w, accessToken)
		next(w, r)
	}
}

func (s *Server) redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteSignIn+"?redirect="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
