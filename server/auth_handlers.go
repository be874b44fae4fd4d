package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guilddash/guilddash/internal/autherrors"
	"github.com/guilddash/guilddash/token"
	"github.com/guilddash/guilddash/token/refresh"
	"github.com/guilddash/guilddash/users"
)

const contentTypeJSON = "application/json; charset=utf-8"

// signInState is round-tripped through the provider's state parameter
// so the callback knows where to land the user afterwards.
type signInState struct {
	RedirectTo string `json:"redirect_to"`
}

// SignInHandler starts the user login flow: it builds the provider's
// authorization URL and performs a full-page redirect. No token
// handling happens before the callback.
func (s *Server) SignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("redirect")
		if !isSafeRedirect(target) {
			target = RouteDashboard
		}

		state, err := json.Marshal(signInState{RedirectTo: target})
		if err != nil {
			redirectWithError(w, r, "Could not start sign-in")
			return
		}

		http.Redirect(w, r, s.discord.UserAuthURL(s.callbackURL(), string(state)), http.StatusSeeOther)
	}
}

// CallbackHandler is the user-login flow controller. Terminal on any
// error: every failure redirects to the generic error page and nothing
// partial is left behind except an already-used authorization code.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := r.URL.Query().Get("code")
		if code == "" {
			// Contract: no provider call is made without a code.
			log.Warn().Str("route", RouteCallback).Err(autherrors.ErrMissingParameter).Msg("callback without code")
			redirectWithError(w, r, "Missing authorization code")
			return
		}

		providerToken, err := s.discord.Exchange(ctx, code, s.callbackURL())
		if err != nil {
			log.Err(err).Msg("token exchange failed")
			redirectWithError(w, r, exchangeErrorMessage(err))
			return
		}

		identity, err := s.discord.Identity(ctx, providerToken.AccessToken)
		if err != nil {
			log.Err(err).Msg("identity fetch failed")
			redirectWithError(w, r, "Could not load your Discord profile")
			return
		}

		user, err := s.repos.Users.Upsert(ctx, &users.User{
			ID:        uuid.New().String(),
			Email:     identity.Email,
			DiscordID: identity.ID,
			Username:  identity.Username,
			AvatarURL: identity.AvatarURL(),
		})
		if err != nil {
			log.Err(err).Msg("user upsert failed")
			redirectWithError(w, r, "Could not save your account")
			return
		}

		accessToken, refreshToken, err := s.tokens.Issue(user)
		if err != nil {
			log.Err(err).Msg("token issue failed")
			redirectWithError(w, r, "Could not create your session")
			return
		}

		now := time.Now()
		err = s.repos.RefreshTokens.Save(ctx, &refresh.StoredRefreshToken{
			Token:     refreshToken,
			UserID:    user.ID,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.tokens.RefreshTokenExpiry()),
		})
		if err != nil {
			log.Err(err).Msg("refresh token save failed")
			redirectWithError(w, r, "Could not create your session")
			return
		}

		s.setSessionCookies(w, accessToken, refreshToken)
		http.Redirect(w, r, redirectTargetFromState(r.URL.Query().Get("state")), http.StatusSeeOther)
	}
}

// SessionHandler is the session-introspection endpoint: 200 with the
// access token's claims, or 401 with a null user. It never errors to
// the client.
func (s *Server) SessionHandler() http.HandlerFunc {
	type sessionResponse struct {
		User *token.Claims `json:"user"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)

		accessToken := cookieValue(r, accessTokenCookie)
		if accessToken == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(sessionResponse{})
			return
		}

		claims, err := s.tokens.VerifyAccess(accessToken)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(sessionResponse{})
			return
		}

		_ = json.NewEncoder(w).Encode(sessionResponse{User: claims})
	}
}

// SignOutHandler revokes the refresh-token record and clears both
// cookies. Revoking an already-revoked token is not an error.
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if refreshToken := cookieValue(r, refreshTokenCookie); refreshToken != "" {
			if err := s.repos.RefreshTokens.Delete(r.Context(), refreshToken); err != nil {
				// The cookies are cleared regardless; the record expires on its own.
				log.Err(err).Msg("refresh token revoke failed")
			}
		}

		s.clearSessionCookies(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func exchangeErrorMessage(err error) string {
	var exchangeErr *autherrors.ExchangeError
	if errors.As(err, &exchangeErr) && exchangeErr.Description != "" {
		return "Discord sign-in failed: " + exchangeErr.Description
	}
	return "Discord sign-in failed"
}

func redirectTargetFromState(rawState string) string {
	if rawState == "" {
		return RouteDashboard
	}

	var state signInState
	if err := json.Unmarshal([]byte(rawState), &state); err != nil {
		return RouteDashboard
	}
	if !isSafeRedirect(state.RedirectTo) {
		return RouteDashboard
	}
	return state.RedirectTo
}
