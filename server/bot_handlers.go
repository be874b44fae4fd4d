package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guilddash/guilddash/installations"
	"github.com/guilddash/guilddash/internal/autherrors"
)

// AddBotHandler starts the install-to-guild flow with a full-page
// redirect to the provider's bot authorization screen. Independent of
// the caller's own login state.
func (s *Server) AddBotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.URL.Query().Get("guild_id")
		authURL := s.discord.BotAuthURL(s.botCallbackURL(), s.config.GetBotPermissions(), guildID)
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	}
}

// BotCallbackHandler is the installation flow controller: exchange the
// code, fetch the installing user's identity, and upsert the guild's
// installation record in one transaction. No session cookies are
// touched on this path.
func (s *Server) BotCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := r.URL.Query().Get("code")
		guildID := r.URL.Query().Get("guild_id")
		if code == "" || guildID == "" {
			log.Warn().Str("route", RouteBotCallback).Err(autherrors.ErrMissingParameter).Msg("bot callback missing parameters")
			redirectWithError(w, r, "Missing required parameters")
			return
		}

		providerToken, err := s.discord.Exchange(ctx, code, s.botCallbackURL())
		if err != nil {
			log.Err(err).Str("guild_id", guildID).Msg("bot token exchange failed")
			redirectWithError(w, r, exchangeErrorMessage(err))
			return
		}

		identity, err := s.discord.Identity(ctx, providerToken.AccessToken)
		if err != nil {
			log.Err(err).Str("guild_id", guildID).Msg("bot identity fetch failed")
			redirectWithError(w, r, "Could not load Discord user data")
			return
		}

		installation := &installations.Installation{
			GuildID:       guildID,
			BotToken:      providerToken.AccessToken,
			DiscordUserID: identity.ID,
			InstalledAt:   time.Now(),
		}
		if providerToken.Guild != nil {
			installation.GuildName = providerToken.Guild.Name
			installation.GuildIcon = providerToken.Guild.Icon
		}

		// The transaction must resolve to commit or rollback even if the
		// browser goes away mid-flight.
		if err := s.repos.Installations.Upsert(context.WithoutCancel(ctx), installation); err != nil {
			log.Err(err).Str("guild_id", guildID).Msg("installation upsert failed")
			redirectWithError(w, r, "Could not record the installation")
			return
		}

		http.Redirect(w, r, RouteDashboard+"?message=bot_installed", http.StatusSeeOther)
	}
}
