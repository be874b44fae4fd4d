package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guilddash/guilddash/discord"
	"github.com/guilddash/guilddash/server"
)

func TestAddBotRedirectsToProvider(t *testing.T) {
	f := setupTestFixture(t)

	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		server.RouteAddBot+"?guild_id=guild-42", nil))

	resp := w.Result()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	location, err := resp.Location()
	require.NoError(t, err)
	require.Equal(t, "discord.invalid", location.Host)
	require.Equal(t, "guild-42", location.Query().Get("guild_id"))
}

func TestBotCallbackMissingParametersSkipsProvider(t *testing.T) {
	f := setupTestFixture(t)

	for _, target := range []string{
		server.RouteBotCallback,
		server.RouteBotCallback + "?code=auth-code",
		server.RouteBotCallback + "?guild_id=guild-42",
	} {
		w := httptest.NewRecorder()
		f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		requireErrorPageRedirect(t, w.Result())
	}

	require.Zero(t, f.discordClient.exchangeCalls)
	require.Zero(t, f.installRepo.Len())
}

func TestBotCallbackPersistsInstallation(t *testing.T) {
	f := setupTestFixture(t)
	f.discordClient.exchangeToken = &discord.Token{
		AccessToken: "bot-access-token",
		Guild:       &discord.Guild{ID: "guild-42", Name: "Test Guild", Icon: "abc123"},
	}

	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		server.RouteBotCallback+"?code=auth-code&guild_id=guild-42", nil))

	resp := w.Result()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	location, err := resp.Location()
	require.NoError(t, err)
	require.Equal(t, server.RouteDashboard, location.Path)
	require.Equal(t, "bot_installed", location.Query().Get("message"))

	installation, err := f.installRepo.Get(context.Background(), "guild-42")
	require.NoError(t, err)
	require.NotNil(t, installation)
	require.Equal(t, "bot-access-token", installation.BotToken)
	require.Equal(t, "Test Guild", installation.GuildName)
	require.Equal(t, "abc123", installation.GuildIcon)
	require.Equal(t, "123456789012345678", installation.DiscordUserID)
	require.False(t, installation.InstalledAt.IsZero())

	require.Empty(t, resp.Cookies(), "installing a bot never touches session cookies")
}

func TestBotCallbackWithoutGuildExtraStillPersists(t *testing.T) {
	f := setupTestFixture(t)

	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		server.RouteBotCallback+"?code=auth-code&guild_id=guild-42", nil))

	require.Equal(t, http.StatusSeeOther, w.Result().StatusCode)

	installation, err := f.installRepo.Get(context.Background(), "guild-42")
	require.NoError(t, err)
	require.NotNil(t, installation)
	require.Empty(t, installation.GuildName)
}

func TestBotCallbackExchangeFailureLeavesNoRecord(t *testing.T) {
	f := setupTestFixture(t)
	f.discordClient.exchangeErr = errProviderDown

	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		server.RouteBotCallback+"?code=expired-code&guild_id=guild-42", nil))

	requireErrorPageRedirect(t, w.Result())
	require.Zero(t, f.installRepo.Len())
}

func TestBotCallbackReinstallReplacesRecord(t *testing.T) {
	f := setupTestFixture(t)
	f.discordClient.exchangeToken = &discord.Token{
		AccessToken: "first-token",
		Guild:       &discord.Guild{ID: "guild-42", Name: "Old Name"},
	}

	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		server.RouteBotCallback+"?code=code-1&guild_id=guild-42", nil))
	require.Equal(t, http.StatusSeeOther, w.Result().StatusCode)

	f.discordClient.exchangeToken = &discord.Token{
		AccessToken: "second-token",
		Guild:       &discord.Guild{ID: "guild-42", Name: "New Name"},
	}

	w = httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		server.RouteBotCallback+"?code=code-2&guild_id=guild-42", nil))
	require.Equal(t, http.StatusSeeOther, w.Result().StatusCode)

	require.Equal(t, 1, f.installRepo.Len(), "reinstalling keeps a single row per guild")

	installation, err := f.installRepo.Get(context.Background(), "guild-42")
	require.NoError(t, err)
	require.Equal(t, "second-token", installation.BotToken)
	require.Equal(t, "New Name", installation.GuildName)
}
