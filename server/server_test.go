package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guilddash/guilddash/discord"
	installationrepofake "github.com/guilddash/guilddash/installations/repofake"
	"github.com/guilddash/guilddash/internal/autherrors"
	"github.com/guilddash/guilddash/server"
	"github.com/guilddash/guilddash/token"
	"github.com/guilddash/guilddash/token/refresh"
	refreshrepofake "github.com/guilddash/guilddash/token/refresh/repofake"
	"github.com/guilddash/guilddash/users"
	userrepofake "github.com/guilddash/guilddash/users/repofake"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
	testBaseURL       = "http://localhost:8080"
)

// testConfig satisfies config.Config without touching the environment.
type testConfig struct {
	env string
}

func (c testConfig) GetPort() string    { return ":8080" }
func (c testConfig) GetAppName() string { return "Guild Dash" }
func (c testConfig) GetBaseURL() string { return testBaseURL }
func (c testConfig) GetEnv() string {
	if c.env == "" {
		return "DEV"
	}
	return c.env
}
func (c testConfig) GetAccessTokenSecret() string         { return testAccessSecret }
func (c testConfig) GetRefreshTokenSecret() string        { return testRefreshSecret }
func (c testConfig) GetAccessTokenExpiry() time.Duration  { return token.DefaultAccessTokenExpiry }
func (c testConfig) GetRefreshTokenExpiry() time.Duration { return token.DefaultRefreshTokenExpiry }
func (c testConfig) GetProtectedPrefixes() []string       { return []string{"/dashboard"} }
func (c testConfig) GetDiscordClientID() string           { return "test-client-id" }
func (c testConfig) GetDiscordClientSecret() string       { return "test-client-secret" }
func (c testConfig) GetDiscordAPIBaseURL() string         { return "http://discord.invalid/api" }
func (c testConfig) GetBotPermissions() string            { return "8" }
func (c testConfig) GetDatabaseURL() string               { return "" }

// fakeDiscord is a canned provider client with call counters, so tests
// can assert that no network call happens on short-circuit paths.
type fakeDiscord struct {
	exchangeCalls int
	identityCalls int

	exchangeToken *discord.Token
	exchangeErr   error
	identity      *discord.Identity
	identityErr   error
}

var _ discord.API = (*fakeDiscord)(nil)

func (f *fakeDiscord) Exchange(_ context.Context, code, redirectURI string) (*discord.Token, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeToken, nil
}

func (f *fakeDiscord) Identity(_ context.Context, accessToken string) (*discord.Identity, error) {
	f.identityCalls++
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identity, nil
}

func (f *fakeDiscord) UserAuthURL(redirectURI, state string) string {
	return "http://discord.invalid/api/oauth2/authorize?state=" + state
}

func (f *fakeDiscord) BotAuthURL(redirectURI, permissions, guildID string) string {
	return "http://discord.invalid/api/oauth2/authorize?scope=bot&guild_id=" + guildID
}

type testFixture struct {
	server        *server.Server
	tokens        *token.Manager
	userRepo      *userrepofake.FakeUserRepo
	refreshRepo   *refreshrepofake.FakeRefreshTokenRepo
	installRepo   *installationrepofake.FakeInstallationRepo
	discordClient *fakeDiscord
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	tokens, err := token.New(testAccessSecret, testRefreshSecret)
	require.NoError(t, err)

	ur := userrepofake.NewFakeUserRepo()
	rr := refreshrepofake.NewFakeRefreshTokenRepo()
	ir := installationrepofake.NewFakeInstallationRepo()

	dc := &fakeDiscord{
		exchangeToken: &discord.Token{AccessToken: "provider-access-token"},
		identity: &discord.Identity{
			ID:       "123456789012345678",
			Username: "johndoe",
			Email:    "john.doe@example.com",
		},
	}

	srv, err := server.New(testConfig{}, tokens, server.Repos{
		Users:         ur,
		RefreshTokens: rr,
		Installations: ir,
	}, dc)
	require.NoError(t, err)

	return &testFixture{
		server:        srv,
		tokens:        tokens,
		userRepo:      ur,
		refreshRepo:   rr,
		installRepo:   ir,
		discordClient: dc,
	}
}

// signedInUser stores a user and a live refresh-token record, returning
// the user and the credential pair, as if the login flow had just run.
func (f *testFixture) signedInUser(t *testing.T) (*users.User, string, string) {
	t.Helper()

	user, err := f.userRepo.Upsert(context.Background(), &users.User{
		ID:        "user-1",
		Email:     "john.doe@example.com",
		DiscordID: "123456789012345678",
		Username:  "johndoe",
	})
	require.NoError(t, err)

	accessToken, refreshToken, err := f.tokens.Issue(user)
	require.NoError(t, err)

	now := time.Now()
	err = f.refreshRepo.Save(context.Background(), &refresh.StoredRefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(f.tokens.RefreshTokenExpiry()),
	})
	require.NoError(t, err)

	return user, accessToken, refreshToken
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var errProviderDown = &autherrors.ExchangeError{Description: "Invalid \"code\" in request."}
