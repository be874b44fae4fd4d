package installationrepofake_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guilddash/guilddash/installations"
	installationrepofake "github.com/guilddash/guilddash/installations/repofake"
)

func TestUpsertInsertsThenUpdatesInPlace(t *testing.T) {
	repo := installationrepofake.NewFakeInstallationRepo()
	ctx := context.Background()

	first := &installations.Installation{
		GuildID:       "guild-1",
		BotToken:      "token-a",
		GuildName:     "First Name",
		DiscordUserID: "user-a",
		InstalledAt:   time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))
	require.Equal(t, 1, repo.Len())

	second := &installations.Installation{
		GuildID:       "guild-1",
		BotToken:      "token-b",
		GuildName:     "Second Name",
		DiscordUserID: "user-b",
		InstalledAt:   time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	// Row count stable across repeated installs for the same guild.
	require.Equal(t, 1, repo.Len())

	stored, err := repo.Get(ctx, "guild-1")
	require.NoError(t, err)
	require.Equal(t, "token-b", stored.BotToken)
	require.Equal(t, "Second Name", stored.GuildName)
	require.Equal(t, "user-b", stored.DiscordUserID)
}

func TestConcurrentUpsertsLeaveOneCoherentRow(t *testing.T) {
	repo := installationrepofake.NewFakeInstallationRepo()
	ctx := context.Background()

	payloads := []*installations.Installation{
		{GuildID: "guild-1", BotToken: "token-a", GuildName: "Name A", DiscordUserID: "user-a"},
		{GuildID: "guild-1", BotToken: "token-b", GuildName: "Name B", DiscordUserID: "user-b"},
	}

	errs := make(chan error, len(payloads))
	var wg sync.WaitGroup
	for _, payload := range payloads {
		wg.Add(1)
		go func(inst *installations.Installation) {
			defer wg.Done()
			errs <- repo.Upsert(ctx, inst)
		}(payload)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, 1, repo.Len())

	stored, err := repo.Get(ctx, "guild-1")
	require.NoError(t, err)

	// The final row matches exactly one payload; fields are never
	// interleaved across the two writers.
	switch stored.BotToken {
	case "token-a":
		require.Equal(t, "Name A", stored.GuildName)
		require.Equal(t, "user-a", stored.DiscordUserID)
	case "token-b":
		require.Equal(t, "Name B", stored.GuildName)
		require.Equal(t, "user-b", stored.DiscordUserID)
	default:
		t.Fatalf("unexpected bot token %q", stored.BotToken)
	}
}

func TestGetUnknownGuildReturnsNil(t *testing.T) {
	repo := installationrepofake.NewFakeInstallationRepo()

	stored, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, stored)
}
