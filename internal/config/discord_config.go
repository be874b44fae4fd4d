package config

type DiscordConfig interface {
	GetDiscordClientID() string
	GetDiscordClientSecret() string
	GetDiscordAPIBaseURL() string
	GetBotPermissions() string
}

type Discord struct{}

var _ DiscordConfig = Discord{}

func (Discord) GetDiscordClientID() string {
	return GetEnv("DISCORD_CLIENT_ID", "")
}

func (Discord) GetDiscordClientSecret() string {
	return GetEnv("DISCORD_CLIENT_SECRET", "")
}

func (Discord) GetDiscordAPIBaseURL() string {
	return GetEnv("DISCORD_API_BASE_URL", "https://discord.com/api")
}

// GetBotPermissions returns the permission bitmask requested when the bot
// is installed into a guild.
func (Discord) GetBotPermissions() string {
	return GetEnv("DISCORD_BOT_PERMISSIONS", "8")
}
