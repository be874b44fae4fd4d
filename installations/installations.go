// Package installations records which guilds have the bot attached.
// At most one record exists per guild id; a repeat install overwrites
// the previous record rather than duplicating it.
package installations

import "time"

type Installation struct {
	GuildID       string // Unique key
	BotToken      string // Integration token from the install exchange
	GuildName     string
	GuildIcon     string
	DiscordUserID string // Installing user's provider id
	InstalledAt   time.Time
}
