package discord

import "golang.org/x/oauth2"

// UserAuthURL builds the sign-in authorization URL (identify/email
// scopes). The state value is round-tripped back to the callback.
func (c *Client) UserAuthURL(redirectURI, state string) string {
	return c.oauthConfig(redirectURI, userScopes).AuthCodeURL(state)
}

// BotAuthURL builds the install-to-guild authorization URL with the
// bot scope set and permission bitmask. guildID preselects the target
// guild in the provider's consent screen when known.
func (c *Client) BotAuthURL(redirectURI, permissions, guildID string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("permissions", permissions),
	}
	if guildID != "" {
		opts = append(opts, oauth2.SetAuthURLParam("guild_id", guildID))
	}
	return c.oauthConfig(redirectURI, botScopes).AuthCodeURL("", opts...)
}
