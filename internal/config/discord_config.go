package config

type DiscordConfig interface {
	GetDiscordClientID() string
	GetDiscordClientSecret() string
	GetDiscordBotToken() string
	GetDiscordRedirectURI() string
	GetDiscordScopes() []string
	GetDiscordAPIBaseURL() string
	GetDiscordAuthURL() string
	GetDiscordTokenURL() string
}

type Discord struct{}

var _ DiscordConfig = Discord{}

// GetDiscordClientID returns the OAuth2 application client ID. Required at startup.
func (Discord) GetDiscordClientID() string {
	return GetEnv("DISCORD_CLIENT_ID", "")
}

// GetDiscordClientSecret returns the OAuth2 application client secret. Required at startup.
func (Discord) GetDiscordClientSecret() string {
	return GetEnv("DISCORD_CLIENT_SECRET", "")
}

// GetDiscordBotToken returns the bot credential used for channel and message
// operations. Required at startup. Never sent on user-scoped calls.
func (Discord) GetDiscordBotToken() string {
	return GetEnv("DISCORD_BOT_TOKEN", "")
}

func (d Discord) GetDiscordRedirectURI() string {
	return GetEnv("DISCORD_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/callback")
}

// GetDiscordScopes returns the fixed scope list: identity plus guild listing.
func (Discord) GetDiscordScopes() []string {
	return []string{"identify", "guilds"}
}

func (Discord) GetDiscordAPIBaseURL() string {
	return GetEnv("DISCORD_API_BASE_URL", "https://discord.com/api/v10")
}

func (Discord) GetDiscordAuthURL() string {
	return GetEnv("DISCORD_AUTH_URL", "https://discord.com/oauth2/authorize")
}

func (Discord) GetDiscordTokenURL() string {
	return GetEnv("DISCORD_TOKEN_URL", "https://discord.com/api/oauth2/token")
}
