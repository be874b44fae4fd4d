package config

type Config interface {
	EnvConfig
	AuthConfig
	DiscordConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Auth
	Discord
	Store
}

func New() Config {
	return mainConfig{}
}
