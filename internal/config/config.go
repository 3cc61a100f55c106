package config

type Config interface {
	EnvConfig
	AuthConfig
	StorageConfig
}

type mainConfig struct {
	EnvVars
	Auth
	Storage
}

func New() Config {
	return mainConfig{}
}
