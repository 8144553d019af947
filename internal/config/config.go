package config

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	RouteConfig
	BackendConfig
	StorageConfig
	ProviderConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	IsDevelopment() bool
	IsProduction() bool
	GetDevLogin() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	*Session
	Routes
	Backend
	Storage
	Provider
}

// New reads the process environment. Values that must stay stable for the
// lifetime of the process (the development signing secret) are resolved here.
func New() Config {
	return mainConfig{
		Session: newSession(),
	}
}
