package config

type Config interface {
	EnvConfig
	SSOConfig
	CookieConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetNodeEnv() string
	GetAppURL() string
	GetAPIURL() string
	GetDatabaseURL() string
}

type SSOConfig interface {
	GetSSOClientID() string
	GetSSOClientSecret() string
	GetSSOEnvironment() string
	GetSSORealm() string
	GetSSOProtocol() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	SSO
	Cookies
	Cors
}

func New() Config {
	return mainConfig{}
}
