package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	nodeEnvVar     = "NODE_ENV"
	appURLVar      = "APP_URL"
	apiURLVar      = "API_URL"
	databaseURLVar = "DATABASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Queue Session Service")
}

// GetNodeEnv returns the deployment environment. Cookie security attributes
// branch on this value being exactly "production".
func (EnvVars) GetNodeEnv() string {
	return GetEnv(nodeEnvVar, "development")
}

// GetAppURL returns the public base URL of the application, used as the
// redirect target for the IdP login and logout flows.
func (EnvVars) GetAppURL() string {
	return GetEnv(appURLVar, "http://localhost:3000")
}

func (e EnvVars) GetAPIURL() string {
	return GetEnv(apiURLVar, e.GetAppURL())
}

func (EnvVars) GetDatabaseURL() string {
	return GetEnv(databaseURLVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
