package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	baseURLVar     = "BASE_URL"
	envVar         = "ENV"
	devLoginEnvVar = "DEV_LOGIN"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Subjects Console")
}

// GetBaseURL returns the externally visible URL of the console (e.g., "https://console.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return strings.ToUpper(env)
}

func (e EnvVars) IsDevelopment() bool {
	switch e.GetEnv() {
	case "DEV", "DEVELOPMENT", "LOCAL":
		return true
	}
	return false
}

func (e EnvVars) IsProduction() bool {
	switch e.GetEnv() {
	case "PROD", "PRODUCTION":
		return true
	}
	return false
}

// GetDevLogin enables the built-in demo account. It is ignored outside development.
func (e EnvVars) GetDevLogin() bool {
	return e.IsDevelopment() && GetEnvBool(devLoginEnvVar, false)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// GetEnvList splits a comma separated variable, dropping empty items.
func GetEnvList(envVar string, defaultValue []string) []string {
	raw := os.Getenv(envVar)
	if raw == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}
