package config

import "time"

type BackendConfig interface {
	GetBackendURL() string
	GetBackendTimeout() time.Duration
}

type Backend struct{}

var _ BackendConfig = Backend{}

func (Backend) GetBackendURL() string {
	return GetEnv("BACKEND_URL", "http://localhost:8000")
}

// GetBackendTimeout bounds every outbound backend call so a hung request cannot hang a page.
func (Backend) GetBackendTimeout() time.Duration {
	return GetEnvDuration("BACKEND_TIMEOUT", 30*time.Second)
}
