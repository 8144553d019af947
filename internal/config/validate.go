package config

import (
	"net/url"
	"strings"

	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
)

// Validate fails closed on configuration that would leave the console insecure
// or undecidable. It is called once at startup.
func Validate(c Config) error {
	if _, fromEnv := c.GetSessionSecret(); !fromEnv && !c.IsDevelopment() {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "%s must be set when ENV=%s", sessionSecretEnvVar, c.GetEnv())
	}

	if shared := c.GetProtectedRoutes().Intersect(c.GetAuthOnlyRoutes()); len(shared) > 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "routes both protected and auth-only: %s", strings.Join(shared, ", "))
	}

	if u, err := url.Parse(c.GetBackendURL()); err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "BACKEND_URL %q is not an absolute URL", c.GetBackendURL())
	}

	switch c.GetClientStore() {
	case ClientStoreMemory, ClientStoreRedis:
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "CLIENT_STORE %q is not one of %s, %s", c.GetClientStore(), ClientStoreMemory, ClientStoreRedis)
	}

	if c.MicrosoftEnabled() && c.GetMicrosoftClientSecret() == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "MICROSOFT_CLIENT_SECRET is required when MICROSOFT_CLIENT_ID is set")
	}

	return nil
}
