package config_test

import (
	"testing"
	"time"

	"github.com/Paul200287/GradeTracker/internal/config"
	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/stretchr/testify/require"
)

// cleanEnv blanks every variable the tests depend on.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "PORT", "SESSION_SECRET", "SESSION_TTL", "BACKEND_URL", "CLIENT_STORE",
		"PROTECTED_ROUTES", "AUTH_ONLY_ROUTES", "MICROSOFT_CLIENT_ID", "MICROSOFT_CLIENT_SECRET", "DEV_LOGIN"} {
		t.Setenv(k, "")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "development defaults", env: map[string]string{"ENV": "DEV"}},
		{name: "production without secret", env: map[string]string{"ENV": "PRODUCTION"}, wantErr: true},
		{name: "production with secret", env: map[string]string{"ENV": "PRODUCTION", "SESSION_SECRET": "s3cret"}},
		{name: "overlapping route sets", env: map[string]string{"PROTECTED_ROUTES": "/dashboard,/login"}, wantErr: true},
		{name: "relative backend url", env: map[string]string{"BACKEND_URL": "/api"}, wantErr: true},
		{name: "unknown client store", env: map[string]string{"CLIENT_STORE": "sqlite"}, wantErr: true},
		{name: "redis client store", env: map[string]string{"CLIENT_STORE": "redis"}},
		{name: "microsoft without secret", env: map[string]string{"MICROSOFT_CLIENT_ID": "app"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := config.Validate(config.New())
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSessionSecret(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "from-env")
		secret, fromEnv := config.New().GetSessionSecret()
		require.True(t, fromEnv)
		require.Equal(t, []byte("from-env"), secret)
	})

	t.Run("random per process otherwise", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		c := config.New()
		first, fromEnv := c.GetSessionSecret()
		require.False(t, fromEnv)
		require.Len(t, first, 32)

		again, _ := c.GetSessionSecret()
		require.Equal(t, first, again)

		other, _ := config.New().GetSessionSecret()
		require.NotEqual(t, first, other)
	})
}

func TestDefaults(t *testing.T) {
	cleanEnv(t)
	c := config.New()

	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, 7*24*time.Hour, c.GetSessionTTL())
	require.False(t, c.GetSecureCookies())
	require.Equal(t, "/login", c.GetLoginPage())
	require.Equal(t, "/dashboard", c.GetHomePage())
	require.True(t, c.GetProtectedRoutes().Contains("/dashboard"))
	require.True(t, c.GetAuthOnlyRoutes().Contains("/login"))
	require.Equal(t, config.ClientStoreMemory, c.GetClientStore())
}

func TestGetDevLogin_OnlyInDevelopment(t *testing.T) {
	t.Setenv("DEV_LOGIN", "true")

	t.Setenv("ENV", "DEV")
	require.True(t, config.New().GetDevLogin())

	t.Setenv("ENV", "PRODUCTION")
	require.False(t, config.New().GetDevLogin())
}

func TestRouteSet(t *testing.T) {
	a := config.NewRouteSet("/b", "/a", "/c")
	b := config.NewRouteSet("/c", "/a", "/d")

	require.Equal(t, []string{"/a", "/c"}, a.Intersect(b))
	require.Equal(t, "/a, /b, /c", a.String())
	require.False(t, a.Contains("/a/"))
}
