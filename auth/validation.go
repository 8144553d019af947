package auth

import (
	"fmt"
	"net/url"
	"strings"
)

// Credentials is the email/password pair of a login attempt.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// ValidateState checks an OAuth state value echoed back by the provider.
func ValidateState(state string) error {
	if state == "" {
		return fmt.Errorf("state is required")
	}
	if len(state) < 16 {
		return fmt.Errorf("state parameter should be at least 16 characters")
	}
	if strings.TrimSpace(state) != state {
		return fmt.Errorf("state parameter must not contain leading/trailing whitespace")
	}
	return nil
}

// SafeReturnPath keeps post-login redirects on this site. Anything that is
// not a plain absolute path falls back to def.
func SafeReturnPath(raw, def string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return def
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return def
	}
	return raw
}
