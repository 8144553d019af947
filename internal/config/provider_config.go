package config

type ProviderConfig interface {
	GetMicrosoftClientID() string
	GetMicrosoftClientSecret() string
	GetMicrosoftTenant() string
	GetMicrosoftRedirectURI() string
	MicrosoftEnabled() bool
}

type Provider struct {
	EnvVars
}

var _ ProviderConfig = Provider{}

func (Provider) GetMicrosoftClientID() string {
	return GetEnv("MICROSOFT_CLIENT_ID", "")
}

func (Provider) GetMicrosoftClientSecret() string {
	return GetEnv("MICROSOFT_CLIENT_SECRET", "")
}

// GetMicrosoftTenant is the Entra ID tenant; "common" accepts work and personal accounts.
func (Provider) GetMicrosoftTenant() string {
	return GetEnv("MICROSOFT_TENANT", "common")
}

func (p Provider) GetMicrosoftRedirectURI() string {
	return GetEnv("MICROSOFT_REDIRECT_URI", p.GetBaseURL()+"/auth/microsoft/callback")
}

func (p Provider) MicrosoftEnabled() bool {
	return p.GetMicrosoftClientID() != ""
}
