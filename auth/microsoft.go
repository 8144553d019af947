package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/Paul200287/GradeTracker/users"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const microsoftAuthority = "https://login.microsoftonline.com"

// multiTenant are the Entra ID pseudo tenants whose ID tokens carry the
// issuer of the user's home tenant instead of the configured one.
var multiTenant = map[string]bool{
	"common":        true,
	"organizations": true,
	"consumers":     true,
}

// MicrosoftSettings configures sign-in with a Microsoft account.
type MicrosoftSettings struct {
	ClientID     string
	ClientSecret string
	Tenant       string
	RedirectURL  string

	// IssuerURL overrides the discovery document location.
	IssuerURL string
}

func (s MicrosoftSettings) tenant() string {
	if s.Tenant == "" {
		return "common"
	}
	return strings.ToLower(s.Tenant)
}

func (s MicrosoftSettings) issuer() string {
	if s.IssuerURL != "" {
		return s.IssuerURL
	}
	return fmt.Sprintf("%s/%s/v2.0", microsoftAuthority, s.tenant())
}

// FlowParams are the per-attempt secrets that must survive the round trip to
// the provider.
type FlowParams struct {
	State        string
	Nonce        string
	CodeVerifier string
}

// MicrosoftProvider runs the authorization code flow with PKCE and verifies
// the returned ID token.
type MicrosoftProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewMicrosoftProvider fetches the provider's discovery document.
func NewMicrosoftProvider(ctx context.Context, settings MicrosoftSettings) (*MicrosoftProvider, error) {
	issuer := settings.issuer()
	skipIssuer := settings.IssuerURL == "" && multiTenant[settings.tenant()]
	if skipIssuer {
		ctx = oidc.InsecureIssuerURLContext(ctx, issuer)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[auth NewMicrosoftProvider] failed to create OIDC provider: %w", err)
	}

	return &MicrosoftProvider{
		oauth: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  settings.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{
			ClientID:        settings.ClientID,
			SkipIssuerCheck: skipIssuer,
		}),
	}, nil
}

// NewFlow generates fresh state, nonce and PKCE verifier.
func NewFlow() FlowParams {
	return FlowParams{
		State:        oauth2.GenerateVerifier(),
		Nonce:        oauth2.GenerateVerifier(),
		CodeVerifier: oauth2.GenerateVerifier(),
	}
}

// AuthCodeURL is where the browser is sent to sign in.
func (p *MicrosoftProvider) AuthCodeURL(flow FlowParams) string {
	return p.oauth.AuthCodeURL(flow.State,
		oauth2.S256ChallengeOption(flow.CodeVerifier),
		oidc.Nonce(flow.Nonce),
		oauth2.SetAuthURLParam("response_mode", "query"),
	)
}

type microsoftClaims struct {
	Nonce             string `json:"nonce"`
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// Exchange redeems the authorization code and returns the signed-in identity.
// The snapshot carries no backend user id.
func (p *MicrosoftProvider) Exchange(ctx context.Context, code string, flow FlowParams) (Identity, error) {
	tok, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(flow.CodeVerifier))
	if err != nil {
		return Identity{}, fmt.Errorf("[auth Exchange] token exchange failed: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return Identity{}, fmt.Errorf("[auth Exchange] no id_token in token response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, fmt.Errorf("[auth Exchange] ID token verification failed: %w", err)
	}

	var claims microsoftClaims
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("[auth Exchange] failed to extract claims: %w", err)
	}
	if claims.Nonce != flow.Nonce {
		return Identity{}, fmt.Errorf("[auth Exchange] nonce mismatch")
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}
	if email == "" {
		return Identity{}, fmt.Errorf("[auth Exchange] ID token carries no email for subject %s", claims.Subject)
	}

	return Identity{
		User:        &users.User{Username: claims.Name, Email: email},
		AccessToken: tok.AccessToken,
	}, nil
}
