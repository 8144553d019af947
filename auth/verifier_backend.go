package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Paul200287/GradeTracker/gateway"
	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/users"
	"github.com/rs/zerolog/log"
)

const loginPath = "/api/v1/login"

// BackendVerifier exchanges credentials for a backend access token and then
// loads the matching profile.
type BackendVerifier struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewBackendVerifier(baseURL string, httpClient *http.Client, timeout time.Duration) *BackendVerifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BackendVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Verify posts the login form directly rather than through the gateway: a
// 401 here rejects the credentials, it does not end an existing login.
func (b *BackendVerifier) Verify(ctx context.Context, email, password string) (Identity, error) {
	tok, err := b.requestToken(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}

	api, err := gateway.New(b.baseURL, staticToken(tok), nil,
		gateway.WithHTTPClient(b.httpClient),
		gateway.WithTimeout(b.timeout),
	)
	if err != nil {
		return Identity{}, err
	}

	user, err := users.NewClient(api).Profile(ctx)
	if err != nil {
		// The token is good; keep the login with a minimal snapshot.
		log.Warn().Err(err).Msg("Failed to load profile after login")
		user = &users.User{Email: email}
	}
	return Identity{User: user, AccessToken: tok}, nil
}

func (b *BackendVerifier) requestToken(ctx context.Context, email, password string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("[auth requestToken] failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: POST %s: %w", apperrors.ErrTransport, loginPath, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized:
		return "", apperrors.ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return "", &gateway.ResponseError{Method: http.MethodPost, Path: loginPath, StatusCode: resp.StatusCode, Body: body}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("[auth requestToken] failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("[auth requestToken] %w: empty access token", apperrors.ErrBackend)
	}
	return tr.AccessToken, nil
}

// staticToken presents a token that is not persisted anywhere yet.
type staticToken string

func (t staticToken) Token(context.Context) (string, bool) { return string(t), t != "" }

func (staticToken) Clear(context.Context) {}
