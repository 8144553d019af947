package users

import (
	"context"
	"fmt"
	"net/http"
)

const (
	profilePath = "/api/v1/login/me"
	listPath    = "/api/v1/users"
)

// Doer is the authenticated request gateway.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Client reads user profiles from the backend.
type Client struct {
	api Doer
}

func NewClient(api Doer) *Client {
	return &Client{api: api}
}

// Profile returns the user the current access token belongs to.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.api.Do(ctx, http.MethodPost, profilePath, nil, &user); err != nil {
		return nil, fmt.Errorf("[users Profile] %w", err)
	}
	return &user, nil
}

// List returns every user. The backend only allows it for superusers.
func (c *Client) List(ctx context.Context) ([]User, error) {
	var list []User
	if err := c.api.Do(ctx, http.MethodGet, listPath, nil, &list); err != nil {
		return nil, fmt.Errorf("[users List] %w", err)
	}
	return list, nil
}
