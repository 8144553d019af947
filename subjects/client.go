package subjects

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/internal/validation"
	"github.com/Paul200287/GradeTracker/users"
)

const basePath = "/api/v1/subjects"

// Doer is the authenticated request gateway.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// UserSource yields the cached user snapshot; creating a subject needs its id.
type UserSource interface {
	User(ctx context.Context) (*users.User, bool)
}

type Client struct {
	api       Doer
	user      UserSource
	validator *validation.Validator
}

func NewClient(api Doer, user UserSource) *Client {
	return &Client{
		api:       api,
		user:      user,
		validator: validation.New(),
	}
}

func (c *Client) List(ctx context.Context) ([]Subject, error) {
	var list []Subject
	if err := c.api.Do(ctx, http.MethodGet, basePath+"/", nil, &list); err != nil {
		return nil, fmt.Errorf("[subjects List] %w", err)
	}
	return list, nil
}

func (c *Client) Get(ctx context.Context, id int) (*Subject, error) {
	var s Subject
	if err := c.api.Do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", basePath, id), nil, &s); err != nil {
		return nil, fmt.Errorf("[subjects Get] %w", err)
	}
	return &s, nil
}

// Create files a new subject under the cached user. It fails with
// apperrors.ErrNotLoggedIn before any request when no user id is cached.
func (c *Client) Create(ctx context.Context, in Input) (*Subject, error) {
	var user *users.User
	if c.user != nil {
		user, _ = c.user.User(ctx)
	}
	if !user.HasID() {
		return nil, apperrors.ErrNotLoggedIn
	}

	in = in.Normalize()
	if err := c.validator.Struct(in); err != nil {
		return nil, err
	}

	payload := createPayload{UserID: user.ID, updatePayload: newUpdatePayload(in)}
	var s Subject
	if err := c.api.Do(ctx, http.MethodPost, basePath+"/create-subject", payload, &s); err != nil {
		return nil, fmt.Errorf("[subjects Create] %w", err)
	}
	return &s, nil
}

func (c *Client) Update(ctx context.Context, id int, in Input) (*Subject, error) {
	in = in.Normalize()
	if err := c.validator.Struct(in); err != nil {
		return nil, err
	}

	var s Subject
	path := fmt.Sprintf("%s/update-subject/%d", basePath, id)
	if err := c.api.Do(ctx, http.MethodPut, path, newUpdatePayload(in), &s); err != nil {
		return nil, fmt.Errorf("[subjects Update] %w", err)
	}
	return &s, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("%s/delete-subject/%d", basePath, id)
	if err := c.api.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("[subjects Delete] %w", err)
	}
	return nil
}
