package api

import (
	"context"
	"fmt"

	"github.com/nhle/todo-client/internal/model"
)

// Session is the result of a successful login or registration.
type Session struct {
	User  model.User
	Token string
}

type authResponse struct {
	User        apiUser `json:"user"`
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
}

// Registration holds the fields needed to create an account.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. On success the client
// starts using the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	c.SetToken(resp.AccessToken)
	return &Session{User: resp.User.toModel(), Token: resp.AccessToken}, nil
}

// Register creates an account and logs into it.
func (c *Client) Register(ctx context.Context, reg Registration) (*Session, error) {
	var resp authResponse
	if err := c.post(ctx, "/api/auth/register", reg, &resp); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	c.SetToken(resp.AccessToken)
	return &Session{User: resp.User.toModel(), Token: resp.AccessToken}, nil
}

// Me returns the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u apiUser
	if err := c.get(ctx, "/api/auth/me", &u); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	user := u.toModel()
	return &user, nil
}

// UpdateProfile changes the display name.
func (c *Client) UpdateProfile(ctx context.Context, name string) (*model.User, error) {
	var u apiUser
	if err := c.put(ctx, "/api/auth/profile", map[string]string{"name": name}, &u); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	user := u.toModel()
	return &user, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	if err := c.put(ctx, "/api/auth/change-password", body, nil); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}
