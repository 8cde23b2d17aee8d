package client

import (
	"context"
	"net/http"

	"github.com/mdpreview/mdpreview/internal/model"
)

// Session pairs the issued token with the authenticated user.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, username, password string) (*Session, error) {
	req := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}

	var session Session
	err := c.postJSON(ctx, "/api/auth/register", req, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	err := c.postJSON(ctx, "/api/auth/login", req, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/api/auth/logout", struct{}{}, nil)
}

// Profile returns the current user, or an APIError with status 401 when no
// session is active. The unauthorized hook does not fire for this call.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	_, err := c.get(ctx, "/api/auth/profile", nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes username and/or email. Empty fields keep their
// current value.
func (c *Client) UpdateProfile(ctx context.Context, username, email string) (*model.User, error) {
	req := map[string]string{
		"username": username,
		"email":    email,
	}

	var user model.User
	err := c.putJSON(ctx, "/api/auth/profile", req, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	req := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.postJSON(ctx, "/api/auth/change-password", req, nil)
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.delete(ctx, "/api/auth/account", nil)
}

// LoggedIn probes for an active session.
func (c *Client) LoggedIn(ctx context.Context) bool {
	_, err := c.Profile(ctx)
	if err != nil {
		apiErr, ok := err.(*APIError)
		return ok && apiErr.Status != http.StatusUnauthorized
	}
	return true
}
