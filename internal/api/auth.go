package api

import (
	"context"
	"net/http"

	"github.com/velora-shop/storefront-go/internal/domain/user"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account creation payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSession is what the auth endpoints hand back on success: the profile
// plus a fresh token pair.
type AuthSession struct {
	User         user.User `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// Login authenticates with email and password. Issued on the public path:
// a 401 here means rejected credentials, not an expired token, so the
// refresh protocol must stay out of the way.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthSession, error) {
	body, err := c.tr.DoPublic(ctx, http.MethodPost, "/auth/login", nil, creds)
	if err != nil {
		return nil, err
	}
	s, err := decodeData[AuthSession](body)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthSession, error) {
	body, err := c.tr.DoPublic(ctx, http.MethodPost, "/auth/register", nil, reg)
	if err != nil {
		return nil, err
	}
	s, err := decodeData[AuthSession](body)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout invalidates the server-side session. Local cleanup is the session
// store's job and happens regardless of this call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.tr.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// Me fetches the profile for the current access token.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	body, err := c.tr.Do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	u, err := decodeData[user.User](body)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ForgotPassword asks the server to mail a reset token to the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.tr.DoPublic(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email})
	return err
}

// ResetPassword exchanges a mailed reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	_, err := c.tr.DoPublic(ctx, http.MethodPost, "/auth/reset-password", nil, map[string]string{
		"token":    token,
		"password": password,
	})
	return err
}
