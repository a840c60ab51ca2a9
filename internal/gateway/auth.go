package gateway

import (
	"context"
	"net/url"

	"foreman-cli/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges an email/password pair for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	q := url.Values{"grant_type": {"password"}}
	var sess model.Session
	if err := c.do(ctx, "POST", "/auth/v1/token", q, nil, credentials{Email: email, Password: password}, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignUp registers a new account. Depending on backend settings the response
// may or may not include a usable session (email confirmation pending).
func (c *Client) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	var sess model.Session
	if err := c.do(ctx, "POST", "/auth/v1/signup", nil, nil, credentials{Email: email, Password: password}, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// RefreshSession trades a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*model.Session, error) {
	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	var sess model.Session
	if err := c.do(ctx, "POST", "/auth/v1/token", q, nil, body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignOut revokes the given access token server-side. The local session cache
// is the caller's to clear.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	return c.do(ctx, "POST", "/auth/v1/logout", nil, headers, nil, nil)
}
