package api

import (
	"context"
	"errors"
	"net/http"

	"finboard/internal/roles"
	"finboard/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	JWT    string `json:"jwt"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Login exchanges credentials with the remote API. Any rejection — bad
// status, missing token, unknown role — comes back as ErrInvalidCredentials
// so the login form shows one uniform message; transport failures keep their
// own taxonomy.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var resp loginResponse

	err := c.Do(ctx, nil, http.MethodPost, "/users/login", loginRequest{Email: email, Password: password}, &resp)

	if err != nil {
		var se *StatusError

		if errors.As(err, &se) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if resp.JWT == "" {
		return nil, ErrInvalidCredentials
	}

	role, err := roles.Parse(resp.Role)

	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return &session.Session{
		UserID: resp.UserID,
		Email:  email,
		Role:   role,
		Token:  resp.JWT,
	}, nil
}

// CurrentUser fetches the identity behind the session's bearer token.
func (c *Client) CurrentUser(ctx context.Context, sess *session.Session) (User, error) {
	var u User

	err := c.Do(ctx, sess, http.MethodGet, "/users/current", nil, &u)

	return u, err
}
