// Package session implements the signed browser session: a short HS256 JWT
// carried in an HttpOnly cookie, wrapping the identity and upstream bearer
// token issued by the remote finance API at login.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finboard/internal/roles"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "finboard_session"

// Session is the request-scoped identity. It is passed explicitly into the
// guard and the API client rather than read from ambient globals.
type Session struct {
	UserID string
	Email  string
	Role   roles.Role
	// Token is the opaque bearer credential for the remote API.
	Token string
	// JTI identifies this session instance for revocation.
	JTI string
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"tok"`
	JTI   string `json:"jti"`
	jwt.RegisteredClaims
}

// Revoker answers whether a session id has been revoked (logout). A nil
// Revoker on the codec disables the check.
type Revoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type Codec struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	secure  bool
}

func NewCodec(secret string, ttl time.Duration, revoker Revoker, secure bool) *Codec {
	return &Codec{
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
		secure:  secure,
	}
}

// Issue signs a session cookie value. A fresh jti is assigned so the session
// can be revoked individually later.
func (c *Codec) Issue(sess *Session) (string, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()
	sess.JTI = jti

	cl := claims{
		Email: sess.Email,
		Role:  string(sess.Role),
		Token: sess.Token,
		JTI:   jti,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return token.SignedString(c.secret)
}

// Verify parses and validates a session cookie value. Expired, tampered or
// revoked sessions all come back as errors.
func (c *Codec) Verify(ctx context.Context, raw string) (*Session, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})

	if err != nil {
		return nil, err
	}

	cl, ok := token.Claims.(*claims)

	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}

	if cl.Token == "" {
		return nil, errors.New("session missing bearer token")
	}

	role, err := roles.Parse(cl.Role)

	if err != nil {
		return nil, err
	}

	if c.revoker != nil && cl.JTI != "" {
		revoked, err := c.revoker.IsRevoked(ctx, cl.JTI)

		if err != nil {
			return nil, err
		}

		if revoked {
			return nil, errors.New("session revoked")
		}
	}

	return &Session{
		UserID: cl.Subject,
		Email:  cl.Email,
		Role:   role,
		Token:  cl.Token,
		JTI:    cl.JTI,
	}, nil
}

// FromRequest reads the session off the request cookie. Absence and
// invalidity are both represented as nil — "not logged in" is never an error.
func (c *Codec) FromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)

	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, err := c.Verify(r.Context(), cookie.Value)

	if err != nil {
		return nil
	}

	return sess
}

// SetCookie establishes the signed session artifact on the browser.
func (c *Codec) SetCookie(w http.ResponseWriter, raw string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    raw,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie destroys the session artifact.
func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Logout clears the cookie and, when a revoker is configured, blacklists the
// session id for the rest of its natural lifetime.
func (c *Codec) Logout(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	c.ClearCookie(w)

	if c.revoker == nil || sess == nil || sess.JTI == "" {
		return nil
	}

	return c.revoker.Revoke(ctx, sess.JTI, c.ttl)
}
