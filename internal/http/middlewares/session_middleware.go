package middlewares

import (
	"github.com/gin-gonic/gin"

	"finboard/internal/session"
)

// LoadSession reads the signed session cookie once per request and stashes
// the result (possibly nil) on the context. Downstream code receives the
// session explicitly from the context helper instead of re-reading cookies.
func LoadSession(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := codec.FromRequest(c.Request); sess != nil {
			c.Set(ctxSession, sess)
		}

		c.Next()
	}
}

// SessionFromContext returns the session stashed by LoadSession. A missing
// session means "not logged in", never an error.
func SessionFromContext(c *gin.Context) *session.Session {
	v, ok := c.Get(ctxSession)

	if !ok {
		return nil
	}

	sess, ok := v.(*session.Session)

	if !ok {
		return nil
	}

	return sess
}
