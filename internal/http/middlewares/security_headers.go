package middlewares

import (
	"github.com/gin-gonic/gin"
)

const (
	// Dashboard pages are server-rendered; everything loads same-origin.
	pageCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; img-src 'self' data:; style-src 'self'; script-src 'self'"
	// The SSO bridge page carries the inline script that closes the popup.
	ssoCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; script-src 'unsafe-inline'"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("X-XSS-Protection", "0")
		if c.Request.URL.Path == "/sso" {
			c.Header("Content-Security-Policy", ssoCSP)
		} else {
			c.Header("Content-Security-Policy", pageCSP)
		}
		c.Next()
	}
}
