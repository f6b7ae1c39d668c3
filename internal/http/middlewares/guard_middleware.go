package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finboard/internal/guard"
)

// GuardMetrics is the slice of Prom the guard middleware needs; nil disables
// counting.
type GuardMetrics interface {
	CountGuardDecision(decision string)
}

// Guard runs the route guard on every request. It must be registered after
// LoadSession. Redirect decisions abort the chain; allow decisions fall
// through to the matched handler.
func Guard(g *guard.Guard, metrics GuardMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)

		decision := g.Decide(sess, c.Request.URL.Path)

		if metrics != nil {
			metrics.CountGuardDecision(decisionLabel(decision))
		}

		if decision.Action == guard.Redirect {
			c.Redirect(http.StatusFound, decision.Location)
			c.Abort()
			return
		}

		c.Next()
	}
}

func decisionLabel(d guard.Decision) string {
	if d.Action == guard.Allow {
		return "allow"
	}

	if strings.HasPrefix(d.Location, guard.LoginPath) {
		return "redirect_login"
	}

	return "redirect_home"
}
