package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"finboard/internal/http/middlewares"
)

const flashCookie = "finboard_flash"

// SetFlash queues a short toast message for the next rendered page.
func SetFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookie, msg, int(time.Minute.Seconds()), "/", "", false, true)
}

// takeFlash reads and clears the pending toast, if any.
func takeFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookie)

	if err != nil || msg == "" {
		return ""
	}

	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	return msg
}

// page builds the base view model every template expects.
func page(c *gin.Context, title string) gin.H {
	return gin.H{
		"Title":   title,
		"Session": middlewares.SessionFromContext(c),
		"Flash":   takeFlash(c),
	}
}
