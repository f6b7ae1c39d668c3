package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/internal/api"
	"finboard/internal/http/middlewares"
	"finboard/internal/session"
)

// AdminService is the approval-queue surface of the API client.
type AdminService interface {
	AdminRequests(ctx context.Context, sess *session.Session) ([]api.CEORequest, error)
	AdminApprove(ctx context.Context, sess *session.Session, id string) error
	AdminReject(ctx context.Context, sess *session.Session, id string) error
}

type AdminHandler struct {
	svc AdminService
	log *slog.Logger
}

func NewAdminHandler(svc AdminService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

func (h *AdminHandler) Home(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	requests, err := h.svc.AdminRequests(c.Request.Context(), sess)

	data := page(c, "Approval requests")

	if err != nil {
		h.log.Warn("admin requests fetch failed", "err", err)
		data["Flash"] = api.UserMessage(err)
	}

	data["Requests"] = requests

	c.HTML(http.StatusOK, "dashboard_admin", data)
}

func (h *AdminHandler) Approve(c *gin.Context) {
	h.act(c, h.svc.AdminApprove, "request approved")
}

func (h *AdminHandler) Reject(c *gin.Context) {
	h.act(c, h.svc.AdminReject, "request rejected")
}

func (h *AdminHandler) act(c *gin.Context, fn func(context.Context, *session.Session, string) error, okMsg string) {
	sess := middlewares.SessionFromContext(c)

	if err := fn(c.Request.Context(), sess, c.Param("id")); err != nil {
		h.log.Warn("admin action failed", "id", c.Param("id"), "err", err)
		SetFlash(c, api.UserMessage(err))
	} else {
		SetFlash(c, okMsg)
	}

	c.Redirect(http.StatusFound, "/admin")
}
