package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"finboard/internal/api"
	"finboard/internal/dashboard"
	"finboard/internal/http/middlewares"
)

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

type PagesHandler struct {
	fin *api.Finance
	log *slog.Logger
}

func NewPagesHandler(fin *api.Finance, log *slog.Logger) *PagesHandler {
	return &PagesHandler{fin: fin, log: log}
}

// CFOHome is the root dashboard: the monthly expense/payment series plus the
// project list, fetched concurrently.
func (h *PagesHandler) CFOHome(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)
	year := time.Now().Year()

	data := page(c, "Finance overview")
	data["Months"] = monthNames

	overview, err := dashboard.BuildOverview(c.Request.Context(), h.fin, sess, year)

	if err != nil {
		h.log.Warn("overview fetch failed", "err", err)
		data["Flash"] = api.UserMessage(err)
		data["Overview"] = dashboard.Overview{Year: year}
		c.HTML(http.StatusOK, "dashboard_cfo", data)
		return
	}

	data["Overview"] = overview
	c.HTML(http.StatusOK, "dashboard_cfo", data)
}

// CEOHome shows budget proposals alongside the startup portfolio.
func (h *PagesHandler) CEOHome(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	var (
		proposals []api.BudgetProposal
		startups  []api.Startup
	)

	g, gctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		var err error
		proposals, err = h.fin.Proposals.List(gctx, sess)
		return err
	})

	g.Go(func() error {
		var err error
		startups, err = h.fin.Startups.List(gctx, sess)
		return err
	})

	data := page(c, "CEO dashboard")

	if err := g.Wait(); err != nil {
		h.log.Warn("ceo dashboard fetch failed", "err", err)
		data["Flash"] = api.UserMessage(err)
	}

	data["Proposals"] = proposals
	data["Startups"] = startups

	c.HTML(http.StatusOK, "dashboard_ceo", data)
}

// GuestHome lists startups read-only.
func (h *PagesHandler) GuestHome(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	startups, err := h.fin.Startups.List(c.Request.Context(), sess)

	data := page(c, "Startups")

	if err != nil {
		h.log.Warn("startup list fetch failed", "err", err)
		data["Flash"] = api.UserMessage(err)
	}

	data["Startups"] = startups

	c.HTML(http.StatusOK, "dashboard_guest", data)
}

// GuestStartup renders a single startup for guests.
func (h *PagesHandler) GuestStartup(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	startup, err := h.fin.Startups.Get(c.Request.Context(), sess, c.Param("id"))

	if err != nil {
		SetFlash(c, api.UserMessage(err))
		c.Redirect(http.StatusFound, "/guest")
		return
	}

	data := page(c, startup.Name)
	data["Startup"] = startup

	c.HTML(http.StatusOK, "startup_view", data)
}
