package http

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"finboard/internal/api"
	"finboard/internal/config"
	"finboard/internal/guard"
	"finboard/internal/http/handlers"
	"finboard/internal/http/middlewares"
	"finboard/internal/observability"
	"finboard/internal/session"
	"finboard/web"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Codec   *session.Codec
	Guard   *guard.Guard
	Client  *api.Client
	Finance *api.Finance
	Prom    *observability.Prom
	PromReg *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("finboard"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// Session first, then the guard: every route below is subject to the
	// same allow/redirect decision.
	var guardMetrics middlewares.GuardMetrics

	if d.Prom != nil {
		guardMetrics = d.Prom
	}

	r.Use(middlewares.LoadSession(d.Codec))
	r.Use(middlewares.Guard(d.Guard, guardMetrics))

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.TemplatesFS, "templates/*.html")))

	staticFS, err := fs.Sub(web.StaticFS, "static")

	if err == nil {
		r.StaticFS("/static", http.FS(staticFS))
	}

	// Operational endpoints.
	ping := func() error {
		if d.Finance == nil {
			return nil
		}

		ctx, cancel := config.WithTimeout(d.Config.APITimeout)
		defer cancel()

		_, err := d.Finance.Startups.List(ctx, nil)
		return err
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.PromReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.PromReg, promhttp.HandlerOpts{})))
	}

	// Auth surface.
	auth := handlers.NewAuthHandler(d.Client, d.Codec, d.Guard, d.Log)

	loginLimiter := middlewares.NewRateLimiter(d.Config.LoginRateLimit, d.Config.LoginRateWindow)

	r.GET(guard.LoginPath, auth.LoginPage)
	r.GET(guard.SSOPath, auth.SSO)
	r.POST("/auth/login", loginLimiter.Middleware(middlewares.KeyByIP), auth.Login)
	r.POST("/auth/logout", auth.Logout)

	// Role dashboards.
	pages := handlers.NewPagesHandler(d.Finance, d.Log)

	r.GET("/", pages.CFOHome)
	r.GET("/ceo", pages.CEOHome)
	r.GET("/guest", pages.GuestHome)
	r.GET("/guest/view-startup/:id", pages.GuestStartup)

	admin := handlers.NewAdminHandler(d.Client, d.Log)
	r.GET("/admin", admin.Home)
	r.POST("/admin/approve/:id", admin.Approve)
	r.POST("/admin/reject/:id", admin.Reject)

	// CFO feature areas.
	handlers.RegisterResourcePages(r, d.Finance, d.Log)

	return r
}
