package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"finboard/internal/api"
	"finboard/internal/config"
	"finboard/internal/guard"
	httpx "finboard/internal/http"
	"finboard/internal/observability"
	"finboard/internal/roles"
	"finboard/internal/session"
)

func main() {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// Tracing is opt-in: no endpoint, no exporter.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "finboard", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	// Session revocation is optional wiring; without Redis, logout only
	// clears the cookie.
	var revoker session.Revoker

	if cfg.RedisAddr != "" {
		r := session.NewRedisRevoker(session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		if err := r.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, session revocation disabled", "err", err)
		} else {
			revoker = r
			defer r.Close()
		}
		cancel()
	}

	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL, revoker, cfg.Env == "prod")

	g, err := guard.New(roles.DefaultTable)

	if err != nil {
		log.Error("invalid role-route table", "err", err)
		os.Exit(1)
	}

	client, err := api.New(cfg.APIBaseURL, cfg.APITimeout, log, prom)

	if err != nil {
		log.Error("api client init failed", "err", err)
		os.Exit(1)
	}

	router := httpx.NewRouter(httpx.Deps{
		Config:  cfg,
		Log:     log,
		Codec:   codec,
		Guard:   g,
		Client:  client,
		Finance: api.NewFinance(client),
		Prom:    prom,
		PromReg: promReg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
