package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-sales-tracker/internal/config"
	"github.com/adanyl0v/go-sales-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-sales-tracker/internal/monitoring"
	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

func MustListenAndServeHTTP(dash services.DashboardService) {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Recovery())
	mustRegisterRoutes(router, dash)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustRegisterRoutes(router *gin.Engine, dash services.DashboardService) {
	metricsHandler, err := monitoring.NewHandler(dash)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create metrics handler")
		panic(err)
	}
	router.GET("/metrics", gin.WrapH(metricsHandler))

	v1.RegisterRoutes(router.Group("/api/v1"), v1.New(componentLogger("http"), dash))
}
