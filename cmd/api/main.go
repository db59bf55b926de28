package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"newsfeed/internal/config"
	httphandler "newsfeed/internal/http"
	"newsfeed/internal/logger"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/services/news"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Path to an env file to load before reading configuration")
		port    = flag.String("port", "", "Port to run the server on (overrides PORT)")
	)
	flag.Parse()

	// A missing env file is fine; the environment may already be set.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("file", *envFile).Msg("Failed to load env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	builder := news.NewBuilder(cfg.Upstream.BaseURL, cfg.Upstream.APIKey)
	proxy := news.NewProxy(builder, nil, cfg.Upstream.Timeout)

	opts := httphandler.RouterOptions{
		Timeout:           cfg.Server.RequestTimeout,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	}
	if cfg.RateLimit.Enabled {
		opts.Limiter = ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window, nil)
	}

	router := httphandler.NewRouter(opts)
	router.RegisterHealthRoutes(nil)
	router.RegisterNewsRoutes(httphandler.NewNewsHandler(proxy))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", server.Addr).
			Str("upstream", cfg.Upstream.BaseURL).
			Bool("rate_limit", cfg.RateLimit.Enabled).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
	log.Info().Msg("Server stopped")
}
