package main

import (
	"context"
	"fmt"
	"gamehub/internal/config"
	"gamehub/internal/constants"
	fxmodules "gamehub/internal/fx"
	"gamehub/internal/middleware"
	"gamehub/internal/repository"
	"gamehub/internal/server"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func newRouter(srv *server.Server, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID(logger))
	r.Use(chimiddleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	srv.Register(r, middleware.Auth(cfg.AuthJWTSecret, logger))
	return r
}

func runServer(
	lc fx.Lifecycle,
	apiServer *server.Server,
	store repository.FavoriteStore,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: newRouter(apiServer, cfg, logger),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing favorites store")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
