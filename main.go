// main.go
//
// Process wiring for the Yacht server.
// Responsibilities:
//   - Load configuration (.env + environment).
//   - Configure the global zerolog logger.
//   - Open SQLite, apply embedded migrations.
//   - Select the game store (sqlite | memory) and build the service.
//   - Serve HTTP until SIGINT/SIGTERM, then shut down gracefully.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/yacht/internal/auth"
	"github.com/robalobadob/yacht/internal/config"
	"github.com/robalobadob/yacht/internal/daily"
	"github.com/robalobadob/yacht/internal/httpserver"
	"github.com/robalobadob/yacht/internal/service"
	"github.com/robalobadob/yacht/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	var (
		games   store.Store
		results daily.Results
	)
	switch cfg.Store {
	case config.StoreMemory:
		games, results = store.NewMemoryStore(), daily.NewMemoryStore()
	default:
		games, results = store.NewSQLiteStore(db), daily.NewSQLStore(db)
	}

	users := auth.NewUsers(db)
	svc := service.New(games, service.Options{
		Daily: results,
		Users: users,
		Salt:  cfg.DailySalt,
	})
	srv := httpserver.New(httpserver.Deps{
		Games:  svc,
		Users:  users,
		Tokens: auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL()),
		Config: cfg,
	})

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Str("env", cfg.AppEnv).Msg("starting yacht server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
