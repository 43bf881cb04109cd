package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/companioncall/signaling/internal/adapters/http"
	wssignal "github.com/companioncall/signaling/internal/adapters/signal"
	"github.com/companioncall/signaling/internal/app"
	"github.com/companioncall/signaling/internal/app/orch"
	"github.com/companioncall/signaling/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	rooms := app.NewRoomRegistry()
	directory := app.NewConnDirectory()
	hub := wssignal.NewHub()

	o := &orch.Orchestrator{
		Rooms:     rooms,
		Directory: directory,
		Transport: hub,
	}

	if cfg.SweepInterval > 0 {
		go rooms.Sweep(ctx, cfg.SweepInterval, cfg.SweepRetain)
	}

	facade := &router.Facade{
		Cfg:    cfg,
		Rooms:  rooms,
		Hub:    hub,
		Client: &http.Client{Timeout: 10 * time.Second},
	}

	r := router.SetupRouter(ctx, cfg, facade, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: cors.AllowAll().Handler(r),
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Companion call server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
