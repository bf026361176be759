package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ambegrouplimited/reminderd/config"
	"github.com/ambegrouplimited/reminderd/internal/api"
	"github.com/ambegrouplimited/reminderd/internal/clients/caldav"
	"github.com/ambegrouplimited/reminderd/internal/clients/invoicer"
	"github.com/ambegrouplimited/reminderd/internal/scheduler"
	"github.com/ambegrouplimited/reminderd/internal/service"
	"github.com/ambegrouplimited/reminderd/internal/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer store.Close()

	scheduleSvc := service.NewScheduleService(cfg.Timezone)
	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword, cfg.CalDAVCalendarPath)
	exportSvc := service.NewExportService(scheduleSvc, caldavClient, log)
	invoicerClient := invoicer.NewClient(cfg.InvoicerBaseURL, cfg.InvoicerToken)

	server := api.NewServer(cfg, scheduleSvc, exportSvc, store, invoicerClient, log)
	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: server.Routes(),
	}

	sched := scheduler.New(cfg, store, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Error().Err(err).Msg("scheduler error")
		}
	}()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
		}
	}()

	log.Info().Str("port", cfg.ServerPort).Msg("reminderd started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")

	cancel()
	sched.Stop()
	server.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	log.Info().Msg("reminderd stopped")
}
