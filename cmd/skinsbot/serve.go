package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/omarshaarawi/skinsbot/internal/notify"
	"github.com/omarshaarawi/skinsbot/internal/scheduler"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the weekly scheduler, Telegram bot and metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := &scheduler.Job{
		Processor:    a.processor,
		Dispatcher:   notify.NewDispatcher(notify.AutoConfirm, io.Discard, a.metrics, a.notifiers()...),
		LeagueName:   a.cfg.Sleeper.LeagueName,
		OutcomesPath: a.cfg.Storage.OutcomesPath,
		Reset:        a.gateway.Reset,
		Export: func(ctx context.Context) error {
			records, err := a.store.LoadAll(ctx)
			if err != nil {
				return err
			}
			_, err = a.exporter().ExportAll(records)
			return err
		},
	}

	sched, err := scheduler.NewScheduler(a.cfg.Runtime.Schedule, a.cfg.Runtime.Timezone, job)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", healthCheckHandler)
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: a.cfg.Runtime.HTTPAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		slog.Info("Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	if a.cfg.Telegram.Token != "" {
		telegramBot, err := a.telegramBot()
		if err != nil {
			return fmt.Errorf("error starting telegram bot: %w", err)
		}
		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	} else {
		slog.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
