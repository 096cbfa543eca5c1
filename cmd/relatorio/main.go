package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"relatoriomei/internal/cli"
	"relatoriomei/internal/core"
	"relatoriomei/internal/form"
	apphttp "relatoriomei/internal/http"
	"relatoriomei/internal/log"
	"relatoriomei/internal/navigator"
	"relatoriomei/internal/services"
	"relatoriomei/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	var publisher *services.SyncPublisher
	if client := cli.ConnectAMQP(logger, cfg); client != nil {
		defer client.Close()
		publisher = services.NewSyncPublisher(client, logger)
	} else {
		publisher = services.NewSyncPublisher(nil, logger)
	}

	ctx := context.Background()
	st, backendRes := cli.OpenStore(ctx, logger, cfg, store.WithListener(publisher))
	defer func() {
		if err := backendRes.Close(); err != nil {
			logger.Error("Failed to close storage slot", log.FieldError, err)
		}
	}()

	current := core.PeriodOf(time.Now())
	reportForm := form.New(st, current, form.WithLogger(logger))
	nav := navigator.New(st, current,
		navigator.WithOnChange(reportForm.SetPeriod))

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:              st,
		Navigator:          nav,
		Form:               reportForm,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready: func(ctx context.Context) error {
			_, err := backendRes.Slot.Load(ctx)
			return err
		},
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting relatorio server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldPeriod, current.String(),
		"sync_enabled", publisher.Enabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
