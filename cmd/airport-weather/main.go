package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/airport-weather/internal/api/http"
	"github.com/i474232898/airport-weather/internal/config"
	"github.com/i474232898/airport-weather/internal/ingest"
	"github.com/i474232898/airport-weather/internal/logging"
	"github.com/i474232898/airport-weather/internal/scheduler"
	"github.com/i474232898/airport-weather/internal/store"
	"github.com/i474232898/airport-weather/internal/weather"
)

const appName = "airport-weather"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg, version, appName)
	slog.SetDefault(log)

	service := weather.NewService(store.NewRegistry(), store.NewCache(), store.NewUsage(), cfg.DataSizeWindow)

	sched := scheduler.New(cfg.ReportInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MQTTEnabled() {
		sub := ingest.NewSubscriber(cfg, service, log)
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := sub.Connect(connectCtx); err != nil {
			// HTTP collection keeps working without the broker.
			log.Warn("mqtt ingest unavailable", "broker", cfg.MQTTBroker, "error", err)
		}
		cancel()
		defer sub.Disconnect()
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
			"version": version,
		})
	})

	httpapi.RegisterRoutes(app, service, log)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("stopped")
}
