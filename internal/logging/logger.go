package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/i474232898/airport-weather/internal/config"
)

// New builds the process logger: colorized text in dev, JSON otherwise.
func New(cfg *config.AppConfig, version string, appName string) *slog.Logger {
	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return withIdentity(slog.New(h), cfg, version, appName)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return withIdentity(slog.New(h), cfg, version, appName)
}

func withIdentity(l *slog.Logger, cfg *config.AppConfig, version, appName string) *slog.Logger {
	return l.With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
