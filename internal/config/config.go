package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level

	Port string

	// DataSizeWindow bounds how old a snapshot may be and still count as
	// fresh data in the health report.
	DataSizeWindow time.Duration

	// ReportInterval controls how often the scheduler logs a health summary (0 = disabled).
	ReportInterval time.Duration

	// MQTT ingest; disabled when MQTTBroker is empty.
	MQTTBroker   string
	MQTTPort     int
	MQTTTopic    string
	MQTTClientID string
}

// MQTTEnabled reports whether a broker was configured.
func (c *AppConfig) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	// Missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = getenvDefault("PORT", "9090")
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	// Health datasize window: default one day.
	cfg.DataSizeWindow, err = getenvDuration("DATASIZE_WINDOW", "24h")
	if err != nil {
		return nil, err
	}

	cfg.ReportInterval, err = getenvDuration("REPORT_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}

	cfg.MQTTBroker = getenvDefault("MQTT_BROKER", "")
	cfg.MQTTPort, err = getenvInt("MQTT_PORT", 1883)
	if err != nil {
		return nil, err
	}
	cfg.MQTTTopic = getenvDefault("MQTT_TOPIC", "weather/collect/+/+")
	cfg.MQTTClientID = getenvDefault("MQTT_CLIENT_ID", "airport-weather")

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}
