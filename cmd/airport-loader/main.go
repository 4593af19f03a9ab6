package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i474232898/airport-weather/internal/config"
	"github.com/i474232898/airport-weather/internal/loader"
	"github.com/i474232898/airport-weather/internal/logging"
)

const appName = "airport-loader"

var version = "dev"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {
	file := flag.String("file", "", "path to an airports.dat CSV file")
	baseURL := flag.String("base-url", "http://localhost:9090", "base URL of the airport-weather server")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request HTTP timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	log := logging.New(cfg, version, appName)

	if *file == "" {
		log.Error("missing -file")
		flag.Usage()
		return 2
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open airports file", "file", *file, "error", err)
		return 1
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := loader.NewClient(&http.Client{Timeout: *timeout}, *baseURL)

	sum, err := loader.Upload(ctx, f, client, log)
	attrs := []any{
		"imported", sum.Imported,
		"skipped", sum.Skipped,
		"elapsed", sum.Elapsed.Round(time.Millisecond),
		"per_second", fmt.Sprintf("%.1f", sum.Rate()),
	}
	if err != nil {
		log.Error("upload aborted", append(attrs, "error", err)...)
		return 1
	}
	log.Info("upload finished", attrs...)
	return 0
}
