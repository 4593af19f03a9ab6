package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/i474232898/airport-weather/internal/weather"
)

// Registrar registers one station with the server.
type Registrar interface {
	RegisterStation(ctx context.Context, st weather.Station) error
}

// Summary reports the outcome of an upload.
type Summary struct {
	Imported int
	Skipped  int
	Elapsed  time.Duration
}

// Rate returns imported stations per second.
func (s Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Imported) / s.Elapsed.Seconds()
}

// Upload parses r and registers every accepted row. Rows the server rejects
// are skipped; any other failure aborts the upload.
func Upload(ctx context.Context, r io.Reader, reg Registrar, logger *slog.Logger) (Summary, error) {
	start := time.Now()

	records, skips, err := Parse(r)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Skipped: len(skips)}
	for _, s := range skips {
		logger.Warn("skipping line", "line", s.Line, "reason", s.Reason)
	}

	for _, rec := range records {
		err := reg.RegisterStation(ctx, rec.Station)
		switch {
		case err == nil:
			sum.Imported++
		case errors.Is(err, ErrRejected):
			logger.Warn("server rejected line", "line", rec.Line, "code", rec.Station.Code, "error", err)
			sum.Skipped++
		default:
			sum.Elapsed = time.Since(start)
			return sum, err
		}
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}
