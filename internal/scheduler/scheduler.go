package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/airport-weather/internal/weather"
)

// Scheduler periodically logs a health summary of the weather service.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, service *weather.Service, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic report and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: report interval is zero; nothing to schedule")
		return nil
	}

	// Skip the immediate first run; nothing has been collected at startup.
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.report)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) report() {
	h := s.service.Health()

	busiest, busiestFreq := "", 0.0
	for code, freq := range h.StationFreq {
		if freq > busiestFreq || (freq == busiestFreq && freq > 0 && code < busiest) {
			busiest, busiestFreq = code, freq
		}
	}

	requests := 0
	for _, n := range h.RadiusFreq {
		requests += n
	}

	s.logger.Info("health report",
		"datasize", h.DataSize,
		"stations", len(h.StationFreq),
		"queries", requests,
		"busiest_station", busiest,
		"busiest_share", busiestFreq,
	)
}
