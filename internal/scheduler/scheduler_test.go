package scheduler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/airport-weather/internal/store"
	"github.com/i474232898/airport-weather/internal/weather"
)

func newService(t *testing.T) *weather.Service {
	t.Helper()

	svc := weather.NewService(store.NewRegistry(), store.NewCache(), store.NewUsage(), 24*time.Hour)
	svc.AddStation(weather.Station{Code: "DME", Latitude: 55.4086111111, Longitude: 37.9061111111})
	svc.AddStation(weather.Station{Code: "LED", Latitude: 59.8002777778, Longitude: 30.2625})
	return svc
}

func TestStart_ZeroIntervalSchedulesNothing(t *testing.T) {
	var buf bytes.Buffer
	s := New(0, newService(t), slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Empty(t, s.scheduler.Jobs())
}

func TestStart_SchedulesReport(t *testing.T) {
	var buf bytes.Buffer
	s := New(time.Hour, newService(t), slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.scheduler.Jobs(), 1)
}

func TestReport(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Submit("DME", "wind", weather.Reading{Mean: 5}))
	_, err := svc.Query("LED", 0)
	require.NoError(t, err)
	_, err = svc.Query("LED", 800)
	require.NoError(t, err)

	var buf bytes.Buffer
	s := New(time.Hour, svc, slog.New(slog.NewTextHandler(&buf, nil)))
	s.report()

	out := buf.String()
	assert.Contains(t, out, "health report")
	assert.Contains(t, out, "datasize=1")
	assert.Contains(t, out, "stations=2")
	assert.Contains(t, out, "queries=2")
	assert.Contains(t, out, "busiest_station=LED")
}
