package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/airport-weather/internal/store"
	"github.com/i474232898/airport-weather/internal/weather"
)

var testStations = []weather.Station{
	{Code: "BOS", Latitude: 42.364347, Longitude: -71.005181},
	{Code: "EWR", Latitude: 40.6925, Longitude: -74.168667},
	{Code: "JFK", Latitude: 40.639751, Longitude: -73.778925},
	{Code: "LGA", Latitude: 40.777245, Longitude: -73.872608},
	{Code: "MMU", Latitude: 40.79935, Longitude: -74.4148747},
}

type fixture struct {
	svc      *weather.Service
	registry *store.Registry
	cache    *store.Cache
	usage    *store.Usage
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		registry: store.NewRegistry(),
		cache:    store.NewCache(),
		usage:    store.NewUsage(),
	}
	f.svc = weather.NewService(f.registry, f.cache, f.usage, 24*time.Hour)
	for _, st := range testStations {
		f.svc.AddStation(st)
	}
	return f
}

func TestService_StationCodesSorted(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"BOS", "EWR", "JFK", "LGA", "MMU"}, f.svc.StationCodes())

	require.NoError(t, f.svc.RemoveStation("JFK"))
	f.svc.AddStation(weather.Station{Code: "LED", Latitude: 59.8002777778, Longitude: 30.2625})
	assert.Equal(t, []string{"BOS", "EWR", "LED", "LGA", "MMU"}, f.svc.StationCodes())
}

func TestService_AddStationOverwrites(t *testing.T) {
	f := newFixture(t)
	f.svc.AddStation(weather.Station{Code: "BOS", Latitude: 1, Longitude: 2})

	st, err := f.svc.Station("BOS")
	require.NoError(t, err)
	assert.Equal(t, weather.Station{Code: "BOS", Latitude: 1, Longitude: 2}, st)
	assert.Len(t, f.svc.StationCodes(), len(testStations))
}

func TestService_StationNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Station("XYZ")
	assert.ErrorIs(t, err, weather.ErrNotFound)
}

func TestService_RemoveStationCascades(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Submit("BOS", "WIND", weather.Reading{Mean: 22}))
	_, err := f.svc.Query("BOS", 0)
	require.NoError(t, err)
	require.Equal(t, 1, f.usage.StationRequests("BOS"))

	require.NoError(t, f.svc.RemoveStation("BOS"))

	_, ok := f.registry.Get("BOS")
	assert.False(t, ok)
	_, ok = f.cache.Get("BOS")
	assert.False(t, ok)
	assert.Zero(t, f.usage.StationRequests("BOS"))

	// The radius histogram is global and survives removal.
	assert.Equal(t, 1, f.usage.RadiusHistogram()[0])

	assert.ErrorIs(t, f.svc.RemoveStation("BOS"), weather.ErrNotFound)
}

func TestService_QueryZeroRadius(t *testing.T) {
	f := newFixture(t)

	wind := weather.Reading{Mean: 22, First: 10, Second: 20, Third: 30, Count: 10}
	require.NoError(t, f.svc.Submit("BOS", "WIND", wind))

	snaps, err := f.svc.Query("BOS", 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	got, ok := snaps[0].Get(weather.KindWind)
	require.True(t, ok)
	assert.Equal(t, wind, got)

	// No snapshot yet for JFK: empty, not an error.
	snaps, err = f.svc.Query("JFK", 0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestService_QueryRadius(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Submit("JFK", "WIND", weather.Reading{Mean: 22}))
	require.NoError(t, f.svc.Submit("EWR", "WIND", weather.Reading{Mean: 40}))
	require.NoError(t, f.svc.Submit("LGA", "WIND", weather.Reading{Mean: 30}))

	snaps, err := f.svc.Query("JFK", 200)
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestService_QueryErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Query("XYZ", 10)
	assert.ErrorIs(t, err, weather.ErrNotFound)

	_, err = f.svc.Query("BOS", -1)
	assert.ErrorIs(t, err, weather.ErrInvalidRadius)

	_, err = f.svc.Query("BOS", weather.MaxRadiusKm+1)
	assert.ErrorIs(t, err, weather.ErrInvalidRadius)

	// Rejected queries are not recorded.
	assert.Zero(t, f.usage.StationRequests("BOS"))
	assert.Equal(t, 1001, len(f.usage.RadiusHistogram()))
}

func TestService_HugeRadiusKeepsHealthUsable(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Query("BOS", 1e19)
	require.ErrorIs(t, err, weather.ErrInvalidRadius)

	var h weather.Health
	require.NotPanics(t, func() { h = f.svc.Health() })
	assert.Len(t, h.RadiusFreq, 1001)

	_, err = f.svc.Query("BOS", weather.MaxRadiusKm)
	require.NoError(t, err)
	h = f.svc.Health()
	require.Len(t, h.RadiusFreq, 40076)
	assert.Equal(t, 1, h.RadiusFreq[40075])
}

func TestService_HealthEmpty(t *testing.T) {
	f := newFixture(t)

	h := f.svc.Health()
	assert.Zero(t, h.DataSize)
	assert.Len(t, h.RadiusFreq, 1001)
	require.Len(t, h.StationFreq, len(testStations))
	for code, freq := range h.StationFreq {
		assert.Zerof(t, freq, "station %s", code)
	}
}

func TestService_HealthAfterRequests(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Submit("BOS", "WIND", weather.Reading{Mean: 22}))
	require.NoError(t, f.svc.Submit("JFK", "HUMIDITY", weather.Reading{Mean: 40}))
	_, err := f.svc.Query("BOS", 0)
	require.NoError(t, err)
	_, err = f.svc.Query("JFK", 0.5)
	require.NoError(t, err)

	h := f.svc.Health()
	assert.Equal(t, 2, h.DataSize)
	require.Len(t, h.RadiusFreq, 1)
	assert.Equal(t, 2, h.RadiusFreq[0])
	assert.InDelta(t, 0.5, h.StationFreq["BOS"], 1e-9)
	assert.InDelta(t, 0.5, h.StationFreq["JFK"], 1e-9)
	assert.Zero(t, h.StationFreq["EWR"])
	assert.Zero(t, h.StationFreq["LGA"])
	assert.Zero(t, h.StationFreq["MMU"])
}
