package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/airport-weather/internal/store"
	"github.com/i474232898/airport-weather/internal/weather"
)

func newValidator(t *testing.T) (*weather.Validator, *store.Cache) {
	t.Helper()

	registry := store.NewRegistry()
	registry.Add(weather.Station{Code: "BOS", Latitude: 42.364347, Longitude: -71.005181})

	cache := store.NewCache()
	return weather.NewValidator(registry, cache), cache
}

func TestValidatorApply_StoresReading(t *testing.T) {
	v, cache := newValidator(t)

	r := weather.Reading{Mean: 22, First: 10, Second: 20, Third: 30, Count: 10}
	require.NoError(t, v.Apply("BOS", "wind", r))

	snap, ok := cache.Get("BOS")
	require.True(t, ok)
	got, ok := snap.Get(weather.KindWind)
	require.True(t, ok)
	assert.Equal(t, r, got)
}

func TestValidatorApply_PartialMerge(t *testing.T) {
	v, cache := newValidator(t)

	cloud := weather.Reading{Mean: 50, First: 10, Second: 60, Third: 100, Count: 4}
	wind := weather.Reading{Mean: 22, First: 10, Second: 20, Third: 30, Count: 10}
	require.NoError(t, v.Apply("BOS", "CLOUDCOVER", cloud))
	require.NoError(t, v.Apply("BOS", "WIND", wind))

	snap, ok := cache.Get("BOS")
	require.True(t, ok)

	got, ok := snap.Get(weather.KindCloudCover)
	require.True(t, ok)
	assert.Equal(t, cloud, got)

	got, ok = snap.Get(weather.KindWind)
	require.True(t, ok)
	assert.Equal(t, wind, got)
}

func TestValidatorApply_Failures(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		kind    string
		mean    float64
		wantErr error
	}{
		{name: "unknown station", code: "XYZ", kind: "WIND", mean: 1, wantErr: weather.ErrNotFound},
		{name: "unknown kind", code: "BOS", kind: "NO__SUCH__TYPE", mean: 1, wantErr: weather.ErrInvalidType},
		{name: "below low bound", code: "BOS", kind: "TEMPERATURE", mean: -51, wantErr: weather.ErrOutOfRange},
		{name: "at upper bound", code: "BOS", kind: "HUMIDITY", mean: 100, wantErr: weather.ErrOutOfRange},
		{name: "pressure too low", code: "BOS", kind: "PRESSURE", mean: 649.99, wantErr: weather.ErrOutOfRange},
		{name: "negative wind", code: "BOS", kind: "WIND", mean: -1, wantErr: weather.ErrOutOfRange},
		// Station is resolved before the kind.
		{name: "unknown station and kind", code: "XYZ", kind: "NOPE", mean: 1, wantErr: weather.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, cache := newValidator(t)

			err := v.Apply(tt.code, tt.kind, weather.Reading{Mean: tt.mean})
			assert.ErrorIs(t, err, tt.wantErr)

			_, ok := cache.Get(tt.code)
			assert.False(t, ok, "rejected reading must not create a snapshot")
		})
	}
}

func TestValidatorApply_BoundaryValues(t *testing.T) {
	for _, kind := range weather.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			v, _ := newValidator(t)
			b := kind.Bounds()

			assert.NoError(t, v.Apply("BOS", kind.String(), weather.Reading{Mean: b.Low}))
			assert.ErrorIs(t, v.Apply("BOS", kind.String(), weather.Reading{Mean: b.High}), weather.ErrOutOfRange)
		})
	}
}

func TestValidatorApply_RejectionKeepsExistingSnapshot(t *testing.T) {
	v, cache := newValidator(t)

	good := weather.Reading{Mean: 700}
	require.NoError(t, v.Apply("BOS", "pressure", good))
	require.ErrorIs(t, v.Apply("BOS", "pressure", weather.Reading{Mean: 900}), weather.ErrOutOfRange)

	snap, _ := cache.Get("BOS")
	got, ok := snap.Get(weather.KindPressure)
	require.True(t, ok)
	assert.Equal(t, good, got)
}
