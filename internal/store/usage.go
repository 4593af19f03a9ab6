package store

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/i474232898/airport-weather/internal/weather"
)

// defaultHistogramMax is the last histogram slot reported before any radius
// request has been recorded.
const defaultHistogramMax = 1000

// Usage records how the query surface is used: a request counter per station
// and a process-wide histogram of requested radii.
type Usage struct {
	// key: station code, value: *atomic.Int64
	stations sync.Map

	mu      sync.Mutex
	radii   map[int]int // truncated radius -> requests
	maxSeen int         // -1 until the first radius is recorded
}

// NewUsage creates an empty Usage recorder.
func NewUsage() *Usage {
	return &Usage{
		radii:   make(map[int]int),
		maxSeen: -1,
	}
}

// RecordStationRequest counts one request for code. A request racing with
// Clear for the same code may recreate the counter.
func (u *Usage) RecordStationRequest(code string) {
	v, ok := u.stations.Load(code)
	if !ok {
		v, _ = u.stations.LoadOrStore(code, new(atomic.Int64))
	}
	v.(*atomic.Int64).Add(1)
}

// RecordRadiusRequest counts one request in the bucket of the truncated
// radius. Negative, non-finite and larger than weather.MaxRadiusKm radii
// are ignored.
func (u *Usage) RecordRadiusRequest(radiusKm float64) {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 || radiusKm > weather.MaxRadiusKm {
		return
	}
	// Truncation, not rounding: 9.99 lands in bucket 9.
	bucket := int(radiusKm)

	u.mu.Lock()
	defer u.mu.Unlock()

	u.radii[bucket]++
	if bucket > u.maxSeen {
		u.maxSeen = bucket
	}
}

// StationRequests returns the number of requests recorded for code.
func (u *Usage) StationRequests(code string) int {
	v, ok := u.stations.Load(code)
	if !ok {
		return 0
	}
	return int(v.(*atomic.Int64).Load())
}

// Clear drops the counter for code. The radius histogram is unaffected.
func (u *Usage) Clear(code string) {
	u.stations.Delete(code)
}

// StationFrequency reports, for every code given, its share of all recorded
// station requests. Codes without requests report 0, and every code reports
// 0 when nothing has been recorded yet.
func (u *Usage) StationFrequency(codes []string) map[string]float64 {
	counts := make(map[string]int64)
	var total int64
	u.stations.Range(func(k, v any) bool {
		n := v.(*atomic.Int64).Load()
		counts[k.(string)] = n
		total += n
		return true
	})

	freq := make(map[string]float64, len(codes))
	for _, code := range codes {
		if total == 0 {
			freq[code] = 0
			continue
		}
		freq[code] = float64(counts[code]) / float64(total)
	}
	return freq
}

// RadiusHistogram returns a dense histogram indexed 0..max, where max is the
// largest bucket ever recorded (defaultHistogramMax before the first one).
// Slot i holds the number of requests whose truncated radius equals i.
func (u *Usage) RadiusHistogram() []int {
	u.mu.Lock()
	defer u.mu.Unlock()

	last := u.maxSeen
	if last < 0 {
		last = defaultHistogramMax
	}

	hist := make([]int, last+1)
	for bucket, n := range u.radii {
		hist[bucket] += n
	}
	return hist
}
