package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/i474232898/airport-weather/internal/weather"
)

// Registry is a concurrency-safe in-memory station registry keyed by code.
// Stations are immutable values, so lookups hand out copies by construction.
type Registry struct {
	// key: station code, value: weather.Station
	stations sync.Map
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores st, overwriting any station registered under the same code.
func (r *Registry) Add(st weather.Station) {
	r.stations.Store(st.Code, st)
}

// Remove deletes the station registered under code.
func (r *Registry) Remove(code string) error {
	if _, loaded := r.stations.LoadAndDelete(code); !loaded {
		return fmt.Errorf("%w: %q", weather.ErrNotFound, code)
	}
	return nil
}

// Get returns the station registered under code.
func (r *Registry) Get(code string) (weather.Station, bool) {
	v, ok := r.stations.Load(code)
	if !ok {
		return weather.Station{}, false
	}
	return v.(weather.Station), true
}

// Around returns every registered station whose great-circle distance from
// origin is at most radiusKm, nearest first. This is a full scan.
func (r *Registry) Around(origin weather.Station, radiusKm float64) []weather.Station {
	type candidate struct {
		station  weather.Station
		distance float64
	}

	var found []candidate
	r.stations.Range(func(_, v any) bool {
		st := v.(weather.Station)
		if d := weather.Distance(origin, st); d <= radiusKm {
			found = append(found, candidate{station: st, distance: d})
		}
		return true
	})

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].station.Code < found[j].station.Code
	})

	result := make([]weather.Station, 0, len(found))
	for _, c := range found {
		result = append(result, c.station)
	}
	return result
}

// AllCodes returns the codes of every registered station in no particular order.
func (r *Registry) AllCodes() []string {
	codes := make([]string, 0)
	r.stations.Range(func(k, _ any) bool {
		codes = append(codes, k.(string))
		return true
	})
	return codes
}
