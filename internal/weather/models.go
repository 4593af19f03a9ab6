package weather

import (
	"time"
)

// Station represents a registered measurement location (an airport).
// Two stations are the same station when their codes match.
type Station struct {
	Code      string  `json:"code" validate:"required,len=3,alpha"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Reading is a statistical summary of one measurement batch:
// the mean plus quartile-like markers and the number of samples.
type Reading struct {
	Mean   float64 `json:"mean"`
	First  int     `json:"first"`
	Second int     `json:"second"`
	Third  int     `json:"third"`
	Count  int     `json:"count"`
}

// Snapshot is the latest accepted reading of every kind for one station.
// A Snapshot is a plain value: assigning, passing or returning it copies
// every slot, so no two holders ever share state.
type Snapshot struct {
	readings [kindCount]Reading
	present  [kindCount]bool

	// Updated is stamped by the cache when the snapshot is stored.
	Updated time.Time
}

// Get returns the reading held for kind, if any.
func (s Snapshot) Get(kind Kind) (Reading, bool) {
	if !kind.valid() {
		return Reading{}, false
	}
	return s.readings[kind], s.present[kind]
}

// Set replaces the slot for kind, leaving all other slots untouched.
func (s *Snapshot) Set(kind Kind, r Reading) {
	if !kind.valid() {
		return
	}
	s.readings[kind] = r
	s.present[kind] = true
}

// Unset clears the slot for kind.
func (s *Snapshot) Unset(kind Kind) {
	if !kind.valid() {
		return
	}
	s.readings[kind] = Reading{}
	s.present[kind] = false
}

// Empty reports whether no slot holds a reading.
func (s Snapshot) Empty() bool {
	for _, ok := range s.present {
		if ok {
			return false
		}
	}
	return true
}

// Health is the usage and freshness report exposed on the query ping.
type Health struct {
	DataSize    int                `json:"datasize"`
	StationFreq map[string]float64 `json:"station_freq"`
	RadiusFreq  []int              `json:"radius_freq"`
}
