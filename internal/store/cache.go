package store

import (
	"sync"
	"time"

	"github.com/i474232898/airport-weather/internal/weather"
)

// Cache holds the latest snapshot per station.
//
// Snapshots are values: Put stores its own copy and Get returns a fresh one,
// so callers never alias stored state. Each station's snapshot is replaced
// as a whole, which means a reader sees either the full old or the full new
// snapshot. Different stations never contend on a shared lock.
type Cache struct {
	// key: station code, value: weather.Snapshot
	entries sync.Map

	now func() time.Time
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// Get returns a copy of the station's current snapshot.
func (c *Cache) Get(code string) (weather.Snapshot, bool) {
	v, ok := c.entries.Load(code)
	if !ok {
		return weather.Snapshot{}, false
	}
	return v.(weather.Snapshot), true
}

// Put replaces the station's snapshot with a copy of snapshot and stamps
// its update time.
func (c *Cache) Put(code string, snapshot weather.Snapshot) {
	snapshot.Updated = c.now()
	c.entries.Store(code, snapshot)
}

// Clear drops the station's snapshot.
func (c *Cache) Clear(code string) {
	c.entries.Delete(code)
}

// CountFresherThan returns how many snapshots were updated strictly after
// now minus window.
func (c *Cache) CountFresherThan(window time.Duration) int {
	cutoff := c.now().Add(-window)

	n := 0
	c.entries.Range(func(_, v any) bool {
		if v.(weather.Snapshot).Updated.After(cutoff) {
			n++
		}
		return true
	})
	return n
}
