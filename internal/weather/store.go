package weather

import "time"

// StationStore is the contract the station registry must satisfy.
type StationStore interface {
	Add(st Station)
	Remove(code string) error
	Get(code string) (Station, bool)
	Around(origin Station, radiusKm float64) []Station
	AllCodes() []string
}

// SnapshotStore is the contract the latest-reading cache must satisfy.
// Implementations hand out and keep independent copies.
type SnapshotStore interface {
	Get(code string) (Snapshot, bool)
	Put(code string, snapshot Snapshot)
	Clear(code string)
	CountFresherThan(window time.Duration) int
}

// UsageRecorder keeps request telemetry: per-station counters and a
// global histogram of requested radii.
type UsageRecorder interface {
	RecordStationRequest(code string)
	RecordRadiusRequest(radiusKm float64)
	StationRequests(code string) int
	Clear(code string)
	StationFrequency(codes []string) map[string]float64
	RadiusHistogram() []int
}
