package weather

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Service composes the station registry, the snapshot cache and the usage
// recorder behind the operations the collect and query surfaces need.
type Service struct {
	stations  StationStore
	snapshots SnapshotStore
	usage     UsageRecorder
	validator *Validator

	// freshWindow bounds how old a snapshot may be and still count in Health.
	freshWindow time.Duration
}

// NewService creates a new Service.
func NewService(stations StationStore, snapshots SnapshotStore, usage UsageRecorder, freshWindow time.Duration) *Service {
	return &Service{
		stations:    stations,
		snapshots:   snapshots,
		usage:       usage,
		validator:   NewValidator(stations, snapshots),
		freshWindow: freshWindow,
	}
}

// AddStation registers st, replacing any station with the same code.
func (s *Service) AddStation(st Station) {
	s.stations.Add(st)
}

// Station returns the registered station for code.
func (s *Service) Station(code string) (Station, error) {
	st, ok := s.stations.Get(code)
	if !ok {
		return Station{}, fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	return st, nil
}

// StationCodes returns every registered code in ascending order.
func (s *Service) StationCodes() []string {
	codes := s.stations.AllCodes()
	sort.Strings(codes)
	return codes
}

// RemoveStation unregisters code and drops its usage counter and snapshot.
func (s *Service) RemoveStation(code string) error {
	if _, ok := s.stations.Get(code); !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	s.usage.Clear(code)
	s.snapshots.Clear(code)
	return s.stations.Remove(code)
}

// Submit validates a reading and merges it into the station's snapshot.
func (s *Service) Submit(code, kindName string, r Reading) error {
	return s.validator.Apply(code, kindName, r)
}

// Query records the request and returns the latest snapshots around code.
// A zero radius yields only the origin's snapshot; otherwise every station
// within radiusKm (boundary included) that has a snapshot contributes one.
func (s *Service) Query(code string, radiusKm float64) ([]Snapshot, error) {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 || radiusKm > MaxRadiusKm {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radiusKm)
	}

	origin, ok := s.stations.Get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	s.usage.RecordStationRequest(origin.Code)
	s.usage.RecordRadiusRequest(radiusKm)

	result := make([]Snapshot, 0)
	if radiusKm == 0 {
		if snap, ok := s.snapshots.Get(origin.Code); ok {
			result = append(result, snap)
		}
		return result, nil
	}

	for _, st := range s.stations.Around(origin, radiusKm) {
		if snap, ok := s.snapshots.Get(st.Code); ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

// Health reports how many stations have fresh data together with the
// request frequency of every registered station and the radius histogram.
func (s *Service) Health() Health {
	return Health{
		DataSize:    s.snapshots.CountFresherThan(s.freshWindow),
		StationFreq: s.usage.StationFrequency(s.stations.AllCodes()),
		RadiusFreq:  s.usage.RadiusHistogram(),
	}
}
