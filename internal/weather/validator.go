package weather

import "fmt"

// Validator accepts incoming readings and folds them into a station's
// latest snapshot.
//
// The merge is a fetch-modify-write over two separate cache calls. Two
// concurrent readings of different kinds for the same station may race and
// the later write wins with only its own kind updated.
type Validator struct {
	stations  StationStore
	snapshots SnapshotStore
}

// NewValidator creates a new Validator.
func NewValidator(stations StationStore, snapshots SnapshotStore) *Validator {
	return &Validator{
		stations:  stations,
		snapshots: snapshots,
	}
}

// Apply validates r against the station registry and the bounds for
// kindName, then replaces that kind's slot in the station's snapshot.
// Any failure leaves the cache untouched.
func (v *Validator) Apply(code, kindName string, r Reading) error {
	st, ok := v.stations.Get(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	kind, err := ParseKind(kindName)
	if err != nil {
		return err
	}

	b := kind.Bounds()
	if !b.Contains(r.Mean) {
		return fmt.Errorf("%w for %s: mean %v not in [%v, %v)", ErrOutOfRange, kind, r.Mean, b.Low, b.High)
	}

	// A station without a snapshot starts from the all-absent zero value.
	snapshot, _ := v.snapshots.Get(st.Code)
	snapshot.Set(kind, r)
	v.snapshots.Put(st.Code, snapshot)
	return nil
}
