package weather

import "errors"

var (
	// ErrNotFound is returned when the referenced station is not registered.
	ErrNotFound = errors.New("station not found")

	// ErrInvalidType is returned when a reading kind name is not recognized.
	ErrInvalidType = errors.New("reading kind is not recognized")

	// ErrOutOfRange is returned when a reading mean falls outside its kind's bounds.
	ErrOutOfRange = errors.New("reading mean is outside of regular bounds")

	// ErrInvalidRadius is returned for negative or non-finite query radii.
	ErrInvalidRadius = errors.New("invalid radius")
)
