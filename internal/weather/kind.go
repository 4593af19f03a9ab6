package weather

import (
	"fmt"
	"math"
	"strings"
)

// Kind is one of the fixed measurement categories a station reports.
type Kind int

const (
	KindWind Kind = iota
	KindTemperature
	KindHumidity
	KindPressure
	KindCloudCover
	KindPrecipitation

	kindCount
)

var kindNames = [kindCount]string{
	KindWind:          "WIND",
	KindTemperature:   "TEMPERATURE",
	KindHumidity:      "HUMIDITY",
	KindPressure:      "PRESSURE",
	KindCloudCover:    "CLOUDCOVER",
	KindPrecipitation: "PRECIPITATION",
}

// Bounds is a half-open range [Low, High) a reading mean must fall into.
type Bounds struct {
	Low  float64
	High float64
}

// Contains reports whether Low <= v < High. NaN is never contained.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Low && v < b.High
}

var kindBounds = [kindCount]Bounds{
	KindWind:          {Low: 0, High: math.Inf(1)},
	KindTemperature:   {Low: -50, High: 100},
	KindHumidity:      {Low: 0, High: 100},
	KindPressure:      {Low: 650, High: 800},
	KindCloudCover:    {Low: 0, High: 100},
	KindPrecipitation: {Low: 0, High: 100},
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind matches name case-insensitively against the known kinds.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, name)
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Bounds returns the accepted mean range for the kind.
func (k Kind) Bounds() Bounds {
	if !k.valid() {
		return Bounds{Low: math.Inf(1), High: math.Inf(-1)}
	}
	return kindBounds[k]
}

func (k Kind) valid() bool {
	return k >= 0 && k < kindCount
}
