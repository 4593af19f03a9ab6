package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/airport-weather/internal/weather"
)

// Column positions in an OpenFlights airports.dat row (1-based).
const (
	codeColumn      = 5
	latitudeColumn  = 7
	longitudeColumn = 8
)

var validate = validator.New()

// Record is one station parsed from the input, with its line number.
type Record struct {
	Line    int
	Station weather.Station
}

// Skip describes an input line that was not turned into a Record.
type Skip struct {
	Line   int
	Reason string
}

// Parse reads airport rows from r. Rows with a code that is not three
// characters, repeated codes, and rows with unusable coordinates are skipped.
// Only I/O and CSV syntax problems are returned as errors.
func Parse(r io.Reader) ([]Record, []Skip, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var (
		records []Record
		skips   []Skip
		seen    = make(map[string]bool)
	)

	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		if len(fields) < longitudeColumn {
			skips = append(skips, Skip{Line: line, Reason: fmt.Sprintf("expected at least %d columns, got %d", longitudeColumn, len(fields))})
			continue
		}

		code := strings.TrimSpace(fields[codeColumn-1])
		if len(code) != 3 {
			skips = append(skips, Skip{Line: line, Reason: fmt.Sprintf("code is not three characters: %q", code)})
			continue
		}
		if seen[code] {
			skips = append(skips, Skip{Line: line, Reason: fmt.Sprintf("duplicate code: %q", code)})
			continue
		}
		seen[code] = true

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(fields[latitudeColumn-1]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(fields[longitudeColumn-1]), 64)
		if errLat != nil || errLon != nil {
			skips = append(skips, Skip{Line: line, Reason: fmt.Sprintf("number format: latitude %q, longitude %q", fields[latitudeColumn-1], fields[longitudeColumn-1])})
			continue
		}

		st := weather.Station{Code: code, Latitude: lat, Longitude: lon}
		if err := validate.Struct(st); err != nil {
			skips = append(skips, Skip{Line: line, Reason: err.Error()})
			continue
		}

		records = append(records, Record{Line: line, Station: st})
	}

	return records, skips, nil
}
