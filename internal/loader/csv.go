// Package loader reads measurement CSV files into series and curves.
// Loading fails fast on missing columns, unparseable values or a
// non-monotonic time index; it never continues with corrupted data.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/solarpvlab/irradiance/pkg/spectrum"
	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

var nanValue = math.NaN()

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		// Empty cell is a missing reading, not a load error.
		return nanValue, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable numeric value %q", s)
	}
	return v, nil
}

// LoadGHISeries reads a two-column CSV (timestamp, irradiance) with a
// header row into a series. Timestamps are interpreted as UTC.
func LoadGHISeries(filename string) (*timeseries.Series, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", filename, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: need at least 2 columns, header has %d", filename, len(header))
	}

	var times []time.Time
	var values []float64
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filename, line, err)
		}
		t, err := parseTimestamp(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filename, line, err)
		}
		v, err := parseValue(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filename, line, err)
		}
		times = append(times, t)
		values = append(values, v)
	}

	s, err := timeseries.New(times, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// LoadTestbed reads a pyranometer testbed CSV with columns labeled
// exactly dateandtime, GHI and DHI (any order, extra columns ignored)
// and returns the ghi and dhi series on a shared UTC timestamp grid.
func LoadTestbed(filename string) (ghi, dhi *timeseries.Series, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: reading header: %w", filename, err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	tsCol, ok := cols["dateandtime"]
	if !ok {
		return nil, nil, fmt.Errorf("%s: missing required column dateandtime", filename)
	}
	ghiCol, ok := cols["GHI"]
	if !ok {
		return nil, nil, fmt.Errorf("%s: missing required column GHI", filename)
	}
	dhiCol, ok := cols["DHI"]
	if !ok {
		return nil, nil, fmt.Errorf("%s: missing required column DHI", filename)
	}

	var times []time.Time
	var ghiVals, dhiVals []float64
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", filename, line, err)
		}
		t, err := parseTimestamp(rec[tsCol])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", filename, line, err)
		}
		g, err := parseValue(rec[ghiCol])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d (GHI): %w", filename, line, err)
		}
		d, err := parseValue(rec[dhiCol])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d (DHI): %w", filename, line, err)
		}
		times = append(times, t)
		ghiVals = append(ghiVals, g)
		dhiVals = append(dhiVals, d)
	}

	ghi, err = timeseries.New(times, ghiVals)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	dhi, err = timeseries.New(times, dhiVals)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ghi, dhi, nil
}

// LoadSpectrum reads a two-column spectral CSV (wavelength nm, power)
// with one header row to skip.
func LoadSpectrum(filename string) (*spectrum.Curve, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", filename, err)
	}

	var wavelengths, power []float64
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filename, line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s line %d: need 2 columns, got %d", filename, line, len(rec))
		}
		wl, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: unparseable wavelength %q", filename, line, rec[0])
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: unparseable power %q", filename, line, rec[1])
		}
		wavelengths = append(wavelengths, wl)
		power = append(power, p)
	}

	c, err := spectrum.NewCurve(wavelengths, power)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}
