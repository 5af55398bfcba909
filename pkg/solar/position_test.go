package solar

import (
	"math"
	"testing"
	"time"
)

func TestGetPosition(t *testing.T) {
	tests := []struct {
		name         string
		when         time.Time
		lat, lon     float64
		maxZenith    float64 // assert zenith below this
		minZenith    float64 // assert zenith above this
		azimuthNear  float64 // expected azimuth ±20°, negative to skip
	}{
		{
			name:        "equator near equinox noon, sun overhead",
			when:        time.Date(2014, 3, 20, 12, 0, 0, 0, time.UTC),
			lat:         0, lon: 0,
			maxZenith:   5,
			minZenith:   0,
			azimuthNear: -1,
		},
		{
			name:        "Sheffield midnight, sun below horizon",
			when:        time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
			lat:         53.381, lon: -1.486,
			maxZenith:   180,
			minZenith:   90,
			azimuthNear: -1,
		},
		{
			name:        "Sheffield summer noon, sun to the south",
			when:        time.Date(2014, 6, 21, 12, 0, 0, 0, time.UTC),
			lat:         53.381, lon: -1.486,
			maxZenith:   35,
			minZenith:   25,
			azimuthNear: 180,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := GetPosition(tt.when, tt.lat, tt.lon)
			if pos.ZenithDeg < tt.minZenith || pos.ZenithDeg > tt.maxZenith {
				t.Errorf("zenith %.2f outside [%.1f, %.1f]", pos.ZenithDeg, tt.minZenith, tt.maxZenith)
			}
			if tt.azimuthNear >= 0 && math.Abs(pos.AzimuthDeg-tt.azimuthNear) > 20 {
				t.Errorf("azimuth %.2f not near %.1f", pos.AzimuthDeg, tt.azimuthNear)
			}
		})
	}
}

func TestApparentZenithRefraction(t *testing.T) {
	// Refraction lifts the apparent sun, so the apparent zenith is
	// never larger than the true zenith for daytime elevations.
	pos := GetPosition(time.Date(2014, 6, 21, 18, 30, 0, 0, time.UTC), 53.381, -1.486)
	if pos.ApparentZenithDeg > pos.ZenithDeg {
		t.Errorf("apparent zenith %.3f exceeds true zenith %.3f", pos.ApparentZenithDeg, pos.ZenithDeg)
	}
	if pos.ZenithDeg-pos.ApparentZenithDeg > 1 {
		t.Errorf("refraction correction implausibly large: %.3f°", pos.ZenithDeg-pos.ApparentZenithDeg)
	}
}

func TestExtraterrestrial(t *testing.T) {
	tests := []struct {
		name     string
		when     time.Time
		min, max float64
	}{
		{
			name: "early January, near perihelion",
			when: time.Date(2014, 1, 3, 12, 0, 0, 0, time.UTC),
			min:  1400, max: 1420,
		},
		{
			name: "early July, near aphelion",
			when: time.Date(2014, 7, 4, 12, 0, 0, 0, time.UTC),
			min:  1310, max: 1330,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extraterrestrial(tt.when)
			if got < tt.min || got > tt.max {
				t.Errorf("Extraterrestrial() = %.1f, want within [%.0f, %.0f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestExtraterrestrialHorizontal(t *testing.T) {
	noon := time.Date(2014, 6, 21, 12, 0, 0, 0, time.UTC)

	// Sun below the horizon: projection clamps to zero, never negative.
	if got := ExtraterrestrialHorizontal(noon, 120); got != 0 {
		t.Errorf("sub-horizon projection = %v, want 0", got)
	}

	// Sun overhead: full normal irradiance.
	full := Extraterrestrial(noon)
	if got := ExtraterrestrialHorizontal(noon, 0); math.Abs(got-full) > 1e-9 {
		t.Errorf("overhead projection = %v, want %v", got, full)
	}

	// At 60° zenith the projection is half the normal irradiance.
	if got := ExtraterrestrialHorizontal(noon, 60); math.Abs(got-full/2) > 1e-6 {
		t.Errorf("60° projection = %v, want %v", got, full/2)
	}
}
