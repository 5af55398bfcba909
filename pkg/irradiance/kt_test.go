package irradiance

import (
	"math"
	"testing"
	"time"

	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

const (
	sheffieldLat = 53.381
	sheffieldLon = -1.486
)

// syntheticMeasured builds an hourly measured series equal to factor times
// the modeled hourly reference over the given window.
func syntheticMeasured(t *testing.T, start, end time.Time, factor float64) *timeseries.Series {
	t.Helper()
	ref, err := ReferenceSeries(start, end, time.Minute, sheffieldLat, sheffieldLon)
	if err != nil {
		t.Fatal(err)
	}
	hourly, err := ref.Resample(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return hourly.Scale(factor)
}

func TestDeriveKTNightIsMissing(t *testing.T) {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC)
	measured := syntheticMeasured(t, start, end, 1.0)

	res, err := DeriveKT(KTParams{
		Latitude:  sheffieldLat,
		Longitude: sheffieldLon,
		Start:     start,
		End:       end,
	}, measured)
	if err != nil {
		t.Fatal(err)
	}

	sawNight := false
	for i := range res.KT.Values {
		ref := res.Reference.Values[i]
		if ref == 0 {
			sawNight = true
			if !math.IsNaN(res.KT.Values[i]) {
				t.Errorf("KT at %s is %v with zero reference, want missing",
					res.KT.Times[i], res.KT.Values[i])
			}
		}
	}
	if !sawNight {
		t.Fatal("test window contained no night hours")
	}
}

func TestDeriveKTUnityRatio(t *testing.T) {
	start := time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 6, 2, 0, 0, 0, 0, time.UTC)
	measured := syntheticMeasured(t, start, end, 1.0)

	res, err := DeriveKT(KTParams{
		Latitude:  sheffieldLat,
		Longitude: sheffieldLon,
		Start:     start,
		End:       end,
	}, measured)
	if err != nil {
		t.Fatal(err)
	}

	if res.KT.CountValid() == 0 {
		t.Fatal("expected valid daytime KT values")
	}
	for i, v := range res.KT.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(v-1.0) > 1e-9 {
			t.Errorf("KT at %s = %v, want 1.0 for measured==reference", res.KT.Times[i], v)
		}
	}
}

func TestDeriveKTPlausibilityCeiling(t *testing.T) {
	start := time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		factor     float64
		wantMasked bool
	}{
		{"ratio 1.5 is an instrument artifact", 1.5, true},
		{"ratio 0.8 is retained unchanged", 0.8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			measured := syntheticMeasured(t, start, end, tt.factor)
			res, err := DeriveKT(KTParams{
				Latitude:  sheffieldLat,
				Longitude: sheffieldLon,
				Start:     start,
				End:       end,
			}, measured)
			if err != nil {
				t.Fatal(err)
			}

			if tt.wantMasked {
				if res.KT.CountValid() != 0 {
					t.Errorf("expected every ratio %.1f masked, %d survived",
						tt.factor, res.KT.CountValid())
				}
				if res.MaskedImplausible == 0 {
					t.Error("expected implausible-mask count > 0")
				}
			} else {
				if res.KT.CountValid() == 0 {
					t.Fatal("expected valid KT values")
				}
				for _, v := range res.KT.Values {
					if !math.IsNaN(v) && math.Abs(v-tt.factor) > 1e-9 {
						t.Errorf("KT = %v, want %v retained unchanged", v, tt.factor)
					}
				}
			}
		})
	}
}

func TestDeriveKTUnitScale(t *testing.T) {
	start := time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 6, 2, 0, 0, 0, 0, time.UTC)

	// The same measurements expressed in kW/m² with UnitScale 1000 must
	// produce the identical KT series as the W/m² original.
	watts := syntheticMeasured(t, start, end, 0.75)
	kilowatts := watts.Scale(1e-3)

	direct, err := DeriveKT(KTParams{
		Latitude: sheffieldLat, Longitude: sheffieldLon,
		Start: start, End: end,
	}, watts)
	if err != nil {
		t.Fatal(err)
	}
	converted, err := DeriveKT(KTParams{
		Latitude: sheffieldLat, Longitude: sheffieldLon,
		Start: start, End: end,
		UnitScale: 1000,
	}, kilowatts)
	if err != nil {
		t.Fatal(err)
	}

	if direct.KT.Len() != converted.KT.Len() {
		t.Fatalf("length mismatch: %d vs %d", direct.KT.Len(), converted.KT.Len())
	}
	for i := range direct.KT.Values {
		a, b := direct.KT.Values[i], converted.KT.Values[i]
		if math.IsNaN(a) != math.IsNaN(b) {
			t.Errorf("index %d: missing-ness differs", i)
			continue
		}
		if !math.IsNaN(a) && math.Abs(a-b) > 1e-9 {
			t.Errorf("index %d: %v != %v", i, a, b)
		}
	}
}

func TestDeriveKTRejectsBadWindow(t *testing.T) {
	measured := syntheticMeasured(t,
		time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2014, 6, 2, 0, 0, 0, 0, time.UTC), 1)

	_, err := DeriveKT(KTParams{
		Latitude: sheffieldLat, Longitude: sheffieldLon,
		Start: time.Date(2014, 6, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC),
	}, measured)
	if err == nil {
		t.Error("expected error for end before start")
	}

	_, err = DeriveKT(KTParams{
		Latitude: sheffieldLat, Longitude: sheffieldLon,
		Start: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2015, 6, 2, 0, 0, 0, 0, time.UTC),
	}, measured)
	if err == nil {
		t.Error("expected error for non-overlapping measured series")
	}
}
