package database

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

func testSeries(t *testing.T) *timeseries.Series {
	t.Helper()
	times := []time.Time{
		time.Date(2014, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2014, 6, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2014, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	s, err := timeseries.New(times, []float64{0.61, math.NaN(), 0.72})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	run := NewRun("kt", "sheffield", "")
	if err := store.SaveRun(run, map[string]*timeseries.Series{"kt": testSeries(t)}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || runs[0].Kind != "kt" {
		t.Fatalf("ListRuns() = %+v", runs)
	}

	fetched, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Site != "sheffield" {
		t.Errorf("site = %q", fetched.Site)
	}

	s, err := store.GetSeries(run.ID, "kt")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("series has %d points, want 3", s.Len())
	}
	if s.Values[0] != 0.61 || s.Values[2] != 0.72 {
		t.Errorf("values = %v", s.Values)
	}
	// The missing value survives the NULL round trip as missing.
	if !math.IsNaN(s.Values[1]) {
		t.Errorf("missing value came back as %v", s.Values[1])
	}
	if !s.Times[0].Equal(time.Date(2014, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("first timestamp = %v", s.Times[0])
	}
}

func TestSQLiteStoreUnknownRun(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.GetRun("no-such-run"); err == nil {
		t.Error("expected error for unknown run")
	}
	s, err := store.GetSeries("no-such-run", "kt")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty series, got %d points", s.Len())
	}
}
