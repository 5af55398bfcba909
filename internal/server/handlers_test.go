package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/solarpvlab/irradiance/internal/database"
	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

type fakeStore struct {
	runs   map[string]*database.AnalysisRun
	series map[string]*timeseries.Series // key runID/name
}

func (f *fakeStore) SaveRun(run *database.AnalysisRun, series map[string]*timeseries.Series) error {
	return nil
}

func (f *fakeStore) ListRuns() ([]database.AnalysisRun, error) {
	var out []database.AnalysisRun
	for _, r := range f.runs {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) GetRun(id string) (*database.AnalysisRun, error) {
	r, ok := f.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return r, nil
}

func (f *fakeStore) GetSeries(runID, name string) (*timeseries.Series, error) {
	s, ok := f.series[runID+"/"+name]
	if !ok {
		return &timeseries.Series{}, nil
	}
	return s, nil
}

func (f *fakeStore) Close() error { return nil }

func newTestController(t *testing.T) *Controller {
	t.Helper()
	times := []time.Time{
		time.Date(2014, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2014, 6, 1, 11, 0, 0, 0, time.UTC),
	}
	s, err := timeseries.New(times, []float64{0.6, math.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	store := &fakeStore{
		runs: map[string]*database.AnalysisRun{
			"run-1": {ID: "run-1", Kind: "kt", Site: "sheffield", CreatedAt: time.Now().UTC()},
		},
		series: map[string]*timeseries.Series{
			"run-1/kt": s,
		},
	}
	return NewController(context.Background(), &sync.WaitGroup{}, ":0", store, zap.NewNop().Sugar())
}

func TestListRuns(t *testing.T) {
	ctrl := newTestController(t)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var runs []database.AnalysisRun
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestGetRun(t *testing.T) {
	ctrl := newTestController(t)

	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown run status = %d, want 404", rec.Code)
	}
}

func TestGetSeries(t *testing.T) {
	ctrl := newTestController(t)

	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run-1/series/kt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var out seriesJSON
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RunID != "run-1" || out.Name != "kt" || len(out.Points) != 2 {
		t.Fatalf("series = %+v", out)
	}
	if out.Points[0].Value == nil || *out.Points[0].Value != 0.6 {
		t.Errorf("first point = %+v", out.Points[0])
	}
	// NaN serializes as a JSON null, never as a bare NaN token.
	if out.Points[1].Value != nil {
		t.Errorf("missing point should be null, got %v", *out.Points[1].Value)
	}

	rec = httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run-1/series/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown series status = %d, want 404", rec.Code)
	}
}
