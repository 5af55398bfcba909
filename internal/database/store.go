// Package database persists derived series to TimescaleDB or sqlite.
package database

import (
	"math"
	"time"

	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

// Store is the persistence interface shared by the TimescaleDB and sqlite
// backends.
type Store interface {
	SaveRun(run *AnalysisRun, series map[string]*timeseries.Series) error
	ListRuns() ([]AnalysisRun, error)
	GetRun(id string) (*AnalysisRun, error)
	GetSeries(runID, name string) (*timeseries.Series, error)
	Close() error
}

func toPoints(runID, name string, s *timeseries.Series) []SeriesPoint {
	points := make([]SeriesPoint, 0, s.Len())
	for i, t := range s.Times {
		p := SeriesPoint{RunID: runID, Name: name, Time: t}
		if v := s.Values[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			val := v
			p.Value = &val
		}
		points = append(points, p)
	}
	return points
}

func fromPoints(points []SeriesPoint) (*timeseries.Series, error) {
	times := make([]time.Time, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
		if p.Value != nil {
			values[i] = *p.Value
		} else {
			values[i] = math.NaN()
		}
	}
	return timeseries.New(times, values)
}
