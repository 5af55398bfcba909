// Package timeseries provides a columnar time series type for irradiance
// analysis pipelines. Missing values are represented as NaN; every derived
// quantity is masked through this package rather than ad hoc per pipeline.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Series is an immutable-by-convention time series: parallel slices of
// UTC timestamps and values. NaN marks a missing value. Operations return
// new Series and never mutate the receiver.
type Series struct {
	Times  []time.Time
	Values []float64
}

// New validates and builds a Series. Timestamps must be monotonically
// increasing with no duplicates, and are normalized to UTC.
func New(times []time.Time, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("timeseries: %d timestamps but %d values", len(times), len(values))
	}
	ts := make([]time.Time, len(times))
	for i, t := range times {
		ts[i] = t.UTC()
		if i > 0 && !ts[i].After(ts[i-1]) {
			return nil, fmt.Errorf("timeseries: non-increasing timestamp %s at index %d", ts[i], i)
		}
	}
	vs := make([]float64, len(values))
	copy(vs, values)
	return &Series{Times: ts, Values: vs}, nil
}

// Range builds a regular grid of timestamps from start to end inclusive
// at the given step, with all values missing. Used as the evaluation grid
// for modeled quantities.
func Range(start, end time.Time, step time.Duration) (*Series, error) {
	if step <= 0 {
		return nil, fmt.Errorf("timeseries: non-positive step %s", step)
	}
	start = start.UTC()
	end = end.UTC()
	if end.Before(start) {
		return nil, fmt.Errorf("timeseries: end %s before start %s", end, start)
	}
	n := int(end.Sub(start)/step) + 1
	s := &Series{
		Times:  make([]time.Time, n),
		Values: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.Times[i] = start.Add(time.Duration(i) * step)
		s.Values[i] = math.NaN()
	}
	return s, nil
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.Times) }

// Copy returns a deep copy.
func (s *Series) Copy() *Series {
	out := &Series{
		Times:  make([]time.Time, len(s.Times)),
		Values: make([]float64, len(s.Values)),
	}
	copy(out.Times, s.Times)
	copy(out.Values, s.Values)
	return out
}

// Scale multiplies every value by factor. Unit conversions (e.g. kW/m² to
// W/m²) must go through here so the correction is explicit in the caller.
func (s *Series) Scale(factor float64) *Series {
	out := s.Copy()
	for i := range out.Values {
		out.Values[i] *= factor
	}
	return out
}

// Resample aggregates the series into bins of the given width by
// NaN-skipping mean. Output timestamps label the start of each bin. Bins
// with no finite samples produce a missing value. Bin edges are aligned to
// the Unix epoch so repeated resampling to coarser widths composes with a
// single direct resample.
func (s *Series) Resample(width time.Duration) (*Series, error) {
	if width <= 0 {
		return nil, fmt.Errorf("timeseries: non-positive bin width %s", width)
	}
	if s.Len() == 0 {
		return &Series{}, nil
	}
	var (
		times []time.Time
		vals  []float64
	)
	binStart := s.Times[0].Truncate(width)
	sum, count := 0.0, 0
	flush := func() {
		if count > 0 {
			vals = append(vals, sum/float64(count))
		} else {
			vals = append(vals, math.NaN())
		}
		times = append(times, binStart)
		sum, count = 0, 0
	}
	for i, t := range s.Times {
		b := t.Truncate(width)
		if b.After(binStart) {
			flush()
			binStart = b
		}
		if !math.IsNaN(s.Values[i]) {
			sum += s.Values[i]
			count++
		}
	}
	flush()
	return &Series{Times: times, Values: vals}, nil
}

// Align inner-joins two series on their timestamps, returning the values
// of s and other at each shared timestamp.
func (s *Series) Align(other *Series) (*Series, *Series) {
	var (
		times []time.Time
		left  []float64
		right []float64
		i, j  int
	)
	for i < s.Len() && j < other.Len() {
		switch {
		case s.Times[i].Before(other.Times[j]):
			i++
		case other.Times[j].Before(s.Times[i]):
			j++
		default:
			times = append(times, s.Times[i])
			left = append(left, s.Values[i])
			right = append(right, other.Values[j])
			i++
			j++
		}
	}
	return &Series{Times: times, Values: left}, &Series{Times: times, Values: right}
}

// Slice returns the sub-series covering [start, end] inclusive.
func (s *Series) Slice(start, end time.Time) *Series {
	start = start.UTC()
	end = end.UTC()
	lo := sort.Search(s.Len(), func(i int) bool { return !s.Times[i].Before(start) })
	hi := sort.Search(s.Len(), func(i int) bool { return s.Times[i].After(end) })
	return &Series{Times: s.Times[lo:hi:hi], Values: s.Values[lo:hi:hi]}
}

// CountValid returns the number of finite values.
func (s *Series) CountValid() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

// ValidValues returns the finite values in time order, for use with
// gonum's stat functions which operate on bare float slices.
func (s *Series) ValidValues() []float64 {
	out := make([]float64, 0, s.Len())
	for _, v := range s.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
