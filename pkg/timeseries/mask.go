package timeseries

import "math"

// Masking utilities. Every derived arithmetic quantity in the pipelines is
// passed through one of these immediately after it is computed, so a
// divide-by-zero or out-of-range result becomes an explicit missing value
// instead of an Inf or a bogus number propagating downstream.

// MaskNonFinite replaces every Inf or NaN value with NaN and reports how
// many values were newly masked (pre-existing NaNs are not counted).
func (s *Series) MaskNonFinite() (*Series, int) {
	out := s.Copy()
	masked := 0
	for i, v := range out.Values {
		if math.IsInf(v, 0) {
			out.Values[i] = math.NaN()
			masked++
		}
	}
	return out, masked
}

// MaskWhere replaces values with NaN wherever cond holds for the paired
// value in ref. The two series must share a timestamp grid.
func (s *Series) MaskWhere(ref *Series, cond func(float64) bool) (*Series, int) {
	out := s.Copy()
	masked := 0
	for i := range out.Values {
		if i >= ref.Len() {
			break
		}
		if cond(ref.Values[i]) && !math.IsNaN(out.Values[i]) {
			out.Values[i] = math.NaN()
			masked++
		}
	}
	return out, masked
}

// MaskAbove replaces values greater than ceiling with NaN.
func (s *Series) MaskAbove(ceiling float64) (*Series, int) {
	return s.MaskWhereValue(func(v float64) bool { return v > ceiling })
}

// MaskBelow replaces values less than floor with NaN.
func (s *Series) MaskBelow(floor float64) (*Series, int) {
	return s.MaskWhereValue(func(v float64) bool { return v < floor })
}

// MaskWhereValue replaces values satisfying cond with NaN.
func (s *Series) MaskWhereValue(cond func(float64) bool) (*Series, int) {
	out := s.Copy()
	masked := 0
	for i, v := range out.Values {
		if !math.IsNaN(v) && cond(v) {
			out.Values[i] = math.NaN()
			masked++
		}
	}
	return out, masked
}

// ClampMin replaces values below floor with floor itself. Used where a
// negative result is a physical impossibility rather than a bad reading,
// e.g. modeled irradiance with the sun below the horizon.
func (s *Series) ClampMin(floor float64) *Series {
	out := s.Copy()
	for i, v := range out.Values {
		if !math.IsNaN(v) && v < floor {
			out.Values[i] = floor
		}
	}
	return out
}
