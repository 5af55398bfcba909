// Package irradiance implements clearness-index derivation, diffuse
// fraction decomposition and plane-of-array transposition over measured
// irradiance series.
package irradiance

import (
	"fmt"
	"math"
	"time"

	"github.com/solarpvlab/irradiance/pkg/solar"
	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

// KTParams configures a clearness-index derivation.
type KTParams struct {
	Latitude  float64
	Longitude float64
	Altitude  float64

	Start time.Time
	End   time.Time

	// Step is the fine-grained grid for the modeled reference; defaults
	// to one minute.
	Step time.Duration

	// Target is the output cadence, e.g. one hour.
	Target time.Duration

	// UnitScale multiplies the measured series before the ratio. A
	// measured series in kW/m² needs UnitScale 1000 to match the W/m²
	// reference; leaving a mismatch here silently corrupts every KT value.
	UnitScale float64

	// ReferenceFloor masks the ratio wherever the modeled reference is
	// below this many W/m², avoiding sunrise/sunset artifacts.
	ReferenceFloor float64

	// Ceiling masks implausibly high ratios caused by instrument error.
	Ceiling float64
}

// KTResult is the outcome of a derivation, including how many points each
// mask step removed. All three mask causes share the NaN missing marker;
// the counts preserve the distinction for logging.
type KTResult struct {
	KT        *timeseries.Series
	Reference *timeseries.Series // modeled horizontal reference at target cadence
	Measured  *timeseries.Series // scaled, aligned measured series

	MaskedNonFinite   int
	MaskedLowSun      int
	MaskedImplausible int
}

func (p *KTParams) defaults() error {
	if p.Step == 0 {
		p.Step = time.Minute
	}
	if p.Target == 0 {
		p.Target = time.Hour
	}
	if p.UnitScale == 0 {
		p.UnitScale = 1
	}
	if p.ReferenceFloor == 0 {
		p.ReferenceFloor = 10
	}
	if p.Ceiling == 0 {
		p.Ceiling = 1.3
	}
	if p.Target < p.Step {
		return fmt.Errorf("target cadence %s finer than reference step %s", p.Target, p.Step)
	}
	if !p.End.After(p.Start) {
		return fmt.Errorf("analysis window end %s not after start %s", p.End, p.Start)
	}
	return nil
}

// ReferenceSeries models extraterrestrial horizontal irradiance on a
// regular grid from start to end at the given step. Sub-horizon values
// are zero, not negative.
func ReferenceSeries(start, end time.Time, step time.Duration, lat, lon float64) (*timeseries.Series, error) {
	grid, err := timeseries.Range(start, end, step)
	if err != nil {
		return nil, err
	}
	for i, t := range grid.Times {
		pos := solar.GetPosition(t, lat, lon)
		grid.Values[i] = solar.ExtraterrestrialHorizontal(t, pos.ApparentZenithDeg)
	}
	return grid, nil
}

// DeriveKT computes the clearness index: the ratio of a measured global
// horizontal irradiance series to the modeled extraterrestrial horizontal
// reference, aggregated to the target cadence with bin-left labels.
func DeriveKT(p KTParams, measured *timeseries.Series) (*KTResult, error) {
	if err := p.defaults(); err != nil {
		return nil, err
	}

	ref, err := ReferenceSeries(p.Start, p.End, p.Step, p.Latitude, p.Longitude)
	if err != nil {
		return nil, fmt.Errorf("modeling reference irradiance: %w", err)
	}
	refTarget, err := ref.Resample(p.Target)
	if err != nil {
		return nil, err
	}

	measTarget, err := measured.Scale(p.UnitScale).Resample(p.Target)
	if err != nil {
		return nil, fmt.Errorf("resampling measured series: %w", err)
	}

	measAligned, refAligned := measTarget.Align(refTarget)
	if measAligned.Len() == 0 {
		return nil, fmt.Errorf("measured series does not overlap analysis window %s..%s", p.Start, p.End)
	}

	kt := measAligned.Copy()
	for i := range kt.Values {
		kt.Values[i] = measAligned.Values[i] / refAligned.Values[i]
	}

	res := &KTResult{Reference: refAligned, Measured: measAligned}
	kt, res.MaskedNonFinite = kt.MaskNonFinite()
	kt, res.MaskedLowSun = kt.MaskWhere(refAligned, func(v float64) bool {
		return math.IsNaN(v) || v < p.ReferenceFloor
	})
	kt, res.MaskedImplausible = kt.MaskAbove(p.Ceiling)
	res.KT = kt
	return res, nil
}
