// Package spectrum resamples discrete spectral curves onto uniform
// wavelength grids. The package does not produce spectra itself; it
// operates on curves loaded from external sources (solar reference
// spectra, quantum-efficiency measurements).
package spectrum

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// A cubic fit needs at least this many samples.
const minPoints = 4

var (
	// ErrTooFewPoints reports a curve with too few samples for a cubic fit.
	ErrTooFewPoints = errors.New("spectrum: fewer than 4 samples")

	// ErrOutOfDomain reports a target range outside the curve's
	// wavelength domain. Interpolation never extrapolates.
	ErrOutOfDomain = errors.New("spectrum: target range outside curve domain")
)

// Curve is an ordered spectral curve: wavelength in nm, strictly
// increasing, paired with power values.
type Curve struct {
	Wavelengths []float64
	Power       []float64
}

// NewCurve validates and builds a Curve.
func NewCurve(wavelengths, power []float64) (*Curve, error) {
	if len(wavelengths) != len(power) {
		return nil, fmt.Errorf("spectrum: %d wavelengths but %d power values", len(wavelengths), len(power))
	}
	if len(wavelengths) < 2 {
		return nil, fmt.Errorf("spectrum: curve needs at least 2 samples, got %d", len(wavelengths))
	}
	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i] <= wavelengths[i-1] {
			return nil, fmt.Errorf("spectrum: wavelengths not strictly increasing at index %d (%g after %g)",
				i, wavelengths[i], wavelengths[i-1])
		}
	}
	return &Curve{Wavelengths: wavelengths, Power: power}, nil
}

// Interpolate resamples the curve onto the integer wavelength grid
// [start, end] at 1 nm spacing, producing exactly end-start+1 points,
// using a not-a-knot cubic spline (exact at the original samples).
func Interpolate(c *Curve, start, end int) (*Curve, error) {
	if end < start {
		return nil, fmt.Errorf("spectrum: end %d before start %d", end, start)
	}
	if len(c.Wavelengths) < minPoints {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(c.Wavelengths))
	}
	lo := c.Wavelengths[0]
	hi := c.Wavelengths[len(c.Wavelengths)-1]
	if float64(start) < lo || float64(end) > hi {
		return nil, fmt.Errorf("%w: requested [%d, %d], curve covers [%g, %g]",
			ErrOutOfDomain, start, end, lo, hi)
	}

	var spline interp.NotAKnotCubic
	if err := spline.Fit(c.Wavelengths, c.Power); err != nil {
		return nil, fmt.Errorf("spectrum: fitting cubic spline: %w", err)
	}

	n := end - start + 1
	out := &Curve{
		Wavelengths: make([]float64, n),
		Power:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		wl := float64(start + i)
		out.Wavelengths[i] = wl
		out.Power[i] = spline.Predict(wl)
	}
	return out, nil
}
