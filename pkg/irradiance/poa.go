package irradiance

import (
	"fmt"
	"math"
	"time"

	"github.com/solarpvlab/irradiance/pkg/solar"
	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

// POAParams configures a diffuse-fraction and transposition run over a
// pyranometer testbed dataset.
type POAParams struct {
	Latitude  float64
	Longitude float64
	Altitude  float64

	Surface Surface
	Model   Model

	// ReferenceFloor in W/m² masks KT near sunrise and sunset.
	ReferenceFloor float64

	// Output, when non-zero, resamples every derived series to this
	// cadence by bin-left mean. Zero keeps the native cadence.
	Output time.Duration
}

// POAResult bundles the derived series of a testbed run. All series share
// the testbed's (possibly resampled) timestamp grid.
type POAResult struct {
	KT            *timeseries.Series
	ActualDF      *timeseries.Series // measured dhi/ghi
	ModeledDF     *timeseries.Series // Erbs diffuse fraction
	DHI           *timeseries.Series // Erbs diffuse estimate
	DNI           *timeseries.Series // Erbs direct estimate
	POAGlobal     *timeseries.Series
	POABeam       *timeseries.Series
	POASkyDiffuse *timeseries.Series
	POAGroundDiff *timeseries.Series

	MaskedNonFinite int
	MaskedLowSun    int
}

func (p *POAParams) defaults() error {
	if p.ReferenceFloor == 0 {
		p.ReferenceFloor = 10
	}
	if p.Model == "" {
		p.Model = ModelHayDavies
	}
	if _, err := ParseModel(string(p.Model)); err != nil {
		return err
	}
	return nil
}

// RunPOA derives the clearness index, Erbs decomposition and
// plane-of-array irradiance for measured GHI/DHI series sharing one
// timestamp grid. A missing input at a timestamp produces missing outputs
// there; it never aborts the run.
func RunPOA(p POAParams, ghi, dhi *timeseries.Series) (*POAResult, error) {
	if err := p.defaults(); err != nil {
		return nil, err
	}
	ghi, dhi = ghi.Align(dhi)
	if ghi.Len() == 0 {
		return nil, fmt.Errorf("ghi and dhi series share no timestamps")
	}

	n := ghi.Len()
	eaiHor := ghi.Copy()
	kt := ghi.Copy()
	actualDF := ghi.Copy()
	modeledDF := ghi.Copy()
	dhiModel := ghi.Copy()
	dniModel := ghi.Copy()
	poaGlobal := ghi.Copy()
	poaBeam := ghi.Copy()
	poaSky := ghi.Copy()
	poaGround := ghi.Copy()

	for i := 0; i < n; i++ {
		t := ghi.Times[i]
		pos := solar.GetPosition(t, p.Latitude, p.Longitude)
		dniExtra := solar.Extraterrestrial(t)
		eaiHor.Values[i] = solar.ExtraterrestrialHorizontal(t, pos.ApparentZenithDeg)

		kt.Values[i] = ghi.Values[i] / eaiHor.Values[i]
		actualDF.Values[i] = dhi.Values[i] / ghi.Values[i]

		dec := Erbs(ghi.Values[i], pos.ZenithDeg, t)
		modeledDF.Values[i] = dec.DF
		dhiModel.Values[i] = dec.DHI
		dniModel.Values[i] = dec.DNI

		poa := Transpose(p.Model, p.Surface, pos.ZenithDeg, pos.AzimuthDeg,
			dec.DNI, ghi.Values[i], dec.DHI, dniExtra)
		poaGlobal.Values[i] = poa.Global
		poaBeam.Values[i] = poa.Beam
		poaSky.Values[i] = poa.SkyDiffuse
		poaGround.Values[i] = poa.GroundDiffuse
	}

	res := &POAResult{}
	kt, res.MaskedNonFinite = kt.MaskNonFinite()
	kt, res.MaskedLowSun = kt.MaskWhere(eaiHor, func(v float64) bool {
		return math.IsNaN(v) || v < p.ReferenceFloor
	})
	actualDF, _ = actualDF.MaskNonFinite()

	res.KT = kt
	res.ActualDF = actualDF
	res.ModeledDF = modeledDF
	res.DHI = dhiModel
	res.DNI = dniModel
	res.POAGlobal = poaGlobal
	res.POABeam = poaBeam
	res.POASkyDiffuse = poaSky
	res.POAGroundDiff = poaGround

	if p.Output > 0 {
		if err := res.resample(p.Output); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *POAResult) resample(width time.Duration) error {
	for _, s := range []**timeseries.Series{
		&r.KT, &r.ActualDF, &r.ModeledDF, &r.DHI, &r.DNI,
		&r.POAGlobal, &r.POABeam, &r.POASkyDiffuse, &r.POAGroundDiff,
	} {
		rs, err := (*s).Resample(width)
		if err != nil {
			return err
		}
		*s = rs
	}
	return nil
}

// Named returns the derived series keyed by their storage names.
func (r *POAResult) Named() map[string]*timeseries.Series {
	return map[string]*timeseries.Series{
		"kt":          r.KT,
		"kd_actual":   r.ActualDF,
		"kd_modeled":  r.ModeledDF,
		"dhi_modeled": r.DHI,
		"dni_modeled": r.DNI,
		"poa_global":  r.POAGlobal,
		"poa_beam":    r.POABeam,
		"poa_sky":     r.POASkyDiffuse,
		"poa_ground":  r.POAGroundDiff,
	}
}
