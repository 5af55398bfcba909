package irradiance

import (
	"math"
	"time"

	"github.com/solarpvlab/irradiance/pkg/solar"
)

// Decomposition is the Erbs estimate of the diffuse and direct components
// of a global horizontal measurement.
type Decomposition struct {
	KT  float64 // clearness index against extraterrestrial horizontal
	DF  float64 // diffuse fraction DHI/GHI
	DHI float64
	DNI float64
}

// Erbs decomposes global horizontal irradiance into diffuse and direct
// components using the Erbs correlation: a piecewise polynomial in the
// clearness index. A NaN input or a sun at/below the horizon yields a NaN
// decomposition, never an arithmetic exception.
func Erbs(ghi, zenithDeg float64, t time.Time) Decomposition {
	nan := Decomposition{KT: math.NaN(), DF: math.NaN(), DHI: math.NaN(), DNI: math.NaN()}
	if math.IsNaN(ghi) || math.IsNaN(zenithDeg) {
		return nan
	}
	cosZen := math.Cos(zenithDeg * math.Pi / 180.0)
	if cosZen < 1e-6 { // at or below the horizon
		return nan
	}

	i0h := solar.Extraterrestrial(t) * cosZen
	kt := ghi / i0h
	if kt < 0 {
		kt = 0
	}

	var df float64
	switch {
	case kt <= 0.22:
		df = 1.0 - 0.09*kt
	case kt <= 0.8:
		df = 0.9511 - 0.1604*kt + 4.388*kt*kt -
			16.638*kt*kt*kt + 12.336*kt*kt*kt*kt
	default:
		df = 0.165
	}

	dhi := df * ghi
	return Decomposition{
		KT:  kt,
		DF:  df,
		DHI: dhi,
		DNI: (ghi - dhi) / cosZen,
	}
}
