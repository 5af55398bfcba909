package solar

import (
	"math"
	"time"
)

// SolarConstant is the mean top-of-atmosphere irradiance in W/m².
const SolarConstant = 1366.1

// Extraterrestrial returns the top-of-atmosphere normal irradiance in W/m²
// for the given instant, using Spencer's Fourier fit for the Earth-Sun
// distance correction. It depends only on day-of-year.
func Extraterrestrial(t time.Time) float64 {
	doy := float64(t.UTC().YearDay())
	b := 2 * math.Pi * (doy - 1) / 365.0
	roverR := 1.00011 + 0.034221*math.Cos(b) + 0.00128*math.Sin(b) +
		0.000719*math.Cos(2*b) + 0.0000772*math.Sin(2*b)
	return SolarConstant * roverR
}

// ExtraterrestrialHorizontal projects the extraterrestrial normal
// irradiance onto the horizontal plane using the apparent zenith angle in
// degrees. A sub-horizon sun would give a negative projection, which is
// physically meaningless and is clamped to zero.
func ExtraterrestrialHorizontal(t time.Time, apparentZenithDeg float64) float64 {
	hor := Extraterrestrial(t) * math.Cos(degToRad(apparentZenithDeg))
	if hor < 0 {
		return 0
	}
	return hor
}
