// Package solar computes solar geometry and extraterrestrial irradiance.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Position holds the solar geometry at one instant and location. Angles
// are in degrees.
type Position struct {
	ZenithDeg         float64
	ApparentZenithDeg float64
	ElevationDeg      float64
	AzimuthDeg        float64
	DeclinationDeg    float64
	EqOfTimeMin       float64
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// GetPosition computes the apparent position of the sun for a UTC instant
// at the given latitude/longitude using the NOAA low-accuracy algorithm.
// Positive longitude is east.
func GetPosition(t time.Time, lat, lon float64) Position {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	sunLong := L0 + C
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	declRad := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	ut := t.UTC()
	utcMin := float64(ut.Hour()*60+ut.Minute()) + float64(ut.Second())/60.0
	timeOffset := 4*lon + eqTimeMin
	tst := utcMin + timeOffset
	ha := tst/4 - 180
	haRad := degToRad(ha)

	latRad := degToRad(lat)
	cosZen := math.Sin(latRad)*math.Sin(declRad) + math.Cos(latRad)*math.Cos(declRad)*math.Cos(haRad)
	if cosZen > 1 {
		cosZen = 1
	} else if cosZen < -1 {
		cosZen = -1
	}
	zenRad := math.Acos(cosZen)
	zenDeg := radToDeg(zenRad)
	elDeg := 90 - zenDeg

	azDeg := 0.0
	azDen := math.Cos(latRad) * math.Sin(zenRad)
	if azDen != 0 {
		azCos := (math.Sin(declRad) - math.Sin(latRad)*cosZen) / azDen
		if azCos > 1 {
			azCos = 1
		} else if azCos < -1 {
			azCos = -1
		}
		azDeg = radToDeg(math.Acos(azCos))
		if ha > 0 {
			azDeg = 360 - azDeg
		}
	}

	return Position{
		ZenithDeg:         zenDeg,
		ApparentZenithDeg: 90 - apparentElevation(elDeg),
		ElevationDeg:      elDeg,
		AzimuthDeg:        azDeg,
		DeclinationDeg:    radToDeg(declRad),
		EqOfTimeMin:       eqTimeMin,
	}
}

// apparentElevation applies Bennett's refraction correction to a true
// elevation angle in degrees. Refraction matters mostly near the horizon,
// where the clearness-index denominator is smallest.
func apparentElevation(elDeg float64) float64 {
	if elDeg < -1.0 {
		return elDeg
	}
	// Bennett (1982): refraction in arcminutes.
	refrMin := 1.02 / math.Tan(degToRad(elDeg+10.3/(elDeg+5.11)))
	return elDeg + refrMin/60.0
}
