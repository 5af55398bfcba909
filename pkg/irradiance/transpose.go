package irradiance

import (
	"fmt"
	"math"
)

// Model selects the sky-diffuse transposition model.
type Model string

const (
	ModelIsotropic Model = "isotropic"
	ModelHayDavies Model = "haydavies"
)

// ParseModel validates a model name from config or a CLI flag.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelIsotropic, ModelHayDavies:
		return Model(s), nil
	}
	return "", fmt.Errorf("unknown transposition model %q", s)
}

// Surface describes the receiving plane.
type Surface struct {
	TiltDeg    float64 // 0 = horizontal
	AzimuthDeg float64 // 0 = north, 180 = south
	Albedo     float64 // ground reflectance
}

// POA holds plane-of-array irradiance components in W/m².
type POA struct {
	Global        float64
	Beam          float64
	SkyDiffuse    float64
	GroundDiffuse float64
}

// CosAOI returns the cosine of the angle of incidence between the sun and
// the surface normal. Angles in degrees.
func CosAOI(surf Surface, zenithDeg, azimuthDeg float64) float64 {
	zen := zenithDeg * math.Pi / 180.0
	tilt := surf.TiltDeg * math.Pi / 180.0
	dAz := (azimuthDeg - surf.AzimuthDeg) * math.Pi / 180.0
	return math.Cos(tilt)*math.Cos(zen) + math.Sin(tilt)*math.Sin(zen)*math.Cos(dAz)
}

// Transpose projects horizontal irradiance components onto the surface.
// dniExtra is the extraterrestrial normal irradiance, needed by the
// Hay-Davies anisotropy normalization. Any NaN input produces a fully NaN
// result for that timestamp.
func Transpose(model Model, surf Surface, zenithDeg, azimuthDeg, dni, ghi, dhi, dniExtra float64) POA {
	nan := math.NaN()
	if math.IsNaN(zenithDeg) || math.IsNaN(azimuthDeg) ||
		math.IsNaN(dni) || math.IsNaN(ghi) || math.IsNaN(dhi) || math.IsNaN(dniExtra) {
		return POA{Global: nan, Beam: nan, SkyDiffuse: nan, GroundDiffuse: nan}
	}

	cosAOI := CosAOI(surf, zenithDeg, azimuthDeg)
	beam := dni * cosAOI
	if beam < 0 {
		beam = 0
	}

	tiltRad := surf.TiltDeg * math.Pi / 180.0
	ground := ghi * surf.Albedo * (1 - math.Cos(tiltRad)) / 2

	var sky float64
	isoFactor := (1 + math.Cos(tiltRad)) / 2
	switch model {
	case ModelHayDavies:
		// Anisotropy index: how much of the diffuse light is
		// circumsolar and behaves like beam.
		ai := 0.0
		if dniExtra > 0 {
			ai = dni / dniExtra
		}
		cosZen := math.Cos(zenithDeg * math.Pi / 180.0)
		rb := 0.0
		if cosZen > 0.01745 { // sun more than ~1° above the horizon
			rb = cosAOI / cosZen
			if rb < 0 {
				rb = 0
			}
		}
		sky = dhi * (ai*rb + (1-ai)*isoFactor)
	default:
		sky = dhi * isoFactor
	}

	out := POA{Beam: beam, SkyDiffuse: sky, GroundDiffuse: ground}
	out.Global = out.Beam + out.SkyDiffuse + out.GroundDiffuse
	return out
}
