// Package config loads analysis configuration from YAML files. Every
// pipeline takes an explicit config struct; nothing reads module-level
// constants, so multiple sites and periods can run in one process.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Site describes a measurement location.
type Site struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
}

// Analysis holds the clearness-index derivation parameters.
type Analysis struct {
	Start            string  `yaml:"start"` // RFC 3339 or 2006-01-02, UTC
	End              string  `yaml:"end"`
	Resolution       string  `yaml:"resolution"`         // target cadence, e.g. "1h"
	UnitScale        float64 `yaml:"unit-scale"`         // measured-series multiplier, e.g. 1000 for kW/m² input
	KTCeiling        float64 `yaml:"kt-ceiling"`         // plausibility ceiling, default 1.3
	ReferenceFloorWm float64 `yaml:"reference-floor-wm"` // EAI floor in W/m², default 10
}

// Surface describes the tilted plane for POA transposition.
type Surface struct {
	TiltDeg    float64 `yaml:"tilt"`
	AzimuthDeg float64 `yaml:"azimuth"`
	Albedo     float64 `yaml:"albedo"`
	Model      string  `yaml:"model"` // "isotropic" or "haydavies"
}

// SQLiteData configures the local sqlite store.
type SQLiteData struct {
	Path string `yaml:"path"`
}

// TimescaleDBData configures the TimescaleDB store.
type TimescaleDBData struct {
	ConnectionString string `yaml:"connection-string"`
}

// Storage selects persistence backends; both are optional.
type Storage struct {
	SQLite      *SQLiteData      `yaml:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `yaml:"timescaledb,omitempty"`
}

// Server configures the read-only REST API.
type Server struct {
	ListenAddr string `yaml:"listen-addr"`
}

// Data is the root configuration document.
type Data struct {
	Site     Site     `yaml:"site"`
	Analysis Analysis `yaml:"analysis"`
	Surface  Surface  `yaml:"surface"`
	Storage  Storage  `yaml:"storage"`
	Server   Server   `yaml:"server"`
}

// Load reads and validates a YAML configuration file.
func Load(filename string) (*Data, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", filename, err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", filename, err)
	}
	data.applyDefaults()
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &data, nil
}

func (d *Data) applyDefaults() {
	if d.Analysis.Resolution == "" {
		d.Analysis.Resolution = "1h"
	}
	if d.Analysis.UnitScale == 0 {
		d.Analysis.UnitScale = 1
	}
	if d.Analysis.KTCeiling == 0 {
		d.Analysis.KTCeiling = 1.3
	}
	if d.Analysis.ReferenceFloorWm == 0 {
		d.Analysis.ReferenceFloorWm = 10
	}
	if d.Surface.Albedo == 0 {
		d.Surface.Albedo = 0.18
	}
	if d.Surface.Model == "" {
		d.Surface.Model = "haydavies"
	}
	if d.Server.ListenAddr == "" {
		d.Server.ListenAddr = ":8190"
	}
}

func (d *Data) validate() error {
	if d.Site.Latitude < -90 || d.Site.Latitude > 90 {
		return fmt.Errorf("latitude %g out of range", d.Site.Latitude)
	}
	if d.Site.Longitude < -180 || d.Site.Longitude > 180 {
		return fmt.Errorf("longitude %g out of range", d.Site.Longitude)
	}
	if _, err := d.ResolutionDuration(); err != nil {
		return err
	}
	if d.Analysis.Start != "" {
		if _, err := ParseTime(d.Analysis.Start); err != nil {
			return fmt.Errorf("analysis start: %w", err)
		}
	}
	if d.Analysis.End != "" {
		if _, err := ParseTime(d.Analysis.End); err != nil {
			return fmt.Errorf("analysis end: %w", err)
		}
	}
	switch d.Surface.Model {
	case "isotropic", "haydavies":
	default:
		return fmt.Errorf("unknown transposition model %q", d.Surface.Model)
	}
	return nil
}

// ResolutionDuration parses the target cadence.
func (d *Data) ResolutionDuration() (time.Duration, error) {
	dur, err := time.ParseDuration(d.Analysis.Resolution)
	if err != nil || dur <= 0 {
		return 0, fmt.Errorf("bad analysis resolution %q", d.Analysis.Resolution)
	}
	return dur, nil
}

// Window returns the configured UTC analysis window.
func (d *Data) Window() (start, end time.Time, err error) {
	start, err = ParseTime(d.Analysis.Start)
	if err != nil {
		return
	}
	end, err = ParseTime(d.Analysis.End)
	return
}

// ParseTime accepts RFC 3339 or a bare date, always interpreted as UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}
