// poa-analysis estimates the diffuse fraction of pyranometer testbed
// measurements with the Erbs correlation and transposes the irradiance
// components onto a tilted plane.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/solarpvlab/irradiance/internal/database"
	"github.com/solarpvlab/irradiance/internal/loader"
	"github.com/solarpvlab/irradiance/internal/log"
	"github.com/solarpvlab/irradiance/pkg/config"
	"github.com/solarpvlab/irradiance/pkg/irradiance"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "irradiance.yaml", "Path to YAML configuration file")
	input := flag.String("input", "", "Testbed CSV file (dateandtime, GHI, DHI)")
	modelFlag := flag.String("model", "", "Sky-diffuse model: isotropic or haydavies (overrides config)")
	cadence := flag.String("cadence", "", "Resample output to this cadence, e.g. 1h or 24h (default: native)")
	tilt := flag.Float64("tilt", -1, "Surface tilt in degrees (overrides config)")
	azimuth := flag.Float64("azimuth", -1, "Surface azimuth in degrees (overrides config)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	logFile := flag.String("logfile", "", "Also write logs to this file (rotated)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("poa-analysis %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug, *logFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *input == "" {
		log.Error("no input file given (-input)")
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if *modelFlag != "" {
		cfg.Surface.Model = *modelFlag
	}
	if *tilt >= 0 {
		cfg.Surface.TiltDeg = *tilt
	}
	if *azimuth >= 0 {
		cfg.Surface.AzimuthDeg = *azimuth
	}

	if err := run(cfg, *input, *cadence); err != nil {
		log.Errorf("poa-analysis failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Data, input, cadence string) error {
	model, err := irradiance.ParseModel(cfg.Surface.Model)
	if err != nil {
		return err
	}

	var output time.Duration
	if cadence != "" {
		output, err = time.ParseDuration(cadence)
		if err != nil || output <= 0 {
			return fmt.Errorf("bad output cadence %q", cadence)
		}
	}

	log.Infof("loading testbed data from %s", input)
	ghi, dhi, err := loader.LoadTestbed(input)
	if err != nil {
		return err
	}
	log.Infof("loaded %d samples spanning %s to %s",
		ghi.Len(), ghi.Times[0], ghi.Times[ghi.Len()-1])

	params := irradiance.POAParams{
		Latitude:  cfg.Site.Latitude,
		Longitude: cfg.Site.Longitude,
		Altitude:  cfg.Site.Altitude,
		Surface: irradiance.Surface{
			TiltDeg:    cfg.Surface.TiltDeg,
			AzimuthDeg: cfg.Surface.AzimuthDeg,
			Albedo:     cfg.Surface.Albedo,
		},
		Model:          model,
		ReferenceFloor: cfg.Analysis.ReferenceFloorWm,
		Output:         output,
	}

	res, err := irradiance.RunPOA(params, ghi, dhi)
	if err != nil {
		return err
	}

	log.Infow("plane-of-array transposition complete",
		"site", cfg.Site.Name,
		"model", string(model),
		"tilt", cfg.Surface.TiltDeg,
		"azimuth", cfg.Surface.AzimuthDeg,
		"points", res.POAGlobal.Len(),
		"masked_nonfinite", res.MaskedNonFinite,
		"masked_low_sun", res.MaskedLowSun,
	)
	printSummary(res)

	stores, err := database.OpenStores(cfg.Storage, log.GetSugaredLogger())
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return nil
	}
	poaRun := database.NewRun("poa", cfg.Site.Name, string(model))
	for _, store := range stores {
		if err := store.SaveRun(poaRun, res.Named()); err != nil {
			return fmt.Errorf("persisting run %s: %w", poaRun.ID, err)
		}
		store.Close()
	}
	log.Infof("stored run %s", poaRun.ID)
	return nil
}

func printSummary(res *irradiance.POAResult) {
	ghiLike := []struct {
		name string
		vals []float64
	}{
		{"kt", res.KT.ValidValues()},
		{"kd actual", res.ActualDF.ValidValues()},
		{"kd modeled", res.ModeledDF.ValidValues()},
		{"poa global", res.POAGlobal.ValidValues()},
		{"poa beam", res.POABeam.ValidValues()},
		{"poa sky diffuse", res.POASkyDiffuse.ValidValues()},
	}
	for _, s := range ghiLike {
		if len(s.vals) == 0 {
			fmt.Printf("%-16s no valid values\n", s.name)
			continue
		}
		mean, stddev := stat.MeanStdDev(s.vals, nil)
		fmt.Printf("%-16s n=%-6d mean %8.3f  stddev %8.3f\n", s.name, len(s.vals), mean, stddev)
	}

	// Agreement between measured and modeled diffuse fraction, on the
	// timestamps where both exist.
	actual, modeled := res.ActualDF.Align(res.ModeledDF)
	var xs, ys []float64
	for i := range actual.Values {
		a, m := actual.Values[i], modeled.Values[i]
		if !isNaN(a) && !isNaN(m) {
			xs = append(xs, a)
			ys = append(ys, m)
		}
	}
	if len(xs) > 1 {
		fmt.Printf("diffuse-fraction correlation (actual vs modeled): r=%.3f over %d points\n",
			stat.Correlation(xs, ys, nil), len(xs))
	}
}

func isNaN(v float64) bool { return v != v }
