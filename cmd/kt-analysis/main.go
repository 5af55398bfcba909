// kt-analysis derives a clearness-index time series from a measured
// global horizontal irradiance CSV and a modeled extraterrestrial
// reference, then prints a summary and optionally persists the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/solarpvlab/irradiance/internal/database"
	"github.com/solarpvlab/irradiance/internal/loader"
	"github.com/solarpvlab/irradiance/internal/log"
	"github.com/solarpvlab/irradiance/pkg/config"
	"github.com/solarpvlab/irradiance/pkg/irradiance"
	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "irradiance.yaml", "Path to YAML configuration file")
	input := flag.String("input", "", "Measured GHI CSV file (timestamp, irradiance)")
	startFlag := flag.String("start", "", "Analysis window start (UTC), overrides config")
	endFlag := flag.String("end", "", "Analysis window end (UTC), overrides config")
	unitScale := flag.Float64("unit-scale", 0, "Measured-series unit multiplier, overrides config (e.g. 1000 for kW/m² input)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	logFile := flag.String("logfile", "", "Also write logs to this file (rotated)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("kt-analysis %s\n", version)
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
	if *startFlag != "" {
		cfg.Analysis.Start = *startFlag
	}
	if *endFlag != "" {
		cfg.Analysis.End = *endFlag
	}
	if *unitScale != 0 {
		cfg.Analysis.UnitScale = *unitScale
	}

	if err := run(cfg, *input); err != nil {
		log.Errorf("kt-analysis failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Data, input string) error {
	start, end, err := cfg.Window()
	if err != nil {
		return fmt.Errorf("analysis window: %w", err)
	}
	target, err := cfg.ResolutionDuration()
	if err != nil {
		return err
	}

	log.Infof("loading measured GHI series from %s", input)
	measured, err := loader.LoadGHISeries(input)
	if err != nil {
		return err
	}
	log.Infof("loaded %d samples spanning %s to %s",
		measured.Len(), measured.Times[0], measured.Times[measured.Len()-1])

	params := irradiance.KTParams{
		Latitude:       cfg.Site.Latitude,
		Longitude:      cfg.Site.Longitude,
		Altitude:       cfg.Site.Altitude,
		Start:          start,
		End:            end,
		Step:           time.Minute,
		Target:         target,
		UnitScale:      cfg.Analysis.UnitScale,
		ReferenceFloor: cfg.Analysis.ReferenceFloorWm,
		Ceiling:        cfg.Analysis.KTCeiling,
	}

	res, err := irradiance.DeriveKT(params, measured)
	if err != nil {
		return err
	}

	log.Infow("clearness index derived",
		"site", cfg.Site.Name,
		"points", res.KT.Len(),
		"valid", res.KT.CountValid(),
		"masked_nonfinite", res.MaskedNonFinite,
		"masked_low_sun", res.MaskedLowSun,
		"masked_implausible", res.MaskedImplausible,
	)
	printSummary(res)

	stores, err := database.OpenStores(cfg.Storage, log.GetSugaredLogger())
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return nil
	}
	series := map[string]*timeseries.Series{
		"kt":        res.KT,
		"reference": res.Reference,
		"measured":  res.Measured,
	}
	ktRun := database.NewRun("kt", cfg.Site.Name, "")
	for _, store := range stores {
		if err := store.SaveRun(ktRun, series); err != nil {
			return fmt.Errorf("persisting run %s: %w", ktRun.ID, err)
		}
		store.Close()
	}
	log.Infof("stored run %s", ktRun.ID)
	return nil
}

func printSummary(res *irradiance.KTResult) {
	valid := res.KT.ValidValues()
	if len(valid) == 0 {
		fmt.Println("no valid KT values in the analysis window")
		return
	}
	mean, stddev := stat.MeanStdDev(valid, nil)
	fmt.Printf("KT points: %d valid of %d  mean %.3f  stddev %.3f\n",
		len(valid), res.KT.Len(), mean, stddev)

	// Histogram over [0, 1.4) in 0.1 buckets; valid values are already
	// below the plausibility ceiling.
	dividers := make([]float64, 15)
	floats.Span(dividers, 0, 1.4)
	sorted := make([]float64, 0, len(valid))
	for _, v := range valid {
		if v >= 0 && v < 1.4 {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, dividers, sorted, nil)
	for i, n := range counts {
		fmt.Printf("  %.2f-%.2f %5.0f %s\n", dividers[i], dividers[i+1], n, bar(int(n), len(valid)))
	}
}

func bar(count, total int) string {
	if total == 0 {
		return ""
	}
	width := count * 50 / total
	return strings.Repeat("#", width)
}
