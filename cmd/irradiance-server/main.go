// irradiance-server serves stored analysis runs over a read-only REST
// API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/solarpvlab/irradiance/internal/database"
	"github.com/solarpvlab/irradiance/internal/log"
	"github.com/solarpvlab/irradiance/internal/server"
	"github.com/solarpvlab/irradiance/pkg/config"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "irradiance.yaml", "Path to YAML configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	logFile := flag.String("logfile", "", "Also write logs to this file (rotated)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("irradiance-server %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug, *logFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	stores, err := database.OpenStores(cfg.Storage, log.GetSugaredLogger())
	if err != nil {
		log.Errorf("Failed to open storage: %v", err)
		os.Exit(1)
	}
	if len(stores) == 0 {
		log.Error("no storage backend configured; nothing to serve")
		os.Exit(1)
	}
	store := stores[0]
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	ctrl := server.NewController(ctx, wg, cfg.Server.ListenAddr, store, log.GetSugaredLogger())
	if err := ctrl.StartController(); err != nil {
		log.Errorf("Failed to start REST server: %v", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	cancel()
	wg.Wait()
}
