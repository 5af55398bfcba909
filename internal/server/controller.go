// Package server exposes stored analysis runs over a read-only REST API.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/solarpvlab/irradiance/internal/database"
)

// Controller represents the REST server controller.
type Controller struct {
	ctx    context.Context
	wg     *sync.WaitGroup
	Server http.Server
	store  database.Store
	logger *zap.SugaredLogger
}

// NewController creates a new REST server controller over a store.
func NewController(ctx context.Context, wg *sync.WaitGroup, listenAddr string, store database.Store, logger *zap.SugaredLogger) *Controller {
	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		store:  store,
		logger: logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/runs", ctrl.listRuns).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{id}", ctrl.getRun).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{id}/series/{name}", ctrl.getSeries).Methods(http.MethodGet)

	ctrl.Server = http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return ctrl
}

// StartController starts the HTTP listener and shuts it down when the
// controller context is cancelled.
func (c *Controller) StartController() error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Infof("REST server listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()
	return nil
}
