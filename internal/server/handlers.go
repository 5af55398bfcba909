package server

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type seriesPointJSON struct {
	Time  time.Time `json:"ts"`
	Value *float64  `json:"value"`
}

type seriesJSON struct {
	RunID  string            `json:"run_id"`
	Name   string            `json:"name"`
	Points []seriesPointJSON `json:"points"`
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Errorf("encoding response: %v", err)
	}
}

func (c *Controller) writeError(w http.ResponseWriter, status int, msg string) {
	c.writeJSON(w, status, map[string]string{"error": msg})
}

func (c *Controller) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := c.store.ListRuns()
	if err != nil {
		c.logger.Errorf("listing runs: %v", err)
		c.writeError(w, http.StatusInternalServerError, "error listing runs")
		return
	}
	c.writeJSON(w, http.StatusOK, runs)
}

func (c *Controller) getRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := c.store.GetRun(id)
	if err != nil {
		c.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	c.writeJSON(w, http.StatusOK, run)
}

func (c *Controller) getSeries(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, name := vars["id"], vars["name"]
	if _, err := c.store.GetRun(id); err != nil {
		c.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	s, err := c.store.GetSeries(id, name)
	if err != nil {
		c.logger.Errorf("fetching series %s/%s: %v", id, name, err)
		c.writeError(w, http.StatusInternalServerError, "error fetching series")
		return
	}
	if s.Len() == 0 {
		c.writeError(w, http.StatusNotFound, "series not found")
		return
	}

	out := seriesJSON{RunID: id, Name: name, Points: make([]seriesPointJSON, s.Len())}
	for i := range s.Times {
		p := seriesPointJSON{Time: s.Times[i]}
		if v := s.Values[i]; !math.IsNaN(v) {
			val := v
			p.Value = &val
		}
		out.Points[i] = p
	}
	c.writeJSON(w, http.StatusOK, out)
}
