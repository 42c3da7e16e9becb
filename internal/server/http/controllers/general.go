package controllers

import (
	"net/http"

	"github.com/ChameeraD/RealTimeDashboard/internal/metrics"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
)

// GeneralController serves health and metrics.
type GeneralController struct {
	rt      *runtime.Runtime
	feed    *feedsvc.Service
	metrics *metrics.Metrics
}

// NewGeneralController creates a new general controller. m may be nil, in
// which case /metrics answers 404.
func NewGeneralController(rt *runtime.Runtime, feed *feedsvc.Service, m *metrics.Metrics) *GeneralController {
	return &GeneralController{rt: rt, feed: feed, metrics: m}
}

// RegisterRoutes registers /v1/healthz and /metrics.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.Handle("/metrics", c.metrics.Handler())
}

type healthResp struct {
	Status         string         `json:"status"`
	Environment    string         `json:"environment"`
	ActiveSessions int            `json:"active_sessions"`
	Sources        map[string]int `json:"sources"`
}

// handleHealth returns 200 with session counts when storage is healthy and
// 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	sources := map[string]int{}
	for _, src := range c.feed.ActiveSources() {
		sources[src] = c.feed.ActiveSessionsFor(src)
	}
	writeJSON(w, healthResp{
		Status:         "ok",
		Environment:    c.feed.Environment().String(),
		ActiveSessions: c.feed.ActiveSessions(),
		Sources:        sources,
	})
}
