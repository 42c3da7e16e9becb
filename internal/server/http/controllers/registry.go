package controllers

import (
	"net/http"

	"github.com/ChameeraD/RealTimeDashboard/internal/metrics"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general *GeneralController
	feed    *FeedController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, feed *feedsvc.Service, m *metrics.Metrics, backlog Backlog, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt, feed, m),
		feed:    NewFeedController(feed, backlog, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.feed.RegisterRoutes(mux)
}
