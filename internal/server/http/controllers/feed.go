package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
	"github.com/ChameeraD/RealTimeDashboard/internal/ledger"
	"github.com/ChameeraD/RealTimeDashboard/internal/mirror"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Backlog reads recently mirrored samples.
type Backlog interface {
	Recent(ctx context.Context, sourceID string, limit int) ([]mirror.Message, error)
}

// FeedController exposes subscriptions over SSE plus session history and
// the mirrored backlog.
type FeedController struct {
	feed    *feedsvc.Service
	backlog Backlog
	log     logpkg.Logger
}

// NewFeedController creates a feed controller. backlog may be nil.
func NewFeedController(feed *feedsvc.Service, backlog Backlog, logger logpkg.Logger) *FeedController {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &FeedController{feed: feed, backlog: backlog, log: logger}
}

// RegisterRoutes registers the feed routes.
//
//   - GET /v1/feed/subscribe?source_id=&interval_ms=&filter=  (SSE)
//   - GET /v1/feed/recent?source_id=&limit=
//   - GET /v1/sessions?source_id=&limit=
func (c *FeedController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/feed/subscribe", c.handleSubscribe)
	mux.HandleFunc("/v1/feed/recent", c.handleRecent)
	mux.HandleFunc("/v1/sessions", c.handleSessions)
}

func (c *FeedController) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	var interval int64
	if v := q.Get("interval_ms"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "interval_ms must be an integer")
			return
		}
		interval = n
	}
	sub := telemetry.Subscription{
		SourceID:   q.Get("source_id"),
		IntervalMs: int32(interval),
		Filter:     q.Get("filter"),
	}
	sink := &sseSink{w: w}
	err := c.feed.Subscribe(r.Context(), auth.CallerFromContext(r.Context()), sub, feedsvc.SubscribeOptions{Transport: "sse"}, sink)
	if err == nil {
		return
	}
	var fe *feedsvc.Error
	if !errors.As(err, &fe) {
		fe = &feedsvc.Error{Category: feedsvc.Internal, Message: "internal error"}
	}
	if sink.started {
		if werr := sink.sendError(fe.Message); werr != nil {
			c.log.Debug("sse.error_event_failed", logpkg.Err(werr))
		}
		return
	}
	writeError(w, statusFor(fe.Category), fe.Message)
}

func statusFor(c feedsvc.Category) int {
	switch c {
	case feedsvc.InvalidArgument:
		return http.StatusBadRequest
	case feedsvc.PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (c *FeedController) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if c.backlog == nil {
		writeError(w, http.StatusNotFound, "mirror not configured")
		return
	}
	src := r.URL.Query().Get("source_id")
	if src == "" {
		writeError(w, http.StatusBadRequest, "source_id is required")
		return
	}
	msgs, err := c.backlog.Recent(r.Context(), src, parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		c.log.Warn("feed.recent_failed", logpkg.Err(err))
		writeError(w, http.StatusBadGateway, "Failed to read backlog")
		return
	}
	if msgs == nil {
		msgs = []mirror.Message{}
	}
	writeJSON(w, map[string]any{"source_id": src, "samples": msgs})
}

func (c *FeedController) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	entries, err := c.feed.Sessions(r.Context(), ledger.ListOptions{
		Limit:    parseLimit(r.URL.Query().Get("limit")),
		SourceID: r.URL.Query().Get("source_id"),
	})
	if err != nil {
		c.log.Warn("feed.sessions_failed", logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, map[string]any{"sessions": entries})
}
