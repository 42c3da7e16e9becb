package transports

import "context"

// Point is one sample received from the feed.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// SubscribeRequest describes a feed subscription made by the CLI.
type SubscribeRequest struct {
	SourceID   string
	IntervalMs int32
	Filter     string
	// Limit stops the subscription after N points. 0 means unbounded.
	Limit int
	// APIKey is sent as a bearer token when set.
	APIKey string
}

// FeedTransport abstracts the transport used by the CLI to reach the feed.
type FeedTransport interface {
	Subscribe(ctx context.Context, req SubscribeRequest, onPoint func(Point) error) error
}
