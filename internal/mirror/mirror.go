// Package mirror republishes samples to Redis so other consumers can tail a
// source without opening their own stream.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
)

const (
	defaultChannel = "dashboard:samples"
	defaultBacklog = 100
)

// Message is the JSON payload published for each sample.
type Message struct {
	SourceID  string  `json:"source_id"`
	SessionID string  `json:"session_id,omitempty"`
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Options controls channel naming and backlog length.
type Options struct {
	// Channel prefixes "<channel>:<source_id>" for both pub/sub and backlog.
	Channel string
	// Backlog is the number of recent messages kept per source. Negative
	// disables the backlog list.
	Backlog int64
	// Timeout bounds each publish. Zero means 250ms.
	Timeout time.Duration
}

// Publisher writes samples to Redis.
type Publisher struct {
	client  redis.UniversalClient
	channel string
	backlog int64
	timeout time.Duration
}

// New wraps client. The client is owned by the caller.
func New(client redis.UniversalClient, opts Options) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("mirror: redis client is required")
	}
	p := &Publisher{
		client:  client,
		channel: opts.Channel,
		backlog: opts.Backlog,
		timeout: opts.Timeout,
	}
	if p.channel == "" {
		p.channel = defaultChannel
	}
	if p.backlog == 0 {
		p.backlog = defaultBacklog
	}
	if p.timeout <= 0 {
		p.timeout = 250 * time.Millisecond
	}
	return p, nil
}

// Channel returns the pub/sub channel for sourceID.
func (p *Publisher) Channel(sourceID string) string {
	return p.channel + ":" + sourceID
}

func (p *Publisher) backlogKey(sourceID string) string {
	return p.channel + ":" + sourceID + ":backlog"
}

// Publish broadcasts one sample and appends it to the source backlog in a
// single transaction.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mirror: marshal: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pipe := p.client.TxPipeline()
	if p.backlog > 0 {
		key := p.backlogKey(msg.SourceID)
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, p.backlog-1)
	}
	pipe.Publish(ctx, p.Channel(msg.SourceID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mirror: publish: %w", err)
	}
	return nil
}

// Recent returns up to limit backlog messages for sourceID, newest first.
func (p *Publisher) Recent(ctx context.Context, sourceID string, limit int) ([]Message, error) {
	if limit <= 0 || (p.backlog > 0 && int64(limit) > p.backlog) {
		limit = int(p.backlog)
	}
	if limit <= 0 {
		return nil, nil
	}
	values, err := p.client.LRange(ctx, p.backlogKey(sourceID), 0, int64(limit)-1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("mirror: read backlog: %w", err)
	}
	out := make([]Message, 0, len(values))
	for _, v := range values {
		var m Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Ping checks connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// FromSample builds a Message for a pushed sample.
func FromSample(sourceID, sessionID string, s telemetry.Sample) Message {
	return Message{SourceID: sourceID, SessionID: sessionID, Timestamp: s.TimestampMs, Value: s.Value}
}
