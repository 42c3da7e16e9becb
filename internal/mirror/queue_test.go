package mirror

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type blockingSender struct {
	release chan struct{}
	mu      sync.Mutex
	got     []Message
	err     error
}

func (b *blockingSender) Publish(ctx context.Context, msg Message) error {
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, msg)
	return b.err
}

func (b *blockingSender) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.got)
}

func TestQueueDropsOnOverflow(t *testing.T) {
	q, err := NewQueue(&blockingSender{}, QueueOptions{Size: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := q.Publish(ctx, Message{SourceID: "s"}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	start := time.Now()
	if err := q.Publish(ctx, Message{SourceID: "s"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err=%v want ErrQueueFull", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("publish on a full queue blocked")
	}
	if q.Len() != 2 {
		t.Fatalf("len=%d", q.Len())
	}
}

func TestQueueRunForwardsAndReportsErrors(t *testing.T) {
	sender := &blockingSender{err: errors.New("redis down")}
	var mu sync.Mutex
	failures := 0
	q, _ := NewQueue(sender, QueueOptions{OnError: func(error) {
		mu.Lock()
		failures++
		mu.Unlock()
	}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { q.Run(ctx); close(done) }()

	for i := 0; i < 3; i++ {
		_ = q.Publish(ctx, Message{SourceID: "s", Timestamp: int64(i)})
	}
	reported := func() int {
		mu.Lock()
		defer mu.Unlock()
		return failures
	}
	deadline := time.Now().Add(2 * time.Second)
	for reported() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
	if sender.count() != 3 {
		t.Fatalf("forwarded=%d", sender.count())
	}
	mu.Lock()
	defer mu.Unlock()
	if failures != 3 {
		t.Fatalf("failures=%d", failures)
	}
}

func TestQueueRunStopsWhileSendBlocked(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	q, _ := NewQueue(sender, QueueOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { q.Run(ctx); close(done) }()
	_ = q.Publish(ctx, Message{SourceID: "s"})
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestNewQueueRequiresSender(t *testing.T) {
	if _, err := NewQueue(nil, QueueOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}

// silentRedis accepts connections and never answers.
func silentRedis(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var conns []net.Conn
	var mu sync.Mutex
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return l.Addr().String()
}

func TestPublishHonoursTimeoutOnSilentRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: silentRedis(t), ContextTimeoutEnabled: true, MaxRetries: -1})
	defer func() { _ = client.Close() }()
	p, err := New(client, Options{Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start := time.Now()
	if err := p.Publish(context.Background(), Message{SourceID: "s"}); err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish took %v, timeout not honoured", elapsed)
	}
}
