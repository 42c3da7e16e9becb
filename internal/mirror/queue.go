package mirror

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by Queue.Publish when the buffer is full and the
// message was dropped.
var ErrQueueFull = errors.New("mirror: queue full")

const defaultQueueSize = 1024

// Sender is the synchronous side of a Queue, normally a *Publisher.
type Sender interface {
	Publish(ctx context.Context, msg Message) error
}

// QueueOptions configures a Queue.
type QueueOptions struct {
	// Size is the buffer length. Zero means 1024.
	Size int
	// OnError is called from the drain goroutine for each failed send.
	OnError func(error)
}

// Queue decouples callers from Redis latency. Publish never blocks; a single
// goroutine started by Run forwards messages to the Sender.
type Queue struct {
	sender  Sender
	ch      chan Message
	onError func(error)
}

// NewQueue buffers messages for sender.
func NewQueue(sender Sender, opts QueueOptions) (*Queue, error) {
	if sender == nil {
		return nil, errors.New("mirror: sender is required")
	}
	size := opts.Size
	if size <= 0 {
		size = defaultQueueSize
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(error) {}
	}
	return &Queue{sender: sender, ch: make(chan Message, size), onError: onError}, nil
}

// Publish enqueues msg, or drops it and returns ErrQueueFull. ctx is not
// used for the send itself, which runs on Run's context.
func (q *Queue) Publish(_ context.Context, msg Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of buffered messages.
func (q *Queue) Len() int { return len(q.ch) }

// Run drains the queue until ctx is done. Messages still buffered at that
// point are discarded.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.ch:
			if err := q.sender.Publish(ctx, msg); err != nil && ctx.Err() == nil {
				q.onError(err)
			}
		}
	}
}
