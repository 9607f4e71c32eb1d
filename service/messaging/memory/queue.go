package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/viant/nbcell/internal/idgen"
	"github.com/viant/nbcell/service/messaging"
)

// ErrProcessed is returned when a message is acknowledged twice.
var ErrProcessed = errors.New("message already processed")

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		DeadLetter:  true,
		QueueBuffer: 256,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	mu         sync.Mutex
	processed  bool
}

// ID returns the message id.
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Nack requeues the message at the front of the queue until MaxRetries is
// reached, then moves it to the dead letter queue when enabled.
func (m *Message[T]) Nack(_ error) error {
	m.mu.Lock()
	if m.processed {
		m.mu.Unlock()
		return ErrProcessed
	}
	m.processed = true
	m.retryCount++
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, retryCount: m.retryCount}
	m.mu.Unlock()

	q := m.queue
	q.mu.Lock()
	defer q.mu.Unlock()
	switch {
	case retry.retryCount <= q.config.MaxRetries:
		q.messages = append([]*Message[T]{retry}, q.messages...)
		q.signal()
	case q.config.DeadLetter:
		q.dlq = append(q.dlq, retry)
	}
	return nil
}

// Queue implements an in-memory messaging.Queue. Messages are consumed in
// publish order.
type Queue[T any] struct {
	mu       sync.Mutex
	messages []*Message[T]
	dlq      []*Message[T]
	ready    chan struct{}
	space    chan struct{}
	config   Config
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		ready:  make(chan struct{}, 1),
		space:  make(chan struct{}, 1),
		config: config,
	}
}

// Publish adds a new item to the queue, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	for {
		q.mu.Lock()
		if len(q.messages) < q.config.QueueBuffer {
			q.messages = append(q.messages, &Message[T]{id: idgen.New(), payload: *t, queue: q})
			q.signal()
			q.mu.Unlock()
			return nil
		}
		q.mu.Unlock()
		select {
		case <-q.space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		q.mu.Lock()
		if len(q.messages) > 0 {
			msg := q.messages[0]
			q.messages = q.messages[1:]
			if len(q.messages) > 0 {
				q.signal()
			}
			select {
			case q.space <- struct{}{}:
			default:
			}
			q.mu.Unlock()
			return msg, nil
		}
		q.mu.Unlock()
		select {
		case <-q.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// signal wakes one waiting consumer; callers hold q.mu.
func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.dlq)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
