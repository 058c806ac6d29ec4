// Package announce provides the spoken-output queue.
//
// A single worker goroutine drains a buffered channel so announcements are
// delivered strictly in order, one at a time, without ever blocking the
// frame loop. Say applies a repeat throttle; SayNow bypasses it for
// one-shot mode announcements.
package announce

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Speaker delivers one announcement. Implementations block until the
// utterance has been fully played.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// DefaultThrottleWindow suppresses a repeat of the last accepted text
// inside this window.
const DefaultThrottleWindow = time.Second

// DefaultQueueSize bounds the pending-announcement channel.
const DefaultQueueSize = 64

type item struct {
	id   string
	text string
}

// Queue is a FIFO speech queue with a single delivery worker.
type Queue struct {
	speaker Speaker
	items   chan item
	window  time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	lastText string
	lastAt   time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Queue.
type Option func(*Queue)

// WithThrottleWindow overrides the repeat-suppression window.
func WithThrottleWindow(d time.Duration) Option {
	return func(q *Queue) { q.window = d }
}

// WithQueueSize overrides the pending channel capacity.
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.items = make(chan item, n)
		}
	}
}

// WithClock overrides the time source. Tests use this to step the
// throttle window deterministically.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// NewQueue creates a queue and starts its delivery worker.
func NewQueue(speaker Speaker, opts ...Option) *Queue {
	q := &Queue{
		speaker: speaker,
		items:   make(chan item, DefaultQueueSize),
		window:  DefaultThrottleWindow,
		logger:  slog.Default().With("component", "announce.queue"),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	go q.run()
	return q
}

// Say enqueues text unless it repeats the last accepted text within the
// throttle window. Never blocks: when the queue is full the item is
// dropped with a warning.
func (q *Queue) Say(text string) {
	if text == "" {
		return
	}

	q.mu.Lock()
	now := q.now()
	if text == q.lastText && now.Sub(q.lastAt) < q.window {
		q.mu.Unlock()
		return
	}
	q.lastText = text
	q.lastAt = now
	q.mu.Unlock()

	q.enqueue(text)
}

// SayNow enqueues text unconditionally, bypassing the throttle. The text
// still counts as the last accepted text for later Say calls.
func (q *Queue) SayNow(text string) {
	if text == "" {
		return
	}

	q.mu.Lock()
	q.lastText = text
	q.lastAt = q.now()
	q.mu.Unlock()

	q.enqueue(text)
}

// ResetThrottle forgets the last accepted text. Mode transitions call this
// so announcements after a switch are never suppressed. Items already
// queued stay queued.
func (q *Queue) ResetThrottle() {
	q.mu.Lock()
	q.lastText = ""
	q.lastAt = time.Time{}
	q.mu.Unlock()
}

// Close stops the worker after the item currently being spoken, if any.
func (q *Queue) Close() {
	q.stopOnce.Do(func() { close(q.stop) })
	<-q.done
}

func (q *Queue) enqueue(text string) {
	it := item{id: uuid.NewString(), text: text}
	select {
	case q.items <- it:
		q.logger.Debug("queued announcement", "id", it.id, "text", text)
	default:
		q.logger.Warn("queue full, dropping announcement", "id", it.id, "text", text)
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		select {
		case <-q.stop:
			return
		case it := <-q.items:
			if err := q.speaker.Speak(context.Background(), it.text); err != nil {
				q.logger.Warn("speaker failed", "id", it.id, "text", it.text, "error", err)
			}
		}
	}
}
