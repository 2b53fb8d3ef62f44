package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

const (
	defaultQueueSize    = 64
	defaultWriteTimeout = 5 * time.Second
)

var (
	// ErrQueueFull is returned when an outcome is dropped for lack of room.
	ErrQueueFull = errors.New("history queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("history recorder closed")
)

// Recorder is a quiz.HistorySink that hands outcomes to a single
// background writer, so a session never waits on storage. Outcomes are
// written in submission order. Write failures are logged and dropped.
type Recorder struct {
	sink    quiz.HistorySink
	queue   chan quiz.Outcome
	done    chan struct{}
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts a recorder in front of sink. queueSize <= 0 uses the
// default of 64.
func NewRecorder(sink quiz.HistorySink, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	r := &Recorder{
		sink:    sink,
		queue:   make(chan quiz.Outcome, queueSize),
		done:    make(chan struct{}),
		timeout: defaultWriteTimeout,
	}
	go r.run()
	return r
}

// AppendOutcome enqueues o without blocking. The caller's context is not
// carried to the write, which outlives it.
func (r *Recorder) AppendOutcome(_ context.Context, o quiz.Outcome) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrClosed
	}

	select {
	case r.queue <- o:
		return nil
	default:
		slog.Warn("history queue full, dropping outcome", "item_id", o.ItemID)
		return ErrQueueFull
	}
}

// Close stops accepting outcomes and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)

	for o := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.sink.AppendOutcome(ctx, o); err != nil {
			slog.Warn("failed to persist quiz outcome",
				"item_id", o.ItemID,
				"error", err,
			)
		}
		cancel()
	}
}
