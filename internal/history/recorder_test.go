package history_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/p-n-ai/verse-quiz/internal/history"
	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

// blockingSink holds every write until release is closed.
type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	got     []quiz.Outcome
}

func (b *blockingSink) AppendOutcome(_ context.Context, o quiz.Outcome) error {
	<-b.release
	b.mu.Lock()
	b.got = append(b.got, o)
	b.mu.Unlock()
	return nil
}

func TestRecorder_WritesInOrder(t *testing.T) {
	ctx := context.Background()
	log := history.NewLog(history.LogConfig{})
	rec := history.NewRecorder(log, 128)

	for i := 0; i < 100; i++ {
		if err := rec.AppendOutcome(ctx, outcome(i)); err != nil {
			t.Fatalf("AppendOutcome(%d) error = %v", i, err)
		}
	}
	rec.Close()

	entries, err := log.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 100 {
		t.Fatalf("len(entries) = %d, want 100", len(entries))
	}
	for i, e := range entries {
		if e != outcome(i) {
			t.Fatalf("entries[%d] = %+v, want %+v", i, e, outcome(i))
		}
	}
}

func TestRecorder_DoesNotBlockOnSlowSink(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	rec := history.NewRecorder(sink, 2)

	var full int
	for i := 0; i < 10; i++ {
		if err := rec.AppendOutcome(context.Background(), outcome(i)); errors.Is(err, history.ErrQueueFull) {
			full++
		}
	}
	if full == 0 {
		t.Error("expected some outcomes to be dropped while the sink is stalled")
	}

	close(sink.release)
	rec.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.got)+full != 10 {
		t.Errorf("written %d + dropped %d, want 10", len(sink.got), full)
	}
}

func TestRecorder_AfterClose(t *testing.T) {
	rec := history.NewRecorder(quiz.NopHistory{}, 0)
	rec.Close()
	rec.Close()

	if err := rec.AppendOutcome(context.Background(), outcome(1)); !errors.Is(err, history.ErrClosed) {
		t.Errorf("AppendOutcome() after Close error = %v, want ErrClosed", err)
	}
}

func TestRecorder_SwallowsSinkErrors(t *testing.T) {
	log := history.NewLog(history.LogConfig{Store: failingStore{getErr: errors.New("down")}})
	rec := history.NewRecorder(log, 4)

	if err := rec.AppendOutcome(context.Background(), outcome(1)); err != nil {
		t.Errorf("AppendOutcome() error = %v, want nil", err)
	}
	rec.Close()
}
