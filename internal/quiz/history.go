package quiz

import (
	"context"
	"time"
)

// Outcome is one round's result as written to the history log.
type Outcome struct {
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	ItemID    string `json:"itemId"`
	Mode      string `json:"mode"`
	Correct   bool   `json:"correct"`
}

// NewOutcome stamps an outcome with t in epoch milliseconds.
func NewOutcome(t time.Time, itemID string, mode Mode, correct bool) Outcome {
	return Outcome{
		Timestamp: t.UnixMilli(),
		ItemID:    itemID,
		Mode:      string(mode),
		Correct:   correct,
	}
}

// HistorySink receives round outcomes. Writes are best-effort: a session
// discards the returned error and never lets it affect scoring or state.
type HistorySink interface {
	AppendOutcome(ctx context.Context, o Outcome) error
}

// NopHistory drops every outcome.
type NopHistory struct{}

func (NopHistory) AppendOutcome(context.Context, Outcome) error {
	return nil
}
