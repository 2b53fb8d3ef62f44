package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/verse-quiz/internal/play"
	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

// Action is a client message on the play socket.
type Action struct {
	Action   string `json:"action"` // answer, next, quit
	ChoiceID string `json:"choice_id,omitempty"`
}

// Frame is a server message on the play socket.
type Frame struct {
	Accepted bool       `json:"accepted"`
	View     *quiz.View `json:"view,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// handlePlay drives one session over a WebSocket. The current view is sent
// on connect and after every action; the socket closes normally once the
// session completes.
func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	v, err := h.sessions.View(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "session_id", id, "error", err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	if err := wsjson.Write(ctx, c, Frame{Accepted: true, View: &v}); err != nil {
		return
	}

	for v.State != quiz.StateComplete.String() {
		var msg Action
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				slog.Warn("websocket read failed", "session_id", id, "error", err)
			}
			return
		}

		frame, err := h.apply(ctx, id, msg)
		if errors.Is(err, play.ErrSessionNotFound) {
			c.Close(websocket.StatusPolicyViolation, "session ended")
			return
		}
		if err != nil {
			slog.Error("session action failed", "session_id", id, "error", err)
			c.Close(websocket.StatusInternalError, "internal error")
			return
		}
		if frame.View != nil {
			v = *frame.View
		}
		if err := wsjson.Write(ctx, c, frame); err != nil {
			slog.Warn("websocket write failed", "session_id", id, "error", err)
			return
		}
	}

	c.Close(websocket.StatusNormalClosure, "session complete")
}

// apply runs one action. Unknown actions produce an error frame; a
// returned error means the session can no longer be played.
func (h *Handler) apply(ctx context.Context, id string, msg Action) (Frame, error) {
	var (
		v        quiz.View
		accepted bool
		err      error
	)
	switch msg.Action {
	case "answer":
		v, accepted, err = h.sessions.Submit(ctx, id, msg.ChoiceID)
	case "next":
		v, accepted, err = h.sessions.Advance(id)
	case "quit":
		v, accepted, err = h.sessions.Quit(id)
	default:
		return Frame{Error: "unknown action: " + msg.Action}, nil
	}
	if err != nil {
		return Frame{}, err
	}
	return Frame{Accepted: accepted, View: &v}, nil
}
