package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/verse-quiz/internal/httpapi"
)

func dialPlay(t *testing.T, srv *httptest.Server, id string) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/sessions/" + id + "/play"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return c, ctx
}

func readFrame(t *testing.T, ctx context.Context, c *websocket.Conn) httpapi.Frame {
	t.Helper()
	var f httpapi.Frame
	if err := wsjson.Read(ctx, c, &f); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	return f
}

func TestPlaySocket_FullSession(t *testing.T) {
	h, c, _ := newTestHandler(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	started := decodeSession(t, do(t, h, http.MethodPost, "/v1/sessions", ""))
	conn, ctx := dialPlay(t, srv, started.ID)

	f := readFrame(t, ctx, conn)
	if f.View == nil || f.View.State != "awaiting_answer" {
		t.Fatalf("initial frame = %+v", f)
	}

	for round := 0; round < 2; round++ {
		if err := wsjson.Write(ctx, conn, httpapi.Action{Action: "answer", ChoiceID: correctChoice(c, *f.View)}); err != nil {
			t.Fatalf("write answer: %v", err)
		}
		f = readFrame(t, ctx, conn)
		if !f.Accepted || f.View.IsAnswerCorrect == nil || !*f.View.IsAnswerCorrect {
			t.Fatalf("round %d answer frame = %+v", round, f)
		}

		if err := wsjson.Write(ctx, conn, httpapi.Action{Action: "next"}); err != nil {
			t.Fatalf("write next: %v", err)
		}
		f = readFrame(t, ctx, conn)
		if !f.Accepted {
			t.Fatalf("round %d next not accepted", round)
		}
	}

	if f.View.State != "complete" || f.View.Score != 2 {
		t.Errorf("final view = %+v, want complete with score 2", f.View)
	}

	var extra httpapi.Frame
	err := wsjson.Read(ctx, conn, &extra)
	if got := websocket.CloseStatus(err); got != websocket.StatusNormalClosure {
		t.Errorf("close status = %v (err %v), want normal closure", got, err)
	}
}

func TestPlaySocket_IgnoredAndUnknownActions(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	started := decodeSession(t, do(t, h, http.MethodPost, "/v1/sessions", ""))
	conn, ctx := dialPlay(t, srv, started.ID)
	initial := readFrame(t, ctx, conn)

	if err := wsjson.Write(ctx, conn, httpapi.Action{Action: "next"}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	f := readFrame(t, ctx, conn)
	if f.Accepted {
		t.Error("next before answering was accepted")
	}
	if f.View.Prompt != initial.View.Prompt {
		t.Error("ignored action changed the question")
	}

	if err := wsjson.Write(ctx, conn, httpapi.Action{Action: "dance"}); err != nil {
		t.Fatalf("write unknown: %v", err)
	}
	f = readFrame(t, ctx, conn)
	if f.Error == "" || f.View != nil {
		t.Errorf("unknown action frame = %+v, want error only", f)
	}

	if err := wsjson.Write(ctx, conn, httpapi.Action{Action: "quit"}); err != nil {
		t.Fatalf("write quit: %v", err)
	}
	f = readFrame(t, ctx, conn)
	if !f.Accepted || f.View.State != "complete" {
		t.Errorf("quit frame = %+v", f)
	}
}

func TestPlaySocket_UnknownSession(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/sessions/missing/play")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPlaySocket_SessionEndedElsewhere(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	started := decodeSession(t, do(t, h, http.MethodPost, "/v1/sessions", ""))
	conn, ctx := dialPlay(t, srv, started.ID)
	readFrame(t, ctx, conn)

	if rec := do(t, h, http.MethodDelete, "/v1/sessions/"+started.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	if err := wsjson.Write(ctx, conn, httpapi.Action{Action: "next"}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	var f httpapi.Frame
	err := wsjson.Read(ctx, conn, &f)
	if got := websocket.CloseStatus(err); got != websocket.StatusPolicyViolation {
		t.Errorf("close status = %v (err %v), want policy violation", got, err)
	}
}
