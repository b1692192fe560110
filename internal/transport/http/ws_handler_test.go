package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"space-adventure-service/internal/app"
	"space-adventure-service/internal/content"
	"space-adventure-service/internal/infra/memory"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/rounds"
	"space-adventure-service/internal/studio"
)

var testTiming = app.Timing{
	Advance:  20 * time.Millisecond,
	Exit:     20 * time.Millisecond,
	Conceal:  10 * time.Millisecond,
	Memorize: 20 * time.Millisecond,
	Hide:     10 * time.Millisecond,
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, gen studio.ImageGenerator) *testServer {
	t.Helper()
	repo := memory.NewGallery()
	pools := content.NewProvider(repo)
	gallery := app.NewGallery(repo, pools)
	sessions := memory.NewSessionStore()
	games := app.NewGameService(sessions, pools, rounds.NewRegistry(), nil, testTiming, logger.Nop())
	if gen == nil {
		gen = studio.Unavailable{}
	}
	st := studio.New(studio.NewArtist(gen, time.Millisecond, logger.Nop()), gallery, logger.Nop())

	server := httptest.NewServer(NewRouter(Deps{Games: games, Gallery: gallery, Studio: st, Sessions: sessions, Log: logger.Nop()}))
	t.Cleanup(server.Close)
	return &testServer{Server: server}
}

func (s *testServer) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// live reads the session count the way an operator would, through /healthz.
func (s *testServer) live(t *testing.T) int {
	t.Helper()
	var health healthPayload
	if code := doJSON(t, http.MethodGet, s.URL+"/healthz", nil, &health); code != http.StatusOK {
		t.Fatalf("healthz status %d", code)
	}
	return health.Sessions
}

func TestWebSocketAnswerFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := srv.dial(t, "game=find_different&voice=true&seed=7")

	_, joined := readNext(conn, t, "joined")
	if joined["sessionId"] == "" || joined["kind"] != "find_different" {
		t.Fatalf("unexpected joined payload: %v", joined)
	}

	// The intro is spoken and the first state arrives.
	speakSeen, stateSeen := false, false
	for i := 0; i < 6 && !(speakSeen && stateSeen); i++ {
		typ, payload := readNext(conn, t, "")
		switch typ {
		case "speak":
			speakSeen = payload["text"] != ""
		case "state":
			stateSeen = true
			round := payload["round"].(map[string]any)
			if _, ok := round["answer"]; ok {
				t.Fatalf("state must not carry the answer")
			}
		}
	}
	if !speakSeen || !stateSeen {
		t.Fatalf("expected speak and state, got speak=%v state=%v", speakSeen, stateSeen)
	}

	if err := conn.WriteJSON(map[string]any{"type": "answer", "payload": map[string]any{"answer": "no-such-option"}}); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t, "")
		if typ != "result" {
			continue
		}
		if payload["verdict"] != "incorrect" {
			t.Fatalf("expected incorrect verdict, got %v", payload)
		}
		state := payload["state"].(map[string]any)
		if state["lives"].(float64) != 2 {
			t.Fatalf("expected one life lost, got %v", state)
		}
		return
	}
	t.Fatalf("no result received")
}

func TestWebSocketUnknownGame(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := srv.dial(t, "game=chess")
	_, payload := readNext(conn, t, "error")
	if payload["message"] == "" {
		t.Fatalf("expected error message")
	}
}

func TestWebSocketCloseEndsSession(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := srv.dial(t, "game=pattern")
	readNext(conn, t, "joined")
	if n := srv.live(t); n != 1 {
		t.Fatalf("expected one live session, got %d", n)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.live(t) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not released after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketSpeechSignals(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := srv.dial(t, "game=pattern&seed=3")
	readNext(conn, t, "joined")

	var id string
	for i := 0; i < 6 && id == ""; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == "speak" {
			id, _ = payload["id"].(string)
		}
	}
	if id == "" {
		t.Fatalf("no utterance received")
	}
	if err := conn.WriteJSON(map[string]any{"type": "speechStarted", "payload": map[string]any{"id": id}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == "state" && payload["speaking"] == true {
			return
		}
	}
	t.Fatalf("speaking flag never reported")
}

func TestWebSocketUnsupportedMessage(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := srv.dial(t, "game=pattern")
	readNext(conn, t, "joined")
	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == "error" {
			if payload["message"] != "unsupported message type" {
				t.Fatalf("unexpected error %v", payload)
			}
			return
		}
	}
	t.Fatalf("no error received")
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

