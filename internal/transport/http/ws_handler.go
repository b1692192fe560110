package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"space-adventure-service/internal/app"
	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/narrator"
)

const outboxSize = 64

type WSHandler struct {
	games    *app.GameService
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewWSHandler(games *app.GameService, log *logger.Logger) *WSHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WSHandler{
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.With("handler", "ws"),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type voicePayload struct {
	Text string `json:"text"`
}

type audioPayload struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

type speechPayload struct {
	ID string `json:"id"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type joinedPayload struct {
	SessionID string          `json:"sessionId"`
	Kind      domain.GameKind `json:"kind"`
	Voice     narrator.Voice  `json:"voice"`
}

type exitPayload struct {
	Reason domain.EndReason    `json:"reason"`
	State  domain.SessionState `json:"state"`
}

// outbox serializes everything written to one connection.
type outbox struct {
	ch   chan outboundMessage
	done chan struct{}
	once sync.Once
}

func newOutbox() *outbox {
	return &outbox{ch: make(chan outboundMessage, outboxSize), done: make(chan struct{})}
}

// send waits for room in the queue unless the connection is gone.
func (o *outbox) send(msg outboundMessage) {
	select {
	case <-o.done:
	case o.ch <- msg:
	}
}

// offer never blocks. It reports whether msg was queued.
func (o *outbox) offer(msg outboundMessage) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.ch <- msg:
		return true
	default:
		return false
	}
}

func (o *outbox) close() {
	o.once.Do(func() { close(o.done) })
}

// wsSpeaker forwards narrator utterances to the client, which does the actual synthesis.
type wsSpeaker struct {
	out *outbox
	log *logger.Logger
}

func (s wsSpeaker) Speak(u narrator.Utterance) {
	if !s.out.offer(outboundMessage{Type: "speak", Payload: u}) {
		s.log.Warn("speak dropped", "utterance", u.ID)
	}
}

func (s wsSpeaker) Cancel(id string) {
	s.out.offer(outboundMessage{Type: "cancelSpeech", Payload: speechPayload{ID: id}})
}

// ServeWS upgrades the request, starts a game session and relays it until either side leaves.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := domain.GameKind(q.Get("game"))
	if kind == "" {
		http.Error(w, "missing game", http.StatusBadRequest)
		return
	}
	var seed int64
	if raw := q.Get("seed"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = n
	}
	voiceSupported, _ := strconv.ParseBool(q.Get("voice"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	out := newOutbox()
	session, err := h.games.Start(r.Context(), app.StartOptions{
		Kind:           kind,
		Speaker:        wsSpeaker{out: out, log: h.log},
		VoiceSupported: voiceSupported,
		Seed:           seed,
	})
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	log := h.log.With("session", session.ID())
	defer h.games.End(context.Background(), session.ID())

	// joined goes out before anything the session queued while starting.
	if err := conn.WriteJSON(outboundMessage{Type: "joined", Payload: joinedPayload{
		SessionID: session.ID(),
		Kind:      session.Kind(),
		Voice:     narrator.DefaultVoice,
	}}); err != nil {
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-out.ch:
				if err := conn.WriteJSON(msg); err != nil {
					log.Debug("ws write error", "error", err)
					out.close()
					return
				}
			case <-out.done:
				return
			}
		}
	}()

	updates, unsubscribe := session.Subscribe()
	updatesDone := make(chan struct{})
	go func() {
		defer close(updatesDone)
		exited := false
		for snap := range updates {
			out.send(outboundMessage{Type: "state", Payload: snap})
			if snap.Exited && !exited {
				exited = true
				out.send(outboundMessage{Type: "exit", Payload: exitPayload{Reason: snap.Reason, State: snap.State}})
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r.Context(), session, inbound, out)
	}

	unsubscribe()
	<-updatesDone
	out.close()
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, session *app.Session, in inboundMessage, out *outbox) {
	fail := func(msg string) {
		out.send(outboundMessage{Type: "error", Payload: errorPayload{Message: msg}})
	}
	result := func(res app.Result, err error) {
		if err != nil {
			fail(err.Error())
			return
		}
		out.send(outboundMessage{Type: "result", Payload: res})
	}

	switch in.Type {
	case "answer":
		var p answerPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			fail("invalid answer payload")
			return
		}
		result(h.games.Submit(ctx, session.ID(), p.Answer))
	case "voice":
		var p voicePayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			fail("invalid voice payload")
			return
		}
		result(h.games.SubmitVoice(ctx, session.ID(), p.Text))
	case "audio":
		var p audioPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil || len(p.Data) == 0 {
			fail("invalid audio payload")
			return
		}
		result(h.games.SubmitAudio(ctx, session.ID(), p.Data, p.MimeType))
	case "reveal":
		if err := session.Reveal(); err != nil {
			fail(err.Error())
		}
	case "speechStarted", "speechEnded":
		var p speechPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			fail("invalid speech payload")
			return
		}
		if in.Type == "speechStarted" {
			session.SpeechStarted(p.ID)
		} else {
			session.SpeechEnded(p.ID)
		}
	default:
		fail("unsupported message type")
	}
}
