package app

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/narrator"
	"space-adventure-service/internal/rounds"
	"space-adventure-service/internal/voice"
)

const (
	clarifyFallback    = "Anlayamadım, tekrar söyler misin?"
	voiceMissingNotice = "Tarayıcın ses tanımayı desteklemiyor. Lütfen Chrome kullan."
)

// Timing overrides the per-kind delays. Zero fields keep the kind's default.
type Timing struct {
	Advance  time.Duration
	Exit     time.Duration
	Conceal  time.Duration
	Memorize time.Duration
	Hide     time.Duration
}

func (t Timing) apply(r rounds.Rules) rounds.Rules {
	if t.Advance > 0 {
		r.AdvanceDelay = t.Advance
	}
	if t.Exit > 0 {
		r.ExitDelay = t.Exit
	}
	if t.Conceal > 0 {
		r.ConcealDelay = t.Conceal
	}
	if t.Memorize > 0 {
		r.MemorizeFor = t.Memorize
	}
	if t.Hide > 0 {
		r.HideFor = t.Hide
	}
	return r
}

// SessionOptions configures a new Session.
type SessionOptions struct {
	ID           string
	Game         rounds.Game
	Pool         domain.ContentPool
	Seed         int64
	Narrator     *narrator.Narrator
	VoiceEnabled bool
	Timing       Timing
	Log          *logger.Logger
}

// Result is returned for every accepted input.
type Result struct {
	Verdict domain.Verdict      `json:"verdict,omitempty"`
	Outcome string              `json:"outcome"`
	Clarify bool                `json:"clarify,omitempty"`
	Phase   domain.Phase        `json:"phase"`
	State   domain.SessionState `json:"state"`
}

// Session drives one game from the first round to GameOver. All state changes happen under mu,
// including the ones made by delayed transitions. Close releases every timer and the narrator.
type Session struct {
	id       string
	kind     domain.GameKind
	game     rounds.Game
	rules    rounds.Rules
	pool     domain.ContentPool
	seed     int64
	rnd      *rand.Rand
	narrator *narrator.Narrator
	voice    bool
	log      *logger.Logger

	mu          sync.Mutex
	started     bool
	closed      bool
	exited      bool
	state       domain.SessionState
	phase       domain.Phase
	reason      domain.EndReason
	round       domain.Round
	progress    domain.Progress
	seq         int
	timers      map[*time.Timer]struct{}
	subscribers map[chan Snapshot]struct{}
}

func NewSession(opts SessionOptions) *Session {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	kind := opts.Game.Kind()
	return &Session{
		id:          opts.ID,
		kind:        kind,
		game:        opts.Game,
		rules:       opts.Timing.apply(opts.Game.Rules()),
		pool:        opts.Pool,
		seed:        opts.Seed,
		rnd:         rounds.NewRand(opts.Seed),
		narrator:    opts.Narrator,
		voice:       opts.VoiceEnabled,
		log:         log.With("session_id", opts.ID, "game", kind),
		state:       domain.NewSessionState(),
		phase:       domain.PhasePlaying,
		timers:      make(map[*time.Timer]struct{}),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Kind() domain.GameKind { return s.kind }

// Start generates the first round and narrates it. Calling it twice has no effect.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.started {
		return
	}
	s.started = true
	s.log.Info("session started", "seed", s.seed)
	s.beginRoundLocked()
	if s.needsVoice() && !s.voice {
		s.say(voiceMissingNotice)
	}
}

func (s *Session) needsVoice() bool {
	return s.round.Voice != domain.VoiceNone && s.round.Entry != domain.EntryChoice
}

// Submit applies a touch or typed answer.
func (s *Session) Submit(answer string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptingLocked(); err != nil {
		return Result{}, err
	}
	return s.submitLocked(answer), nil
}

// SubmitVoice parses recognized speech and applies it. Unparseable speech asks again without penalty.
func (s *Session) SubmitVoice(text string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.voice {
		return Result{}, domain.ErrVoiceUnsupported
	}
	if err := s.acceptingLocked(); err != nil {
		return Result{}, err
	}
	candidate, ok := voice.Parse(text, s.round)
	if !ok {
		msg := s.rules.Messages.Clarify
		if msg == "" {
			msg = clarifyFallback
		}
		s.say(msg)
		s.broadcastLocked()
		return Result{Outcome: "clarify", Clarify: true, Phase: s.phase, State: s.state}, nil
	}
	return s.submitLocked(candidate), nil
}

// Reveal ends the listening stage of a story round and asks its question.
func (s *Session) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhasePlaying || s.progress.Stage != domain.StageStory {
		return domain.ErrNotAccepting
	}
	s.progress.Stage = domain.StageAnswer
	s.say(s.round.Prompt)
	s.broadcastLocked()
	return nil
}

// SpeechStarted and SpeechEnded forward client playback signals to the narrator.
func (s *Session) SpeechStarted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && s.narrator.Started(id) {
		s.broadcastLocked()
	}
}

func (s *Session) SpeechEnded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && s.narrator.Ended(id) {
		s.broadcastLocked()
	}
}

// Snapshot returns the client view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel of snapshots, starting with the current one. Slow readers only
// miss intermediate snapshots. The channel is closed by cancel or by Close.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close tears the session down: pending transitions are stopped, subscribers are released and
// the active utterance is cancelled. Nothing is narrated or broadcast afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()

	s.narrator.Close()
	s.log.Info("session closed")
}

func (s *Session) acceptingLocked() error {
	switch {
	case s.closed:
		return domain.ErrSessionClosed
	case s.phase == domain.PhaseGameOver:
		return domain.ErrGameOver
	case s.phase == domain.PhaseTransition, s.progress.Stage != domain.StageAnswer:
		return domain.ErrNotAccepting
	}
	return nil
}

func (s *Session) submitLocked(answer string) Result {
	step := rounds.Step(s.game, s.round, s.progress, answer)
	result := Result{Outcome: step.Outcome.String()}

	switch step.Outcome {
	case rounds.Ignored:
	case rounds.Partial:
		result.Verdict = domain.Correct
		s.progress = step.Progress
		s.say(step.Say)
	case rounds.Miss:
		result.Verdict = domain.Incorrect
		s.progress = step.Progress
		s.say(s.rules.Messages.Miss)
		s.concealLaterLocked()
	case rounds.Solved:
		result.Verdict = domain.Correct
		s.progress = step.Progress
		s.state.Score++
		msg := s.round.Success
		if msg == "" {
			msg = s.rules.Messages.Success
		}
		s.say(msg)
		s.advanceLocked()
	case rounds.Wrong:
		result.Verdict = domain.Incorrect
		s.failLocked()
	}
	s.log.Debug("answer applied", "level", s.state.Level, "outcome", result.Outcome, "lives", s.state.Lives)

	if step.Outcome != rounds.Ignored {
		s.broadcastLocked()
	}
	result.Phase = s.phase
	result.State = s.state
	return result
}

func (s *Session) failLocked() {
	if s.rules.Penalize && s.state.Lives > 0 {
		s.state.Lives--
	}
	if s.state.Lives == 0 {
		s.endLocked(domain.EndLost)
		return
	}
	s.say(s.rules.Messages.Failure)
	switch s.rules.OnWrong {
	case rounds.Retry:
	case rounds.Regenerate:
		s.phase = domain.PhaseTransition
		s.afterLocked(s.rules.AdvanceDelay, s.beginRoundLocked)
	case rounds.Advance:
		s.advanceLocked()
	}
}

func (s *Session) advanceLocked() {
	s.phase = domain.PhaseTransition
	if s.rules.MaxLevel > 0 && s.state.Level >= s.rules.MaxLevel {
		s.afterLocked(s.rules.AdvanceDelay, func() { s.endLocked(domain.EndCompleted) })
		return
	}
	s.afterLocked(s.rules.AdvanceDelay, func() {
		s.state.Level++
		s.beginRoundLocked()
	})
}

func (s *Session) endLocked(reason domain.EndReason) {
	s.phase = domain.PhaseGameOver
	s.reason = reason
	msg := s.rules.Messages.GameOver
	if reason == domain.EndCompleted && s.rules.Messages.Complete != "" {
		msg = s.rules.Messages.Complete
	}
	if s.rules.Messages.Score != "" {
		msg = join(msg, fmt.Sprintf(s.rules.Messages.Score, s.state.Score))
	}
	s.say(msg)
	s.log.Info("session over", "reason", reason, "score", s.state.Score, "level", s.state.Level)
	s.afterLocked(s.rules.ExitDelay, func() {
		s.exited = true
		s.broadcastLocked()
	})
	s.broadcastLocked()
}

func (s *Session) beginRoundLocked() {
	s.seq++
	s.round = s.game.Generate(rounds.Request{
		Pool:  s.pool,
		Level: s.state.Level,
		Rand:  s.rnd,
		Seed:  s.seed,
	})
	s.progress = rounds.Begin(s.game, s.round)
	s.phase = domain.PhasePlaying

	switch s.progress.Stage {
	case domain.StageMemorize:
		s.say(s.round.Intro)
		seq := s.seq
		s.afterLocked(s.rules.MemorizeFor, func() {
			if seq != s.seq {
				return
			}
			s.progress.Stage = domain.StageHiding
			s.broadcastLocked()
			s.afterLocked(s.rules.HideFor, func() {
				if seq != s.seq {
					return
				}
				s.progress.Stage = domain.StageAnswer
				s.say(s.round.Prompt)
				s.broadcastLocked()
			})
		})
	case domain.StageStory:
		s.say(s.round.Intro)
	default:
		s.say(join(s.round.Intro, s.round.Prompt))
	}
	s.broadcastLocked()
}

type concealer interface {
	Conceal(p domain.Progress) domain.Progress
}

func (s *Session) concealLaterLocked() {
	c, ok := s.game.(concealer)
	if !ok {
		return
	}
	seq := s.seq
	s.afterLocked(s.rules.ConcealDelay, func() {
		if seq != s.seq {
			return
		}
		s.progress = c.Conceal(s.progress)
		s.broadcastLocked()
	})
}

// afterLocked schedules fn under the session lock. fn is skipped once the session is closed.
func (s *Session) afterLocked(d time.Duration, fn func()) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		delete(s.timers, t)
		fn()
	})
	s.timers[t] = struct{}{}
}

func (s *Session) say(text string) {
	if text == "" || s.closed {
		return
	}
	s.narrator.Speak(text)
}

func (s *Session) broadcastLocked() {
	if s.closed {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// keep only the newest snapshot for slow readers
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
