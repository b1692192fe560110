package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/narrator"
	"space-adventure-service/internal/rounds"
	"space-adventure-service/internal/voice"
)

// SessionRepository abstracts where live sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(id string) (*Session, bool)
	Delete(ctx context.Context, id string)
}

// PoolProvider supplies the shared, read-only content pool.
type PoolProvider interface {
	Pool(ctx context.Context) (domain.ContentPool, error)
}

// GameService contains the game session use cases.
type GameService struct {
	sessions    SessionRepository
	pools       PoolProvider
	games       rounds.Registry
	transcriber voice.Transcriber
	timing      Timing
	log         *logger.Logger
}

func NewGameService(sessions SessionRepository, pools PoolProvider, games rounds.Registry, transcriber voice.Transcriber, timing Timing, log *logger.Logger) *GameService {
	if transcriber == nil {
		transcriber = voice.Unsupported{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GameService{
		sessions:    sessions,
		pools:       pools,
		games:       games,
		transcriber: transcriber,
		timing:      timing,
		log:         log,
	}
}

// StartOptions describes the client opening a game.
type StartOptions struct {
	Kind domain.GameKind
	// Speaker plays narrator utterances on the client.
	Speaker narrator.Speaker
	// VoiceSupported reports client-side speech recognition.
	VoiceSupported bool
	// Seed fixes generation; zero picks a random seed.
	Seed int64
}

// Start creates, registers and starts a session.
func (s *GameService) Start(ctx context.Context, opts StartOptions) (*Session, error) {
	game, err := s.games.Lookup(opts.Kind)
	if err != nil {
		return nil, err
	}
	pool, err := s.pools.Pool(ctx)
	if err != nil {
		return nil, fmt.Errorf("content pool: %w", err)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rounds.NewSeed()
	}

	session := NewSession(SessionOptions{
		ID:           uuid.NewString(),
		Game:         game,
		Pool:         pool,
		Seed:         seed,
		Narrator:     narrator.New(opts.Speaker, narrator.DefaultVoice),
		VoiceEnabled: opts.VoiceSupported || s.transcriber.Supported(),
		Timing:       s.timing,
		Log:          s.log,
	})
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	session.Start()
	return session, nil
}

// Get returns a live session.
func (s *GameService) Get(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Submit applies a touch answer to session id.
func (s *GameService) Submit(_ context.Context, id, answer string) (Result, error) {
	session, err := s.Get(id)
	if err != nil {
		return Result{}, err
	}
	return session.Submit(answer)
}

// SubmitVoice applies text recognized on the client.
func (s *GameService) SubmitVoice(_ context.Context, id, text string) (Result, error) {
	session, err := s.Get(id)
	if err != nil {
		return Result{}, err
	}
	return session.SubmitVoice(text)
}

// SubmitAudio transcribes one recorded phrase server-side and applies it as voice input.
func (s *GameService) SubmitAudio(ctx context.Context, id string, audio []byte, mimeType string) (Result, error) {
	session, err := s.Get(id)
	if err != nil {
		return Result{}, err
	}
	text, err := s.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}
	return session.SubmitVoice(text)
}

// End tears the session down and forgets it.
func (s *GameService) End(ctx context.Context, id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(ctx, id)
}
