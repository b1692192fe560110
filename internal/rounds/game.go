package rounds

import (
	"fmt"
	"math/rand"
	"time"

	"space-adventure-service/internal/domain"
)

// Request is the input of one generation call.
type Request struct {
	Pool  domain.ContentPool
	Level int
	Rand  *rand.Rand
	// Seed is the session seed. Kinds that order a fixed bank across levels derive that order from it.
	Seed int64
}

// FailurePolicy decides what follows a wrong answer that did not end the session.
type FailurePolicy int

const (
	// Retry keeps the same round.
	Retry FailurePolicy = iota
	// Regenerate replaces the round with a fresh one at the same level.
	Regenerate
	// Advance moves on to the next level as if the round was solved, without scoring.
	Advance
)

// Messages is the narrator text of a kind. Score is a format string taking the final score.
type Messages struct {
	Success  string
	Failure  string
	Clarify  string
	Miss     string
	GameOver string
	Complete string
	Score    string
}

// Rules are the per-kind session parameters.
type Rules struct {
	OnWrong  FailurePolicy
	Penalize bool
	// MaxLevel ends the session as completed once that level is solved. Zero means endless.
	MaxLevel     int
	AdvanceDelay time.Duration
	ExitDelay    time.Duration
	ConcealDelay time.Duration
	MemorizeFor  time.Duration
	HideFor      time.Duration
	Messages     Messages
}

// Game generates rounds for one kind.
type Game interface {
	Kind() domain.GameKind
	Rules() Rules
	Generate(req Request) domain.Round
}

// Outcome is the effect of one input on the current round.
type Outcome int

const (
	// Solved means the round is complete and correct.
	Solved Outcome = iota
	// Partial is a correct intermediate step of a stepped round.
	Partial
	// Wrong is an incorrect answer.
	Wrong
	// Miss is an incorrect step that never costs a life.
	Miss
	// Ignored input leaves the round untouched.
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case Partial:
		return "partial"
	case Wrong:
		return "wrong"
	case Miss:
		return "miss"
	case Ignored:
		return "ignored"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// StepResult carries the next progress, the outcome and an optional narrator line.
type StepResult struct {
	Progress domain.Progress
	Outcome  Outcome
	Say      string
}

// Stepper is implemented by kinds whose rounds take more than one input.
type Stepper interface {
	Begin(r domain.Round) domain.Progress
	Step(r domain.Round, p domain.Progress, answer string) StepResult
}

// Begin returns the initial progress of a round.
func Begin(g Game, r domain.Round) domain.Progress {
	if s, ok := g.(Stepper); ok {
		return s.Begin(r)
	}
	return domain.Progress{Stage: domain.StageAnswer}
}

// Step applies one answer. Kinds without a Stepper resolve in one step through Evaluate.
func Step(g Game, r domain.Round, p domain.Progress, answer string) StepResult {
	if s, ok := g.(Stepper); ok {
		return s.Step(r, p, answer)
	}
	if Evaluate(r, answer) == domain.Correct {
		return StepResult{Progress: p, Outcome: Solved}
	}
	return StepResult{Progress: p, Outcome: Wrong}
}

// Registry maps kinds to games.
type Registry map[domain.GameKind]Game

// NewRegistry returns every built-in game.
func NewRegistry() Registry {
	reg := Registry{}
	for _, g := range []Game{
		FindDifferent{},
		NumberedDifferent{},
		Pattern{},
		Memory{},
		Pairs{},
		CipherLogic{},
		RobotCommand{},
		Story{},
		Practice{},
	} {
		reg[g.Kind()] = g
	}
	return reg
}

// Lookup returns the game for kind or domain.ErrUnknownGame.
func (r Registry) Lookup(kind domain.GameKind) (Game, error) {
	g, ok := r[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownGame, kind)
	}
	return g, nil
}

// Generate produces one round of kind. req.Seed must be the session seed so that seed-ordered
// kinds such as practice stay stable across levels.
func (r Registry) Generate(kind domain.GameKind, req Request) (domain.Round, error) {
	g, err := r.Lookup(kind)
	if err != nil {
		return domain.Round{}, err
	}
	return g.Generate(req), nil
}
