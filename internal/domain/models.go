package domain

import "time"

// VisualKind tells the client how to render a ContentItem.
type VisualKind string

const (
	VisualIcon  VisualKind = "icon"
	VisualImage VisualKind = "image"
	VisualShape VisualKind = "shape"
	VisualLabel VisualKind = "label"
)

// Visual is either a symbolic icon name, an image URL, a basic shape or a plain label.
type Visual struct {
	Kind VisualKind `json:"kind"`
	Ref  string     `json:"ref"`
}

// ContentItem is a selectable visual unit. Items are values and are never mutated once drawn.
type ContentItem struct {
	ID     string `json:"id"`
	Visual Visual `json:"visual"`
	Size   string `json:"size,omitempty"`
	Count  int    `json:"count,omitempty"`
	Color  string `json:"color,omitempty"`
}

// ContentPool is the ordered item list games draw from: user characters first, defaults after.
type ContentPool []ContentItem

// CharacterType is the flavour of a user-created character.
type CharacterType string

const (
	CharacterRobot CharacterType = "robot"
	CharacterAlien CharacterType = "alien"
	CharacterHero  CharacterType = "hero"
)

// Character is a user-created character held by the gallery.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ImageURL    string        `json:"imageUrl"`
	Type        CharacterType `json:"type"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Verdict is the result of evaluating one submitted answer.
type Verdict string

const (
	Correct   Verdict = "correct"
	Incorrect Verdict = "incorrect"
)

// Phase is the session controller state.
type Phase string

const (
	PhasePlaying    Phase = "playing"
	PhaseTransition Phase = "round_transition"
	PhaseGameOver   Phase = "game_over"
)

// EndReason explains why a session reached GameOver.
type EndReason string

const (
	EndLost      EndReason = "lost"
	EndCompleted EndReason = "completed"
)

// SessionState is the per-session score keeping. Only the session controller mutates it.
type SessionState struct {
	Level int `json:"level"`
	Lives int `json:"lives"`
	Score int `json:"score"`
}

// StartingLives is the life count of a fresh session.
const StartingLives = 3

// NewSessionState returns the initial state: level 1, three lives, no score.
func NewSessionState() SessionState {
	return SessionState{Level: 1, Lives: StartingLives}
}
