package domain

// GameKind identifies a mini-game.
type GameKind string

const (
	KindFindDifferent     GameKind = "find_different"
	KindNumberedDifferent GameKind = "numbered_different"
	KindPattern           GameKind = "pattern"
	KindMemory            GameKind = "memory"
	KindPairs             GameKind = "pairs"
	KindCipherLogic       GameKind = "cipher_logic"
	KindRobotCommand      GameKind = "robot_command"
	KindStory             GameKind = "story"
	KindPractice          GameKind = "practice"
)

// Entry describes how an answer for a round is submitted.
type Entry string

const (
	EntryChoice    Entry = "choice"
	EntryCards     Entry = "cards"
	EntryDigits    Entry = "digits"
	EntryDirection Entry = "direction"
	EntryKeywords  Entry = "keywords"
)

// VoiceMode selects the answer parser used for recognized speech.
type VoiceMode string

const (
	VoiceNone     VoiceMode = ""
	VoiceNumeric  VoiceMode = "numeric"
	VoiceKeywords VoiceMode = "keywords"
)

// Option is one selectable answer. ID is the identity submitted by clients.
type Option struct {
	ID    string      `json:"id"`
	Item  ContentItem `json:"item"`
	Label string      `json:"label,omitempty"`
}

// Round is one question instance. It is immutable for its lifetime.
type Round struct {
	Kind     GameKind  `json:"kind"`
	Level    int       `json:"level"`
	Intro    string    `json:"intro,omitempty"`
	Prompt   string    `json:"prompt"`
	Options  []Option  `json:"options,omitempty"`
	Answer   string    `json:"-"`
	Entry    Entry     `json:"entry"`
	Voice    VoiceMode `json:"voice,omitempty"`
	Keywords []string  `json:"-"`
	Success  string    `json:"-"`
	Aux      Aux       `json:"aux"`
}

// Aux carries the kind specific data a client needs to render a round.
type Aux struct {
	Sequence []ContentItem `json:"sequence,omitempty"`
	Shown    []ContentItem `json:"shown,omitempty"`
	Cards    []Card        `json:"cards,omitempty"`
	Cipher   *Cipher       `json:"cipher,omitempty"`
	Grid     *Grid         `json:"grid,omitempty"`
	Story    string        `json:"story,omitempty"`
	Question string        `json:"question,omitempty"`
}

// Card is one face of a pairs deck. Two cards share an ItemID.
type Card struct {
	Index  int         `json:"index"`
	ItemID string      `json:"itemId"`
	Item   ContentItem `json:"item"`
}

// Cipher holds the example rows and the question row of a symbol-to-digit puzzle.
type Cipher struct {
	Examples []CipherRow    `json:"examples"`
	Question []ContentItem  `json:"question"`
	Digits   map[string]int `json:"-"`
}

// CipherRow is a row of symbols together with the digits they stand for.
type CipherRow struct {
	Symbols []ContentItem `json:"symbols"`
	Digits  []int         `json:"digits"`
}

// Point is a grid cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is the robot board.
type Grid struct {
	Size   int   `json:"size"`
	Start  Point `json:"start"`
	Target Point `json:"target"`
}

// Stage is a sub-phase inside a round, used by kinds that reveal content over time.
type Stage string

const (
	StageAnswer   Stage = "answer"
	StageMemorize Stage = "memorize"
	StageHiding   Stage = "hiding"
	StageStory    Stage = "story"
)

// Progress is the mutable per-round state of stepped kinds, owned by the session.
type Progress struct {
	Stage   Stage  `json:"stage"`
	Flipped []int  `json:"flipped,omitempty"`
	Matched []int  `json:"matched,omitempty"`
	Robot   Point  `json:"robot"`
	Command string `json:"command,omitempty"`
}
