package narrator

import (
	"sync"

	"github.com/google/uuid"
)

// Voice is the synthesis profile the client applies to every utterance.
type Voice struct {
	Lang  string  `json:"lang"`
	Rate  float64 `json:"rate"`
	Pitch float64 `json:"pitch"`
}

// DefaultVoice is a slightly slow, slightly high Turkish voice.
var DefaultVoice = Voice{Lang: "tr-TR", Rate: 0.9, Pitch: 1.1}

// Utterance is one message to be spoken.
type Utterance struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Voice Voice  `json:"voice"`
}

// Speaker plays utterances. Implementations must not block and must not call back into the Narrator.
type Speaker interface {
	Speak(u Utterance)
	Cancel(id string)
}

// Narrator owns the single active utterance of a guide. Speak cancels whatever is playing first.
type Narrator struct {
	speaker Speaker
	voice   Voice

	mu       sync.Mutex
	active   string
	speaking bool
	message  string
	closed   bool
}

func New(speaker Speaker, voice Voice) *Narrator {
	return &Narrator{speaker: speaker, voice: voice}
}

// Speak starts text and returns its utterance id. It returns "" once the narrator is closed.
func (n *Narrator) Speak(text string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || text == "" {
		return ""
	}
	if n.active != "" {
		n.speaker.Cancel(n.active)
	}
	id := uuid.NewString()
	n.active = id
	n.speaking = false
	n.message = text
	n.speaker.Speak(Utterance{ID: id, Text: text, Voice: n.voice})
	return id
}

// Started records that the client began playing id. Stale ids are ignored.
func (n *Narrator) Started(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || id != n.active {
		return false
	}
	n.speaking = true
	return true
}

// Ended records that id finished or was interrupted. Stale ids are ignored.
func (n *Narrator) Ended(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || id != n.active {
		return false
	}
	n.speaking = false
	n.active = ""
	return true
}

func (n *Narrator) Speaking() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.speaking
}

// Message is the text of the most recent utterance.
func (n *Narrator) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// Close cancels the active utterance. Later calls to Speak are dropped.
func (n *Narrator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	if n.active != "" {
		n.speaker.Cancel(n.active)
		n.active = ""
	}
	n.speaking = false
}
