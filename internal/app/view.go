package app

import (
	"slices"

	"space-adventure-service/internal/domain"
)

// Snapshot is the client view of a session. It never carries the correct answer.
type Snapshot struct {
	SessionID    string              `json:"sessionId"`
	Kind         domain.GameKind     `json:"kind"`
	Phase        domain.Phase        `json:"phase"`
	Reason       domain.EndReason    `json:"reason,omitempty"`
	State        domain.SessionState `json:"state"`
	Round        RoundView           `json:"round"`
	Message      string              `json:"message"`
	Speaking     bool                `json:"speaking"`
	VoiceEnabled bool                `json:"voiceEnabled"`
	Exited       bool                `json:"exited"`
}

// RoundView is a round as the child may currently see it.
type RoundView struct {
	Level   int              `json:"level"`
	Stage   domain.Stage     `json:"stage"`
	Prompt  string           `json:"prompt,omitempty"`
	Entry   domain.Entry     `json:"entry"`
	Voice   domain.VoiceMode `json:"voice,omitempty"`
	Options []domain.Option  `json:"options,omitempty"`
	Aux     domain.Aux       `json:"aux"`
	Flipped []int            `json:"flipped,omitempty"`
	Matched []int            `json:"matched,omitempty"`
	Robot   *domain.Point    `json:"robot,omitempty"`
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:    s.id,
		Kind:         s.kind,
		Phase:        s.phase,
		Reason:       s.reason,
		State:        s.state,
		Round:        viewRound(s.round, s.progress),
		Message:      s.narrator.Message(),
		Speaking:     s.narrator.Speaking(),
		VoiceEnabled: s.voice,
		Exited:       s.exited,
	}
}

func viewRound(r domain.Round, p domain.Progress) RoundView {
	v := RoundView{
		Level:   r.Level,
		Stage:   p.Stage,
		Prompt:  r.Prompt,
		Entry:   r.Entry,
		Voice:   r.Voice,
		Options: r.Options,
		Aux:     r.Aux,
	}

	switch r.Kind {
	case domain.KindPairs:
		v.Options = nil
		v.Flipped = p.Flipped
		v.Matched = p.Matched
		v.Aux.Cards = make([]domain.Card, len(r.Aux.Cards))
		for i, c := range r.Aux.Cards {
			if slices.Contains(p.Flipped, i) || slices.Contains(p.Matched, i) {
				v.Aux.Cards[i] = c
			} else {
				v.Aux.Cards[i] = domain.Card{Index: c.Index}
			}
		}
	case domain.KindMemory:
		switch p.Stage {
		case domain.StageMemorize:
			v.Prompt = r.Intro
			v.Options = nil
		case domain.StageHiding:
			v.Prompt = ""
			v.Options = nil
			v.Aux.Shown = nil
		default:
			v.Aux.Shown = slices.DeleteFunc(slices.Clone(r.Aux.Shown), func(item domain.ContentItem) bool {
				return item.ID == r.Answer
			})
		}
	case domain.KindStory:
		if p.Stage == domain.StageStory {
			v.Prompt = r.Intro
			v.Aux.Question = ""
		}
	case domain.KindRobotCommand:
		pos := p.Robot
		v.Robot = &pos
	}
	return v
}
