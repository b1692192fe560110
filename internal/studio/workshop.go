package studio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/voice"
)

type Kind string

const (
	KindCharacter Kind = "character"
	KindColoring  Kind = "coloring"
	KindAnimation Kind = "animation"
)

type Stage string

const (
	StageGate       Stage = "gate"
	StageSelect     Stage = "select"
	StagePrompt     Stage = "prompt"
	StageGenerating Stage = "generating"
	StageResult     Stage = "result"
	StageColoring   Stage = "coloring"
	StagePlaying    Stage = "playing"
	StageSaved      Stage = "saved"
)

// StarCount is the answer to the coloring gate question.
const StarCount = 3

// FrameInterval is how long each animation frame stays on screen.
const FrameInterval = 250 * time.Millisecond

// Palette lists the colors a child can paint with.
var Palette = []string{"#ef4444", "#3b82f6", "#eab308", "#22c55e", "#a855f7", "#f97316", "#ec4899", "#334155"}

// ErrUnknownColor is returned when a decoration uses a color outside the palette.
var ErrUnknownColor = errors.New("color is not in the palette")

// DefaultCharacter is offered by the animation workshop when the gallery has nothing to pick.
var DefaultCharacter = domain.Character{
	ID:          "default",
	Name:        "Mavi Robot",
	Description: "Blue friendly robot",
	ImageURL:    "https://cdn.pixabay.com/photo/2022/01/18/07/39/robot-6946636_1280.png",
	Type:        domain.CharacterRobot,
}

const (
	msgCharacterIntro   = "Bana hayalindeki karakteri anlat. Mesela 'Mor antenli robot' de."
	msgCharacterDrawing = `Harika bir fikir: "%s". Şimdi onu çiziyorum...`
	msgCharacterReady   = "İşte karakterin! Beğendiysen kaydedelim."
	msgCharacterFailed  = "Üzgünüm, bir sorun oldu. Tekrar anlatır mısın?"
	msgSaved            = "Kaydedildi! Harika bir iş çıkardın."

	msgColoringGate    = "Boyama yapmak için önce şifreyi çöz! Ekranda kaç tane sarı yıldız var?"
	msgColoringOpen    = "Doğru! Şifre açıldı. Şimdi ne boyamak istersin? Sesle anlat."
	msgColoringWrong   = "Yanlış cevap. Tekrar sayalım mı?"
	msgColoringDrawing = "%s çiziliyor..."
	msgColoringReady   = "Renkleri seç ve resme dokun!"
	msgColoringFailed  = "Çizemedim. Tekrar dene."

	msgAnimationIntro   = "Kimi videoda oynatalım? Bir karakter seç."
	msgAnimationAction  = "Harika seçim! Şimdi %s ne yapsın? Mesela 'zıplasın', 'dans etsin' de."
	msgAnimationDrawing = "Video hazırlanıyor! Lütfen bekle, kare kare çiziyorum..."
	msgAnimationReady   = "İşte videon hazır! Harika görünüyor."
	msgAnimationFailed  = "Bir sorun oldu. Lütfen tekrar dene."

	coloringName = "Boyama"
)

// CharacterStore is the part of the gallery a workshop needs.
type CharacterStore interface {
	Append(ctx context.Context, c domain.Character) (domain.Character, error)
	Get(ctx context.Context, id string) (domain.Character, error)
}

// Decoration is one dab of paint on a coloring page, in percent of the image size.
type Decoration struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// View is what the client renders for a workshop.
type View struct {
	ID            string            `json:"id"`
	Kind          Kind              `json:"kind"`
	Stage         Stage             `json:"stage"`
	Message       string            `json:"message"`
	Prompt        string            `json:"prompt,omitempty"`
	Image         string            `json:"image,omitempty"`
	Frames        []string          `json:"frames,omitempty"`
	FrameInterval int64             `json:"frameIntervalMs,omitempty"`
	Character     *domain.Character `json:"character,omitempty"`
	Saved         *domain.Character `json:"saved,omitempty"`
	Decorations   []Decoration      `json:"decorations,omitempty"`
	Palette       []string          `json:"palette,omitempty"`
	StarCount     int               `json:"starCount,omitempty"`
}

// Workshop walks a child through one creation. Generation runs without the lock held; input
// arriving meanwhile is rejected with ErrWorkshopBusy.
type Workshop struct {
	id      string
	kind    Kind
	artist  *Artist
	gallery CharacterStore
	log     *logger.Logger

	mu          sync.Mutex
	stage       Stage
	message     string
	prompt      string
	image       string
	frames      []string
	character   *domain.Character
	saved       *domain.Character
	decorations []Decoration
	closed      bool
}

func newWorkshop(id string, kind Kind, artist *Artist, gallery CharacterStore, log *logger.Logger) (*Workshop, error) {
	w := &Workshop{id: id, kind: kind, artist: artist, gallery: gallery, log: log.With("workshop", id, "kind", kind)}
	switch kind {
	case KindCharacter:
		w.stage, w.message = StagePrompt, msgCharacterIntro
	case KindColoring:
		w.stage, w.message = StageGate, msgColoringGate
	case KindAnimation:
		w.stage, w.message = StageSelect, msgAnimationIntro
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWorkshop, kind)
	}
	return w, nil
}

func (w *Workshop) ID() string { return w.id }

func (w *Workshop) Kind() Kind { return w.kind }

func (w *Workshop) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

// Input handles a spoken or typed line: the gate answer, a description or an action.
func (w *Workshop) Input(ctx context.Context, text string) (View, error) {
	text = strings.TrimSpace(text)

	w.mu.Lock()
	switch w.stage {
	case StageGenerating:
		w.mu.Unlock()
		return View{}, domain.ErrWorkshopBusy
	case StageGate:
		if n, ok := voice.ParseNumber(text); ok && n == StarCount {
			w.stage, w.message = StagePrompt, msgColoringOpen
		} else {
			w.message = msgColoringWrong
		}
		defer w.mu.Unlock()
		return w.viewLocked(), nil
	case StagePrompt:
	default:
		stage := w.stage
		w.mu.Unlock()
		return View{}, fmt.Errorf("%w: input in %s", domain.ErrWrongStage, stage)
	}
	if text == "" {
		defer w.mu.Unlock()
		return w.viewLocked(), nil
	}

	w.prompt = text
	w.stage = StageGenerating
	var character domain.Character
	switch w.kind {
	case KindCharacter:
		w.message = fmt.Sprintf(msgCharacterDrawing, text)
	case KindColoring:
		w.message = fmt.Sprintf(msgColoringDrawing, text)
	case KindAnimation:
		w.message = msgAnimationDrawing
		character = *w.character
	}
	w.mu.Unlock()

	var (
		image  string
		frames []string
		err    error
	)
	switch w.kind {
	case KindCharacter:
		image, err = w.artist.Portrait(ctx, text)
	case KindColoring:
		image, err = w.artist.Outline(ctx, text)
	case KindAnimation:
		frames, err = w.artist.Frames(ctx, character.Description, text)
		if err == nil && len(frames) == 0 {
			err = fmt.Errorf("%w: %w", domain.ErrGenerationFailed, domain.ErrNoImage)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return View{}, domain.ErrWorkshopNotFound
	}
	if err != nil {
		w.log.Warn("generation failed", "error", err)
		w.stage = StagePrompt
		switch w.kind {
		case KindCharacter:
			w.message = msgCharacterFailed
		case KindColoring:
			w.message = msgColoringFailed
		case KindAnimation:
			w.message = msgAnimationFailed
		}
		if !errors.Is(err, domain.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
		return w.viewLocked(), err
	}
	switch w.kind {
	case KindCharacter:
		w.image, w.stage, w.message = image, StageResult, msgCharacterReady
	case KindColoring:
		w.image, w.stage, w.message = image, StageColoring, msgColoringReady
		w.decorations = nil
	case KindAnimation:
		w.frames, w.stage, w.message = frames, StagePlaying, msgAnimationReady
	}
	return w.viewLocked(), nil
}

// Select picks the animation star. An empty id picks DefaultCharacter.
func (w *Workshop) Select(ctx context.Context, characterID string) (View, error) {
	if w.kind != KindAnimation {
		return View{}, fmt.Errorf("%w: select in %s workshop", domain.ErrWrongStage, w.kind)
	}
	character := DefaultCharacter
	if characterID != "" && characterID != DefaultCharacter.ID {
		c, err := w.gallery.Get(ctx, characterID)
		if err != nil {
			return View{}, err
		}
		character = c
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageSelect {
		return View{}, fmt.Errorf("%w: select in %s", domain.ErrWrongStage, w.stage)
	}
	w.character = &character
	w.stage = StagePrompt
	w.message = fmt.Sprintf(msgAnimationAction, character.Name)
	return w.viewLocked(), nil
}

// Paint adds a decoration to the coloring page.
func (w *Workshop) Paint(d Decoration) (View, error) {
	if d.Color == "" {
		d.Color = Palette[0]
	}
	if !slices.Contains(Palette, d.Color) {
		return View{}, fmt.Errorf("%w: %s", ErrUnknownColor, d.Color)
	}
	d.X = clampPercent(d.X)
	d.Y = clampPercent(d.Y)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageColoring {
		return View{}, fmt.Errorf("%w: paint in %s", domain.ErrWrongStage, w.stage)
	}
	w.decorations = append(w.decorations, d)
	return w.viewLocked(), nil
}

// Save stores the portrait or the coloring page in the gallery.
func (w *Workshop) Save(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var c domain.Character
	switch {
	case w.kind == KindCharacter && w.stage == StageResult:
		c = domain.Character{Description: w.prompt, ImageURL: w.image, Type: domain.CharacterRobot}
	case w.kind == KindColoring && w.stage == StageColoring:
		c = domain.Character{Name: coloringName, Description: w.prompt, ImageURL: w.image, Type: domain.CharacterAlien}
	default:
		return View{}, fmt.Errorf("%w: save in %s", domain.ErrWrongStage, w.stage)
	}
	saved, err := w.gallery.Append(ctx, c)
	if err != nil {
		return View{}, err
	}
	w.saved = &saved
	w.stage, w.message = StageSaved, msgSaved
	return w.viewLocked(), nil
}

// Retry drops the current result and asks for a new description.
func (w *Workshop) Retry() (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.stage {
	case StageResult, StageColoring, StagePlaying, StageSaved:
	default:
		return View{}, fmt.Errorf("%w: retry in %s", domain.ErrWrongStage, w.stage)
	}
	w.image, w.frames, w.decorations, w.saved = "", nil, nil, nil
	w.stage = StagePrompt
	switch w.kind {
	case KindCharacter:
		w.message = msgCharacterIntro
	case KindColoring:
		w.message = msgColoringOpen
	case KindAnimation:
		w.message = fmt.Sprintf(msgAnimationAction, w.character.Name)
	}
	return w.viewLocked(), nil
}

func (w *Workshop) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *Workshop) viewLocked() View {
	v := View{
		ID:      w.id,
		Kind:    w.kind,
		Stage:   w.stage,
		Message: w.message,
		Prompt:  w.prompt,
		Image:   w.image,
		Saved:   w.saved,
	}
	if w.character != nil {
		c := *w.character
		v.Character = &c
	}
	if len(w.frames) > 0 {
		v.Frames = slices.Clone(w.frames)
		v.FrameInterval = FrameInterval.Milliseconds()
	}
	if w.kind == KindColoring {
		v.Palette = Palette
		v.Decorations = slices.Clone(w.decorations)
		if w.stage == StageGate {
			v.StarCount = StarCount
		}
	}
	return v
}

func clampPercent(v float64) float64 {
	return max(0, min(100, v))
}
