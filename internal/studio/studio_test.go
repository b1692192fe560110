package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	fail    func(call int) bool
	block   chan struct{}
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	call := len(f.prompts)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.fail != nil && f.fail(call) {
		return "", errors.New("quota exceeded")
	}
	return DataURL("image/png", []byte{byte(call)}), nil
}

func (f *fakeGenerator) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type fakeGallery struct {
	mu    sync.Mutex
	chars []domain.Character
}

func (g *fakeGallery) Append(_ context.Context, c domain.Character) (domain.Character, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c.ID = "c" + string(rune('0'+len(g.chars)))
	g.chars = append(g.chars, c)
	return c, nil
}

func (g *fakeGallery) Get(_ context.Context, id string) (domain.Character, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.chars {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Character{}, domain.ErrCharacterNotFound
}

func newTestStudio(gen ImageGenerator) (*Studio, *fakeGallery) {
	gallery := &fakeGallery{}
	return New(NewArtist(gen, time.Millisecond, logger.Nop()), gallery, logger.Nop()), gallery
}

func TestCharacterWorkshopSaves(t *testing.T) {
	gen := &fakeGenerator{}
	s, gallery := newTestStudio(gen)
	w, err := s.Open(KindCharacter)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if v := w.View(); v.Stage != StagePrompt || v.Message != msgCharacterIntro {
		t.Fatalf("unexpected initial view: %+v", v)
	}

	v, err := w.Input(context.Background(), "Mor antenli robot")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if v.Stage != StageResult || !strings.HasPrefix(v.Image, "data:image/png;base64,") {
		t.Fatalf("expected result with image, got %+v", v)
	}
	if got := gen.calls(); len(got) != 1 || !strings.Contains(got[0], "Mor antenli robot") {
		t.Fatalf("prompt should carry the description, got %v", got)
	}

	v, err = w.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if v.Stage != StageSaved || v.Saved == nil {
		t.Fatalf("expected saved view, got %+v", v)
	}
	if len(gallery.chars) != 1 || gallery.chars[0].Description != "Mor antenli robot" || gallery.chars[0].Type != domain.CharacterRobot {
		t.Fatalf("unexpected gallery: %+v", gallery.chars)
	}
}

func TestGenerationFailureReturnsToPrompt(t *testing.T) {
	gen := &fakeGenerator{fail: func(int) bool { return true }}
	s, gallery := newTestStudio(gen)
	w, _ := s.Open(KindCharacter)

	v, err := w.Input(context.Background(), "uçan kedi")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if v.Stage != StagePrompt || v.Message != msgCharacterFailed {
		t.Fatalf("expected prompt stage with failure message, got %+v", v)
	}
	if _, err := w.Save(context.Background()); !errors.Is(err, domain.ErrWrongStage) {
		t.Fatalf("save without image should fail, got %v", err)
	}
	if len(gallery.chars) != 0 {
		t.Fatalf("nothing should be saved")
	}
}

func TestInputWhileGeneratingIsBusy(t *testing.T) {
	gen := &fakeGenerator{block: make(chan struct{})}
	s, _ := newTestStudio(gen)
	w, _ := s.Open(KindCharacter)

	done := make(chan error, 1)
	go func() {
		_, err := w.Input(context.Background(), "robot")
		done <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for w.View().Stage != StageGenerating {
		if time.Now().After(deadline) {
			t.Fatalf("workshop never started generating")
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := w.Input(context.Background(), "başka"); !errors.Is(err, domain.ErrWorkshopBusy) {
		t.Fatalf("expected ErrWorkshopBusy, got %v", err)
	}
	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first input: %v", err)
	}
}

func TestColoringGateAndPaint(t *testing.T) {
	s, gallery := newTestStudio(&fakeGenerator{})
	w, _ := s.Open(KindColoring)
	if v := w.View(); v.Stage != StageGate || v.StarCount != StarCount {
		t.Fatalf("unexpected initial view: %+v", v)
	}

	v, err := w.Input(context.Background(), "iki")
	if err != nil || v.Stage != StageGate || v.Message != msgColoringWrong {
		t.Fatalf("wrong count should keep the gate, got %+v %v", v, err)
	}
	v, _ = w.Input(context.Background(), "Üç tane")
	if v.Stage != StagePrompt || v.Message != msgColoringOpen {
		t.Fatalf("expected gate to open, got %+v", v)
	}
	if _, err := w.Paint(Decoration{X: 10, Y: 10}); !errors.Is(err, domain.ErrWrongStage) {
		t.Fatalf("paint before drawing should fail, got %v", err)
	}

	v, err = w.Input(context.Background(), "kedi")
	if err != nil || v.Stage != StageColoring {
		t.Fatalf("expected coloring stage, got %+v %v", v, err)
	}
	if _, err := w.Paint(Decoration{X: 5, Y: 5, Color: "#000000"}); !errors.Is(err, ErrUnknownColor) {
		t.Fatalf("expected ErrUnknownColor, got %v", err)
	}
	v, err = w.Paint(Decoration{X: 150, Y: -3, Color: Palette[2]})
	if err != nil {
		t.Fatalf("paint: %v", err)
	}
	if len(v.Decorations) != 1 || v.Decorations[0].X != 100 || v.Decorations[0].Y != 0 {
		t.Fatalf("expected one clamped decoration, got %+v", v.Decorations)
	}

	if _, err := w.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(gallery.chars) != 1 || gallery.chars[0].Name != coloringName || gallery.chars[0].Type != domain.CharacterAlien {
		t.Fatalf("unexpected gallery: %+v", gallery.chars)
	}
}

func TestAnimationFramesSkipFailures(t *testing.T) {
	gen := &fakeGenerator{fail: func(call int) bool { return call == 2 }}
	s, _ := newTestStudio(gen)
	w, _ := s.Open(KindAnimation)

	if _, err := w.Input(context.Background(), "zıplasın"); !errors.Is(err, domain.ErrWrongStage) {
		t.Fatalf("input before select should fail, got %v", err)
	}
	v, err := w.Select(context.Background(), "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if v.Character == nil || v.Character.Name != DefaultCharacter.Name {
		t.Fatalf("expected default character, got %+v", v.Character)
	}

	v, err = w.Input(context.Background(), "dans etsin")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if v.Stage != StagePlaying || len(v.Frames) != FrameCount-1 {
		t.Fatalf("expected two frames, got %+v", v)
	}
	if v.FrameInterval != FrameInterval.Milliseconds() {
		t.Fatalf("unexpected frame interval %d", v.FrameInterval)
	}
	calls := gen.calls()
	if len(calls) != FrameCount || !strings.Contains(calls[0], DefaultCharacter.Description) {
		t.Fatalf("unexpected prompts: %v", calls)
	}
	if !strings.Contains(calls[0], Poses("dans")[0]) {
		t.Fatalf("dance action should use dance poses")
	}
}

func TestAnimationAllFramesFail(t *testing.T) {
	s, _ := newTestStudio(&fakeGenerator{fail: func(int) bool { return true }})
	w, _ := s.Open(KindAnimation)
	_, _ = w.Select(context.Background(), "")

	v, err := w.Input(context.Background(), "koşsun")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if v.Stage != StagePrompt || v.Message != msgAnimationFailed {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestSelectUnknownCharacter(t *testing.T) {
	s, _ := newTestStudio(&fakeGenerator{})
	w, _ := s.Open(KindAnimation)
	if _, err := w.Select(context.Background(), "missing"); !errors.Is(err, domain.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
}

func TestStudioRegistry(t *testing.T) {
	s, _ := newTestStudio(&fakeGenerator{})
	if _, err := s.Open("puzzle"); !errors.Is(err, domain.ErrUnknownWorkshop) {
		t.Fatalf("expected ErrUnknownWorkshop, got %v", err)
	}
	w, _ := s.Open(KindCharacter)
	if got, err := s.Get(w.ID()); err != nil || got != w {
		t.Fatalf("get: %v", err)
	}
	if err := s.Close(w.ID()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.Get(w.ID()); !errors.Is(err, domain.ErrWorkshopNotFound) {
		t.Fatalf("expected ErrWorkshopNotFound, got %v", err)
	}
	if err := s.Close(w.ID()); !errors.Is(err, domain.ErrWorkshopNotFound) {
		t.Fatalf("double close should report not found, got %v", err)
	}
}

func TestPosesByAction(t *testing.T) {
	if Poses("ZIPLASIN")[0] != Poses("jump")[0] {
		t.Fatalf("jump keywords should share poses")
	}
	if Poses("yürüsün")[0] == Poses("dans")[0] {
		t.Fatalf("walk and dance should differ")
	}
	if Poses("uyusun")[0] != "standing still, ready to start" {
		t.Fatalf("unknown action should use the generic poses")
	}
}
