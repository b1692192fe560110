package studio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/voice"
)

// DefaultSpacing is the minimum gap between two generation requests.
const DefaultSpacing = 2500 * time.Millisecond

// FrameCount is the length of an animation.
const FrameCount = 3

// Artist builds prompts for portraits, coloring outlines and animation frames. Every request waits
// on a shared limiter so consecutive calls respect the external rate limit.
type Artist struct {
	gen     ImageGenerator
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewArtist(gen ImageGenerator, spacing time.Duration, log *logger.Logger) *Artist {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Artist{
		gen:     gen,
		limiter: rate.NewLimiter(rate.Every(spacing), 1),
		log:     log.With("service", "studio.Artist"),
	}
}

// Portrait draws a cute full-body character on a white background.
func (a *Artist) Portrait(ctx context.Context, description string) (string, error) {
	return a.draw(ctx, fmt.Sprintf(`Draw a cute, colorful, 3D cartoon style illustration for a children's game.
Subject: %s.
Style: Vibrant colors, soft lighting, Pixar-like, isolated on a white background.
Ensure it is kid-friendly and cute. Full body view.`, description))
}

// Outline draws black and white line art to be colored in.
func (a *Artist) Outline(ctx context.Context, subject string) (string, error) {
	return a.draw(ctx, fmt.Sprintf(`Create a black and white simple line art coloring page for a 5 year old child.
Subject: %s.
Style: Thick lines, simple shapes, white background, no shading.`, subject))
}

// Frames draws FrameCount poses of the character performing action, one request at a time.
// A failed frame is left out. The returned error is only set when ctx ends early.
func (a *Artist) Frames(ctx context.Context, character, action string) ([]string, error) {
	base := fmt.Sprintf(`Character: %s.
Style: 3D Cute Cartoon, Pixar Style, White Background.
Camera: Front View, Full Body, Fixed Camera Angle.
Constraint: KEEP CHARACTER APPEARANCE EXACTLY THE SAME.
Pose: `, character)

	var frames []string
	for i, pose := range Poses(action) {
		img, err := a.draw(ctx, base+pose)
		if err != nil {
			if ctx.Err() != nil {
				return frames, ctx.Err()
			}
			a.log.Warn("frame generation failed", "frame", i+1, "error", err)
			continue
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// Poses picks the three poses for an action from keywords in either language.
func Poses(action string) [FrameCount]string {
	act := voice.Fold(action)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(act, w) {
				return true
			}
		}
		return false
	}
	switch {
	case has("dans", "dance", "oyna"):
		return [FrameCount]string{
			"arms raised high above head, leaning to the left, happy face, one leg up",
			"crouching down low, arms wide open, big smile",
			"jumping in the air, legs spread star-shape, hands waving",
		}
	case has("zıpla", "jump", "uç"):
		return [FrameCount]string{
			"crouching down low, preparing to jump",
			"high in the air, legs tucked in, flying pose",
			"landing on the ground, arms out for balance",
		}
	case has("yürü", "koş", "git"):
		return [FrameCount]string{
			"leaning forward, left foot forward, right arm back",
			"mid-stride, both feet off ground, running fast",
			"leaning forward, right foot forward, left arm back",
		}
	}
	return [FrameCount]string{
		"standing still, ready to start",
		"performing the action",
		"finishing the action",
	}
}

func (a *Artist) draw(ctx context.Context, prompt string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	img, err := a.gen.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	if img == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, domain.ErrNoImage)
	}
	return img, nil
}
