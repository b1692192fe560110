package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
)

// Transcriber turns one recorded phrase into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	Supported() bool
}

// Unsupported is the transcriber used when no recognition backend is configured.
type Unsupported struct{}

func (Unsupported) Transcribe(context.Context, []byte, string) (string, error) {
	return "", domain.ErrVoiceUnsupported
}

func (Unsupported) Supported() bool { return false }

// DefaultLanguage is the recognition language.
const DefaultLanguage = "tr-TR"

// GCPTranscriber runs single-shot synchronous recognition with Google Cloud Speech.
type GCPTranscriber struct {
	client   *speech.Client
	language string
	timeout  time.Duration
	log      *logger.Logger
}

// NewGCPTranscriber dials the speech API. An empty credentialsFile uses application default credentials.
func NewGCPTranscriber(ctx context.Context, log *logger.Logger, language, credentialsFile string) (*GCPTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &GCPTranscriber{
		client:   client,
		language: language,
		timeout:  20 * time.Second,
		log:      log.With("service", "voice.GCPTranscriber"),
	}, nil
}

func (t *GCPTranscriber) Supported() bool { return true }

func (t *GCPTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:    t.language,
			Encoding:        encoding(mimeType),
			MaxAlternatives: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var parts []string
	for _, res := range resp.GetResults() {
		alts := res.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if s := strings.TrimSpace(alts[0].GetTranscript()); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.Join(parts, " ")
	t.log.Debug("transcribed phrase", "bytes", len(audio), "chars", len(text))
	return text, nil
}

func (t *GCPTranscriber) Close() error {
	return t.client.Close()
}

func encoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg"):
		return speechpb.RecognitionConfig_OGG_OPUS
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	}
	return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
}
