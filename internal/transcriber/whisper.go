package transcriber

import (
	"bytes"
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/voiceaid/voiceaid-backend/internal/config"
)

// Whisper transcribes audio through the OpenAI Whisper API.
type Whisper struct {
	client           *openai.Client
	modelTier        string
	languageOverride string
	timeout          time.Duration
	logger           *logrus.Logger
}

// NewWhisper creates a Whisper-API-backed transcriber
func NewWhisper(cfg config.ProcessingConfig, logger *logrus.Logger) *Whisper {
	return &Whisper{
		client:           openai.NewClient(cfg.OpenAIAPIKey),
		modelTier:        cfg.WhisperModel,
		languageOverride: cfg.LanguageOverride,
		timeout:          time.Duration(cfg.TranscribeTimeoutSec) * time.Second,
		logger:           logger,
	}
}

// Transcribe sends the audio to the Whisper API. The call is bounded by
// the configured timeout; there is no mid-flight abort beyond that, and a
// deadline expiry surfaces as a TranscriptionError.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, filename, languageHint string) (*Result, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	language := w.languageOverride
	if language == "" {
		language = languageHint
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	}

	w.logger.WithFields(logrus.Fields{
		"filename": filename,
		"bytes":    len(audio),
		"model":    w.modelTier,
	}).Info("Requesting transcription")

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, &TranscriptionError{Err: err}
	}

	detected := resp.Language
	if detected == "" {
		detected = "en"
	}

	w.logger.WithFields(logrus.Fields{
		"chars":    len(resp.Text),
		"language": detected,
	}).Info("Transcription complete")

	return &Result{
		Text:            resp.Text,
		Language:        detected,
		DurationSeconds: resp.Duration,
	}, nil
}
