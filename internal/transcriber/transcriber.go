// Package transcriber wraps the speech-to-text capability behind a single
// interface with two variants: a deterministic mock for offline use and
// tests, and a Whisper-API-backed implementation. Both honor the same
// contract, so switching variants never changes downstream behavior.
package transcriber

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/voiceaid/voiceaid-backend/internal/config"
)

// Result is the outcome of one transcription run.
type Result struct {
	Text            string
	Language        string
	DurationSeconds float64
}

// TranscriptionError indicates the speech model failed or timed out.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// Transcriber converts audio bytes into text plus per-run metadata.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, languageHint string) (*Result, error)
}

// New selects the transcriber variant from configuration: mock mode (or a
// missing API key) yields the deterministic mock, otherwise the Whisper
// API client.
func New(cfg config.ProcessingConfig, logger *logrus.Logger) Transcriber {
	if cfg.MockMode || cfg.OpenAIAPIKey == "" {
		if !cfg.MockMode {
			logger.Warn("OPENAI_API_KEY not set, falling back to mock transcription")
		}
		return NewMock()
	}
	return NewWhisper(cfg, logger)
}
