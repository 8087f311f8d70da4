package transcriber

import "context"

// MockTranscript is the fixed demo transcript returned in mock mode.
// 98 words, recognizably a meeting with action items.
const MockTranscript = "Welcome to the VoiceAid demo session. " +
	"Today we need to discuss the project timeline and assign tasks. " +
	"First, we should finalize the design mockups by Friday. " +
	"Sarah will handle the frontend implementation. " +
	"We need to set up the CI/CD pipeline before next week. " +
	"Action item: John should review the API documentation. " +
	"Action item: Schedule a follow-up meeting for Monday. " +
	"The budget needs to be approved by the finance team. " +
	"Let's make sure we have unit tests for all critical paths. " +
	"Next quarter we will also need to plan the accessibility audit together. " +
	"Thanks everyone for joining today's meeting."

// Mock returns a fixed transcript regardless of input. Used in mock mode
// and for deterministic tests.
type Mock struct{}

// NewMock creates the deterministic mock transcriber
func NewMock() *Mock {
	return &Mock{}
}

// Transcribe returns the fixed demo transcript with language "en"
func (m *Mock) Transcribe(ctx context.Context, audio []byte, filename, languageHint string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TranscriptionError{Err: err}
	}
	return &Result{
		Text:     MockTranscript,
		Language: "en",
	}, nil
}
