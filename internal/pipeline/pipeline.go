// Package pipeline orchestrates the audio-to-notes processing run for one
// session and owns its status state machine:
//
//	uploading → transcribing → summarizing → completed
//
// with error reachable from any non-terminal state. The pipeline is the
// sole mutator of a session while it is processing; completed and error
// sessions are inert records owned by the store.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voiceaid/voiceaid-backend/internal/audio"
	"github.com/voiceaid/voiceaid-backend/internal/config"
	"github.com/voiceaid/voiceaid-backend/internal/repository"
	"github.com/voiceaid/voiceaid-backend/internal/summarizer"
	"github.com/voiceaid/voiceaid-backend/internal/transcriber"
)

const titleWordCount = 8

// Pipeline runs uploaded audio through inspection, transcription, and
// summarization, persisting the session record at every transition.
type Pipeline struct {
	repo        repository.SessionRepository
	inspector   *audio.Inspector
	transcriber transcriber.Transcriber
	summarizer  *summarizer.Summarizer
	cfg         config.ProcessingConfig
	logger      *logrus.Logger
	locks       *keyedLocks
}

// New creates a pipeline. Configuration is read once here; the pipeline
// does not hot-reload options mid-run.
func New(
	repo repository.SessionRepository,
	inspector *audio.Inspector,
	tr transcriber.Transcriber,
	cfg config.ProcessingConfig,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		repo:        repo,
		inspector:   inspector,
		transcriber: tr,
		summarizer:  summarizer.New(cfg.SummarySentenceCount, cfg.KeyPointCount),
		cfg:         cfg,
		logger:      logger,
		locks:       newKeyedLocks(),
	}
}

// Process runs the full pipeline for one upload. The session record is
// always created and persisted; a stage failure converts to status=error
// with the failure message and every prior stage's output intact. The
// returned error is the typed stage error (nil on success) — callers get
// the session either way.
func (p *Pipeline) Process(ctx context.Context, data []byte, filename string) (*repository.Session, error) {
	id := uuid.New().String()

	p.locks.lock(id)
	defer p.locks.unlock(id)

	session := &repository.Session{
		ID:     id,
		Title:  "Untitled Session",
		Status: repository.StatusUploading,
	}
	session.AudioFilename.String = filename
	session.AudioFilename.Valid = true
	if err := p.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	log := p.logger.WithFields(logrus.Fields{"session_id": id, "filename": filename})
	log.Info("Processing started")

	// ── Inspect ──────────────────────────────────────
	info, err := p.inspector.Inspect(data, filename)
	if err != nil {
		return p.fail(ctx, id, err)
	}

	if err := p.repo.Update(ctx, id, map[string]interface{}{
		"audio_duration": info.DurationSeconds,
		"status":         repository.StatusTranscribing,
	}); err != nil {
		return p.fail(ctx, id, err)
	}

	// ── Transcribe ───────────────────────────────────
	result, err := p.transcriber.Transcribe(ctx, data, filename, p.cfg.LanguageOverride)
	if err != nil {
		return p.fail(ctx, id, err)
	}

	language := result.Language
	if p.cfg.LanguageOverride != "" {
		language = p.cfg.LanguageOverride
	}
	wordCount := len(strings.Fields(result.Text))

	updates := map[string]interface{}{
		"transcript": result.Text,
		"language":   language,
		"word_count": wordCount,
		"status":     repository.StatusSummarizing,
	}
	// The inspector's estimate loses to the model's measured duration
	// when the header parse came up empty.
	if info.DurationSeconds == 0 && result.DurationSeconds > 0 {
		updates["audio_duration"] = result.DurationSeconds
	}
	if err := p.repo.Update(ctx, id, updates); err != nil {
		return p.fail(ctx, id, err)
	}

	log.WithFields(logrus.Fields{"words": wordCount, "language": language}).Info("Transcription stored")

	// ── Summarize ────────────────────────────────────
	notes, err := p.summarizeSafe(result.Text, p.cfg.SummarySentenceCount)
	if err != nil {
		// Transcript from the prior stage is retained.
		return p.fail(ctx, id, err)
	}

	keyPoints, actionItems := encodeNotes(notes)
	if err := p.repo.Update(ctx, id, map[string]interface{}{
		"summary":      notes.Summary,
		"key_points":   keyPoints,
		"action_items": actionItems,
		"title":        deriveTitle(result.Text),
		"status":       repository.StatusCompleted,
	}); err != nil {
		return p.fail(ctx, id, err)
	}

	log.Info("Processing completed")
	return p.repo.Get(ctx, id)
}

// Get returns a session by id, or a NotFoundError.
func (p *Pipeline) Get(ctx context.Context, id string) (*repository.Session, error) {
	session, err := p.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &NotFoundError{ID: id}
	}
	return session, nil
}

// List returns a page of sessions matching the filter plus the total
// match count. Reads interleave freely with writes to other sessions.
func (p *Pipeline) List(ctx context.Context, filter repository.ListFilter) ([]*repository.Session, int, error) {
	return p.repo.List(ctx, filter)
}

// Delete removes a session. Serialized per id, so a delete issued while
// the session is still processing waits for the in-flight stage rather
// than tearing a write.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	p.locks.lock(id)
	defer p.locks.unlock(id)

	deleted, err := p.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{ID: id}
	}
	p.logger.WithField("session_id", id).Info("Session deleted")
	return nil
}

// Resummarize recomputes summary, key points, and action items against the
// stored transcript. Transcript, audio duration, language, title, and
// created_at are never touched. On recompute failure the stored session is
// left exactly as it was and the error is surfaced to the caller.
func (p *Pipeline) Resummarize(ctx context.Context, id string, sentenceCount int) (*repository.Session, error) {
	p.locks.lock(id)
	defer p.locks.unlock(id)

	session, err := p.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &NotFoundError{ID: id}
	}
	if !session.Transcript.Valid {
		return nil, &InvalidStateError{ID: id, Reason: "no transcript available to summarize"}
	}

	notes, err := p.summarizeSafe(session.Transcript.String, sentenceCount)
	if err != nil {
		return nil, err
	}

	keyPoints, actionItems := encodeNotes(notes)
	if err := p.repo.Update(ctx, id, map[string]interface{}{
		"summary":       notes.Summary,
		"key_points":    keyPoints,
		"action_items":  actionItems,
		"status":        repository.StatusCompleted,
		"error_message": nil,
	}); err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{"session_id": id, "sentences": sentenceCount}).Info("Session resummarized")
	return p.repo.Get(ctx, id)
}

// MockMode reports whether the pipeline was built with the mock
// transcriber toggle, for the health endpoint.
func (p *Pipeline) MockMode() bool {
	return p.cfg.MockMode
}

// fail converts a stage error into a terminal error state, preserving
// whatever prior stages already persisted, and returns the stored session
// together with the typed error.
func (p *Pipeline) fail(ctx context.Context, id string, stageErr error) (*repository.Session, error) {
	p.logger.WithFields(logrus.Fields{"session_id": id, "error": stageErr}).Error("Processing failed")

	if err := p.repo.Update(ctx, id, map[string]interface{}{
		"status":        repository.StatusError,
		"error_message": stageErr.Error(),
	}); err != nil {
		p.logger.WithField("session_id", id).WithError(err).Error("Failed to persist error state")
	}

	session, err := p.repo.Get(ctx, id)
	if err != nil || session == nil {
		return nil, stageErr
	}
	return session, stageErr
}

// summarizeSafe runs the extraction with a panic guard; the algorithm is
// total over strings, so anything escaping it is converted into a
// SummarizationError instead of killing the run.
func (p *Pipeline) summarizeSafe(text string, sentenceCount int) (notes summarizer.Notes, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SummarizationError{Err: fmt.Errorf("%v", r)}
		}
	}()
	notes = p.summarizer.Summarize(text, sentenceCount)
	return notes, nil
}

// deriveTitle builds the session title from the transcript prefix, or a
// timestamp when the recording produced no speech.
func deriveTitle(transcript string) string {
	words := strings.Fields(transcript)
	if len(words) == 0 {
		return "Session " + time.Now().UTC().Format("2006-01-02 15:04")
	}
	if len(words) <= titleWordCount {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordCount], " ") + "..."
}

func encodeNotes(notes summarizer.Notes) ([]byte, []byte) {
	s := &repository.Session{}
	s.SetKeyPoints(notes.KeyPoints)
	s.SetActionItems(notes.ActionItems)
	return s.KeyPoints, s.ActionItems
}
