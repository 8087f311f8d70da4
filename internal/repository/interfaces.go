package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Session statuses. A session moves uploading → transcribing → summarizing
// → completed, with error reachable from any non-terminal state.
const (
	StatusUploading    = "uploading"
	StatusTranscribing = "transcribing"
	StatusSummarizing  = "summarizing"
	StatusCompleted    = "completed"
	StatusError        = "error"
)

// Session represents a voice recording session with transcript and summary
type Session struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	AudioFilename sql.NullString  `db:"audio_filename"`
	AudioDuration sql.NullFloat64 `db:"audio_duration"`
	Status        string          `db:"status"`
	ErrorMessage  sql.NullString  `db:"error_message"`
	Transcript    sql.NullString  `db:"transcript"`
	Summary       sql.NullString  `db:"summary"`
	KeyPoints     []byte          `db:"key_points"`   // JSON list of strings
	ActionItems   []byte          `db:"action_items"` // JSON list of strings
	Language      sql.NullString  `db:"language"`
	WordCount     sql.NullInt64   `db:"word_count"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// GetKeyPoints decodes the stored key point list. Never nil.
func (s *Session) GetKeyPoints() []string {
	return decodeStringList(s.KeyPoints)
}

// SetKeyPoints encodes the key point list for storage.
func (s *Session) SetKeyPoints(points []string) {
	s.KeyPoints = encodeStringList(points)
}

// GetActionItems decodes the stored action item list. Never nil.
func (s *Session) GetActionItems() []string {
	return decodeStringList(s.ActionItems)
}

// SetActionItems encodes the action item list for storage.
func (s *Session) SetActionItems(items []string) {
	s.ActionItems = encodeStringList(items)
}

func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStringList(items []string) []byte {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return raw
}

// ListFilter selects and pages sessions. Page is 1-indexed; Search matches
// case-insensitively against title and transcript.
type ListFilter struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// SessionRepository defines session storage operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// Get returns (nil, nil) when no session has the given id.
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// List returns the page of matching sessions plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Session, int, error)
}
