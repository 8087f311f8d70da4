package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voiceaid/voiceaid-backend/internal/repository"
)

// SessionRepository is an in-memory implementation of
// repository.SessionRepository. Reads take a shared lock so listing and
// detail lookups never block behind a write to a different session.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	seq      int64
}

type entry struct {
	session repository.Session
	seq     int64 // insertion order, tie-break for equal created_at
}

// NewSessionRepository creates an empty in-memory session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entry),
	}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *repository.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt

	if len(session.KeyPoints) == 0 {
		session.KeyPoints = []byte("[]")
	}
	if len(session.ActionItems) == 0 {
		session.ActionItems = []byte("[]")
	}

	r.seq++
	r.sessions[session.ID] = &entry{session: clone(session), seq: r.seq}
	return nil
}

// Get retrieves a session by ID, returning (nil, nil) when absent
func (r *SessionRepository) Get(ctx context.Context, id string) (*repository.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	s := clone(&e.session)
	return &s, nil
}

// Update applies the given field map to a stored session
func (r *SessionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil
	}

	s := &e.session
	for key, value := range updates {
		switch key {
		case "title":
			s.Title = value.(string)
		case "status":
			s.Status = value.(string)
		case "error_message":
			s.ErrorMessage = nullString(value)
		case "transcript":
			s.Transcript = nullString(value)
		case "summary":
			s.Summary = nullString(value)
		case "key_points":
			s.KeyPoints = append([]byte(nil), value.([]byte)...)
		case "action_items":
			s.ActionItems = append([]byte(nil), value.([]byte)...)
		case "language":
			s.Language = nullString(value)
		case "audio_duration":
			s.AudioDuration.Float64 = value.(float64)
			s.AudioDuration.Valid = true
		case "word_count":
			s.WordCount.Int64 = int64(value.(int))
			s.WordCount.Valid = true
		}
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a session, reporting whether it existed
func (r *SessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

// List retrieves a page of sessions matching the filter, newest first
func (r *SessionRepository) List(ctx context.Context, filter repository.ListFilter) ([]*repository.Session, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		if matches(&e.session, filter) {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.session.CreatedAt.Equal(b.session.CreatedAt) {
			return a.session.CreatedAt.After(b.session.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]*repository.Session, 0, end-start)
	for _, e := range matched[start:end] {
		s := clone(&e.session)
		out = append(out, &s)
	}
	return out, total, nil
}

func matches(s *repository.Session, filter repository.ListFilter) bool {
	if filter.Status != "" && s.Status != filter.Status {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(s.Title), needle) &&
			!strings.Contains(strings.ToLower(s.Transcript.String), needle) {
			return false
		}
	}
	return true
}

func clone(s *repository.Session) repository.Session {
	c := *s
	c.KeyPoints = append([]byte(nil), s.KeyPoints...)
	c.ActionItems = append([]byte(nil), s.ActionItems...)
	return c
}

func nullString(value interface{}) sql.NullString {
	switch v := value.(type) {
	case nil:
		return sql.NullString{}
	case string:
		return sql.NullString{String: v, Valid: true}
	case sql.NullString:
		return v
	default:
		return sql.NullString{}
	}
}
