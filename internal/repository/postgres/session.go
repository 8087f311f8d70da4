package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/voiceaid/voiceaid-backend/internal/repository"
)

// SessionRepository implements repository.SessionRepository using PostgreSQL
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *repository.Session) error {
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

	query := `
		INSERT INTO sessions (id, title, audio_filename, audio_duration, status, error_message,
			transcript, summary, key_points, action_items, language, word_count, created_at, updated_at)
		VALUES (:id, :title, :audio_filename, :audio_duration, :status, :error_message,
			:transcript, :summary, :key_points, :action_items, :language, :word_count, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, session)
	return err
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*repository.Session, error) {
	var session repository.Session
	query := `
		SELECT id, title, audio_filename, audio_duration, status, error_message,
			transcript, summary, key_points, action_items, language, word_count, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// Update updates a session with the given field map
func (r *SessionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()

	// Build dynamic update query
	setClause := ""
	params := map[string]interface{}{"id": id}

	for key, value := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += key + " = :" + key
		params[key] = value
	}

	query := "UPDATE sessions SET " + setClause + " WHERE id = :id"

	_, err := r.db.NamedExecContext(ctx, query, params)
	return err
}

// Delete deletes a session, reporting whether a row was removed
func (r *SessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// List retrieves a page of sessions matching the filter, newest first
func (r *SessionRepository) List(ctx context.Context, filter repository.ListFilter) ([]*repository.Session, int, error) {
	where := ""
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = fmt.Sprintf("WHERE (title ILIKE $%d OR transcript ILIKE $%d)", len(args), len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if where == "" {
			where = fmt.Sprintf("WHERE status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM sessions " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT id, title, audio_filename, audio_duration, status, error_message,
			transcript, summary, key_points, action_items, language, word_count, created_at, updated_at
		FROM sessions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var sessions []*repository.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}
