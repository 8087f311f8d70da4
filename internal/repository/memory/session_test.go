package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voiceaid/voiceaid-backend/internal/repository"
)

func newSession(title string) *repository.Session {
	s := &repository.Session{
		Title:  title,
		Status: repository.StatusCompleted,
	}
	s.SetKeyPoints([]string{})
	s.SetActionItems([]string{})
	return s
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := NewSessionRepository()

	s := newSession("First")
	require.NoError(t, repo.Create(context.Background(), s))

	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := repo.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "First", got.Title)
}

func TestGetMissingReturnsNil(t *testing.T) {
	repo := NewSessionRepository()

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateFields(t *testing.T) {
	repo := NewSessionRepository()
	s := newSession("Before")
	require.NoError(t, repo.Create(context.Background(), s))

	err := repo.Update(context.Background(), s.ID, map[string]interface{}{
		"title":      "After",
		"status":     repository.StatusError,
		"transcript": "some words",
		"word_count": 2,
	})
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, repository.StatusError, got.Status)
	assert.Equal(t, "some words", got.Transcript.String)
	assert.Equal(t, int64(2), got.WordCount.Int64)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestUpdateNilClearsNullable(t *testing.T) {
	repo := NewSessionRepository()
	s := newSession("S")
	require.NoError(t, repo.Create(context.Background(), s))
	require.NoError(t, repo.Update(context.Background(), s.ID, map[string]interface{}{
		"error_message": "went wrong",
	}))

	require.NoError(t, repo.Update(context.Background(), s.ID, map[string]interface{}{
		"error_message": nil,
	}))

	got, err := repo.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, got.ErrorMessage.Valid)
}

func TestDeleteReportsExistence(t *testing.T) {
	repo := NewSessionRepository()
	s := newSession("S")
	require.NoError(t, repo.Create(context.Background(), s))

	deleted, err := repo.Delete(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := NewSessionRepository()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(context.Background(), newSession(fmt.Sprintf("Session %d", i))))
	}

	items, total, err := repo.List(context.Background(), repository.ListFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 5)

	// created_at descending, insertion order breaking ties
	assert.Equal(t, "Session 4", items[0].Title)
	assert.Equal(t, "Session 0", items[4].Title)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
	}
}

func TestListPagination(t *testing.T) {
	repo := NewSessionRepository()
	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(context.Background(), newSession(fmt.Sprintf("Session %d", i))))
	}

	page1, total, err := repo.List(context.Background(), repository.ListFilter{Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page1, 3)

	page3, total, err := repo.List(context.Background(), repository.ListFilter{Page: 3, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page3, 1)

	beyond, total, err := repo.List(context.Background(), repository.ListFilter{Page: 9, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Empty(t, beyond)
}

func TestListSearchesTitleAndTranscript(t *testing.T) {
	repo := NewSessionRepository()

	a := newSession("Standup notes")
	require.NoError(t, repo.Create(context.Background(), a))
	require.NoError(t, repo.Update(context.Background(), a.ID, map[string]interface{}{
		"transcript": "We talked about the roadmap.",
	}))

	b := newSession("Planning call")
	require.NoError(t, repo.Create(context.Background(), b))
	require.NoError(t, repo.Update(context.Background(), b.ID, map[string]interface{}{
		"transcript": "Budget allocation for the quarter.",
	}))

	byTitle, total, err := repo.List(context.Background(), repository.ListFilter{Search: "standup", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byTitle, 1)
	assert.Equal(t, a.ID, byTitle[0].ID)

	byTranscript, total, err := repo.List(context.Background(), repository.ListFilter{Search: "BUDGET", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byTranscript, 1)
	assert.Equal(t, b.ID, byTranscript[0].ID)
}

func TestGetReturnsCopy(t *testing.T) {
	repo := NewSessionRepository()
	s := newSession("S")
	require.NoError(t, repo.Create(context.Background(), s))

	got, err := repo.Get(context.Background(), s.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := repo.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "S", again.Title)
}
