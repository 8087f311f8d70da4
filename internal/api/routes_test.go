package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voiceaid/voiceaid-backend/internal/api/handlers"
	"github.com/voiceaid/voiceaid-backend/internal/audio"
	"github.com/voiceaid/voiceaid-backend/internal/config"
	"github.com/voiceaid/voiceaid-backend/internal/pipeline"
	"github.com/voiceaid/voiceaid-backend/internal/repository/memory"
	"github.com/voiceaid/voiceaid-backend/internal/transcriber"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		Processing: config.ProcessingConfig{
			MockMode:             true,
			WhisperModel:         "base",
			SummarySentenceCount: 5,
			KeyPointCount:        5,
			MaxFileSizeMB:        100,
		},
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	p := pipeline.New(
		memory.NewSessionRepository(),
		audio.NewInspector(cfg.Processing.MaxFileSizeMB),
		transcriber.NewMock(),
		cfg.Processing,
		logger,
	)

	app := fiber.New()
	SetupRoutes(app, p, cfg)
	return app
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeSession(t *testing.T, resp *http.Response) handlers.SessionResponse {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var session handlers.SessionResponse
	require.NoError(t, json.Unmarshal(raw, &session))
	return session
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, true, health["mock_mode"])
	assert.Equal(t, "base", health["whisper_model"])
}

func TestUploadLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "demo.mp3", []byte("fake-mp3-frames")), 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeSession(t, resp)
	assert.Equal(t, "completed", created.Status)
	require.NotNil(t, created.Transcript)
	require.NotNil(t, created.Summary)
	assert.NotEmpty(t, *created.Summary)
	require.NotNil(t, created.WordCount)
	assert.Equal(t, 98, *created.WordCount)
	assert.NotEmpty(t, created.ActionItems)

	// Detail fetch
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeSession(t, resp)
	assert.Equal(t, created.ID, fetched.ID)

	// Search hits the transcript, case-insensitively
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sessions?search=voiceaid", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var list struct {
		Sessions []handlers.SessionListItem `json:"sessions"`
		Total    int                        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, created.ID, list.Sessions[0].ID)

	// Resummarize with a shorter summary
	body := bytes.NewBufferString(`{"sentence_count": 3}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/resummarize", created.ID), body)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shorter := decodeSession(t, resp)
	assert.Equal(t, created.Transcript, shorter.Transcript)
	assert.NotEqual(t, *created.Summary, *shorter.Summary)

	// Delete, then the session is gone
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+created.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadUnsupportedFormat(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "notes.txt", []byte("plain text")), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The error session is still persisted and returned for history
	failed := decodeSession(t, resp)
	assert.Equal(t, "error", failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Contains(t, *failed.ErrorMessage, "unsupported audio format")
}

func TestUploadMissingFile(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResummarizeMissingSession(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/ghost/resummarize", bytes.NewBufferString(`{"sentence_count": 3}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMissingSession(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
