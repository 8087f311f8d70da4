package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/voiceaid/voiceaid-backend/internal/audio"
	"github.com/voiceaid/voiceaid-backend/internal/pipeline"
	"github.com/voiceaid/voiceaid-backend/internal/repository"
)

// SessionResponse is the full session payload returned by detail routes.
type SessionResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AudioFilename *string   `json:"audio_filename"`
	AudioDuration *float64  `json:"audio_duration"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"error_message"`
	Transcript    *string   `json:"transcript"`
	Summary       *string   `json:"summary"`
	KeyPoints     []string  `json:"key_points"`
	ActionItems   []string  `json:"action_items"`
	Language      *string   `json:"language"`
	WordCount     *int      `json:"word_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SessionListItem omits the transcript and summary bodies for listings.
type SessionListItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AudioDuration *float64  `json:"audio_duration"`
	Status        string    `json:"status"`
	Language      *string   `json:"language"`
	WordCount     *int      `json:"word_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateSession uploads an audio file and runs the full pipeline
// synchronously: validate, transcribe, summarize, persist. The response is
// the completed (or error) session.
func CreateSession(p *pipeline.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing file upload field \"file\"",
			})
		}

		f, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not read uploaded file",
			})
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not read uploaded file",
			})
		}

		session, procErr := p.Process(c.Context(), data, fileHeader.Filename)
		if session == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": procErr.Error(),
			})
		}

		// Validation failures still persist a browsable error session;
		// the status code tells the uploader what went wrong.
		status := fiber.StatusCreated
		var unsupported *audio.UnsupportedFormatError
		var tooLarge *audio.FileTooLargeError
		switch {
		case errors.As(procErr, &unsupported):
			status = fiber.StatusBadRequest
		case errors.As(procErr, &tooLarge):
			status = fiber.StatusRequestEntityTooLarge
		}

		return c.Status(status).JSON(toSessionResponse(session))
	}
}

// ListSessions returns a page of sessions with optional search and status
// filters, newest first.
func ListSessions(p *pipeline.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repository.ListFilter{
			Search:   c.Query("search"),
			Status:   c.Query("status"),
			Page:     c.QueryInt("page", 1),
			PageSize: c.QueryInt("page_size", 20),
		}
		if filter.Page < 1 {
			filter.Page = 1
		}
		if filter.PageSize < 1 {
			filter.PageSize = 20
		}
		if filter.PageSize > 100 {
			filter.PageSize = 100
		}

		sessions, total, err := p.List(c.Context(), filter)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		items := make([]SessionListItem, 0, len(sessions))
		for _, s := range sessions {
			items = append(items, toSessionListItem(s))
		}

		return c.JSON(fiber.Map{
			"sessions":  items,
			"total":     total,
			"page":      filter.Page,
			"page_size": filter.PageSize,
		})
	}
}

// GetSession returns a single session by id
func GetSession(p *pipeline.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := p.Get(c.Context(), c.Params("id"))
		if err != nil {
			var notFound *pipeline.NotFoundError
			if errors.As(err, &notFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(toSessionResponse(session))
	}
}

// DeleteSession deletes a session
func DeleteSession(p *pipeline.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := p.Delete(c.Context(), c.Params("id"))
		if err != nil {
			var notFound *pipeline.NotFoundError
			if errors.As(err, &notFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message": "Session deleted successfully",
		})
	}
}

// ResummarizeSession re-runs summarization against the stored transcript
// with a different sentence count. The transcript itself is never
// re-computed.
func ResummarizeSession(p *pipeline.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			SentenceCount int `json:"sentence_count"`
		}
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if req.SentenceCount < 1 {
			req.SentenceCount = 5
		}
		if req.SentenceCount > 20 {
			req.SentenceCount = 20
		}

		session, err := p.Resummarize(c.Context(), c.Params("id"), req.SentenceCount)
		if err != nil {
			var notFound *pipeline.NotFoundError
			var invalidState *pipeline.InvalidStateError
			switch {
			case errors.As(err, &notFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			case errors.As(err, &invalidState):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": invalidState.Reason,
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
		}

		return c.JSON(toSessionResponse(session))
	}
}

func toSessionResponse(s *repository.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		Title:         s.Title,
		AudioFilename: nullStr(s.AudioFilename.String, s.AudioFilename.Valid),
		AudioDuration: nullFloat(s.AudioDuration.Float64, s.AudioDuration.Valid),
		Status:        s.Status,
		ErrorMessage:  nullStr(s.ErrorMessage.String, s.ErrorMessage.Valid),
		Transcript:    nullStr(s.Transcript.String, s.Transcript.Valid),
		Summary:       nullStr(s.Summary.String, s.Summary.Valid),
		KeyPoints:     s.GetKeyPoints(),
		ActionItems:   s.GetActionItems(),
		Language:      nullStr(s.Language.String, s.Language.Valid),
		WordCount:     nullInt(s.WordCount.Int64, s.WordCount.Valid),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toSessionListItem(s *repository.Session) SessionListItem {
	return SessionListItem{
		ID:            s.ID,
		Title:         s.Title,
		AudioDuration: nullFloat(s.AudioDuration.Float64, s.AudioDuration.Valid),
		Status:        s.Status,
		Language:      nullStr(s.Language.String, s.Language.Valid),
		WordCount:     nullInt(s.WordCount.Int64, s.WordCount.Valid),
		CreatedAt:     s.CreatedAt,
	}
}

func nullStr(v string, valid bool) *string {
	if !valid {
		return nil
	}
	return &v
}

func nullFloat(v float64, valid bool) *float64 {
	if !valid {
		return nil
	}
	return &v
}

func nullInt(v int64, valid bool) *int {
	if !valid {
		return nil
	}
	i := int(v)
	return &i
}
