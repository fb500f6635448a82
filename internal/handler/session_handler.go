package handler

import (
	"quiz-builder/internal/domain"
	"quiz-builder/internal/dto"
	"quiz-builder/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles quiz session HTTP requests
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Answer godoc
// @Summary Answer the current question
// @Description Records a choice for the session's current question; re-answering overwrites
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Chosen answer"
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	session, err := h.sessions.Answer(c.Context(), c.Params("id"), req.ChoiceIndex)
	if err != nil {
		return err
	}
	return c.JSON(sessionState(session))
}

// Advance godoc
// @Summary Advance to the next question
// @Description Moves past the current question; stepping past the last question finishes the session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/advance [post]
func (h *SessionHandler) Advance(c *fiber.Ctx) error {
	session, err := h.sessions.Advance(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sessionState(session))
}

// Result godoc
// @Summary Get the session scoreboard
// @Description Returns the score; per-question correctness and explanations appear once finished
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Security BearerAuth
// @Success 200 {object} dto.SessionResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) Result(c *fiber.Ctx) error {
	result, err := h.sessions.Result(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func sessionState(session *domain.QuizSession) dto.SessionStateResponse {
	return dto.SessionStateResponse{
		SessionID:    session.ID,
		CurrentIndex: session.CurrentIndex,
		Finished:     session.IsFinished(),
	}
}
