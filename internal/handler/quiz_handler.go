package handler

import (
	"strings"

	"quiz-builder/internal/config"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/dto"
	"quiz-builder/internal/logger"
	"quiz-builder/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz building HTTP requests
type QuizHandler struct {
	builder     *service.QuizBuilderService
	sessions    *service.SessionService
	authService *service.AuthService
	cfg         *config.Config
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(builder *service.QuizBuilderService, sessions *service.SessionService, authService *service.AuthService, cfg *config.Config) *QuizHandler {
	return &QuizHandler{
		builder:     builder,
		sessions:    sessions,
		authService: authService,
		cfg:         cfg,
	}
}

// BuildQuiz godoc
// @Summary Build a quiz from an ingested corpus
// @Description Retrieves topic-relevant segments, generates and validates questions, and opens a session to take the quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.BuildQuizRequest true "Build parameters"
// @Success 201 {object} dto.BuildQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) BuildQuiz(c *fiber.Ctx) error {
	var req dto.BuildQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}
	if req.CorpusID == "" {
		return domain.NewInvalidInputError("corpus_id is required")
	}

	// A blank topic falls back to the configured default.
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = h.cfg.Quiz.DefaultTopic
	}
	numQuestions := req.NumQuestions
	if numQuestions == 0 {
		numQuestions = 1
	}

	result, err := h.builder.BuildQuiz(c.Context(), req.CorpusID, topic, numQuestions)
	if err != nil {
		logger.Get().Error("Failed to build quiz",
			zap.String("corpus_id", req.CorpusID),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return err
	}

	session, err := h.sessions.CreateSession(c.Context(), result.Quiz)
	if err != nil {
		return err
	}
	token, err := h.authService.IssueSessionToken(session.ID)
	if err != nil {
		return domain.NewInternalError("failed to issue session token", err)
	}

	views := make([]dto.QuestionView, len(result.Quiz.Questions))
	for i, q := range result.Quiz.Questions {
		views[i] = dto.QuestionView{Prompt: q.Prompt, Choices: q.Choices}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.BuildQuizResponse{
		QuizID:       result.Quiz.ID,
		Topic:        result.Quiz.Topic,
		Questions:    views,
		Shortfall:    result.Shortfall,
		SessionID:    session.ID,
		SessionToken: token,
	})
}
