package handler

import (
	"io"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/dto"
	"quiz-builder/internal/logger"
	"quiz-builder/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 20 << 20

// DocumentHandler handles document ingestion HTTP requests
type DocumentHandler struct {
	builder *service.QuizBuilderService
}

// NewDocumentHandler creates a new DocumentHandler instance
func NewDocumentHandler(builder *service.QuizBuilderService) *DocumentHandler {
	return &DocumentHandler{builder: builder}
}

// IngestDocument godoc
// @Summary Upload a source document
// @Description Extracts, embeds, and indexes a document; returns the corpus ID to build quizzes from
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "Document file (.txt, .md, .html, .pdf, .docx)"
// @Success 201 {object} dto.IngestResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 415 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) IngestDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		return domain.NewInvalidInputError("multipart field 'document' is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return domain.NewInvalidInputError("document exceeds the upload size limit").
			WithContext("size", fileHeader.Size).
			WithContext("limit", maxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded document", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded document", err)
	}

	corpusID, count, err := h.builder.IngestDocument(c.Context(), data, fileHeader.Filename)
	if err != nil {
		logger.Get().Error("Failed to ingest document",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.IngestResponse{
		CorpusID:     corpusID,
		SegmentCount: count,
	})
}
