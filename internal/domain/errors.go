package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Pipeline errors
	CodeEmptyCorpus       ErrorCode = "EMPTY_CORPUS"
	CodeMalformedQuiz     ErrorCode = "MALFORMED_QUIZ"
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeEmbeddingService  ErrorCode = "EMBEDDING_SERVICE_ERROR"
	CodeGenerationService ErrorCode = "GENERATION_SERVICE_ERROR"
	CodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"

	// Session errors
	CodeInvalidChoice   ErrorCode = "INVALID_CHOICE"
	CodeSessionFinished ErrorCode = "SESSION_FINISHED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for the HTTP error body.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewEmptyCorpusError() *DomainError {
	return NewError(CodeEmptyCorpus, "No document segments available for retrieval", nil)
}

func NewMalformedQuizError(reason string, cause error) *DomainError {
	return NewError(CodeMalformedQuiz, fmt.Sprintf("Generated quiz is malformed: %s", reason), cause)
}

func NewUnsupportedFormatError(filename string) *DomainError {
	return NewError(CodeUnsupportedFormat, fmt.Sprintf("Unsupported document format: %s", filename), nil)
}

func NewEmbeddingServiceError(cause error) *DomainError {
	return NewError(CodeEmbeddingService, "Embedding provider call failed", cause)
}

func NewGenerationServiceError(cause error) *DomainError {
	return NewError(CodeGenerationService, "Quiz generation provider call failed", cause)
}

func NewGenerationTimeoutError(cause error) *DomainError {
	return NewError(CodeGenerationTimeout, "Quiz generation timed out", cause)
}

func NewInvalidChoiceError(choice, choices int) *DomainError {
	return NewError(CodeInvalidChoice,
		fmt.Sprintf("Choice index %d is out of range for %d choices", choice, choices), nil).
		WithContext("choice_index", choice).
		WithContext("choice_count", choices)
}

func NewSessionFinishedError() *DomainError {
	return NewError(CodeSessionFinished, "Quiz session is already finished", nil)
}
