package domain

import (
	"strings"
	"time"
)

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// NewTopic trims the caller-supplied topic string. An empty result is invalid.
func NewTopic(raw string) (string, error) {
	topic := strings.TrimSpace(raw)
	if topic == "" {
		return "", NewInvalidInputError("topic must not be empty")
	}
	return topic, nil
}

// Question is a single multiple-choice question. CorrectIndex is 0-based and
// always points at one of Choices.
type Question struct {
	Prompt       string
	Choices      []string
	CorrectIndex int
	Explanation  string
}

// Validate checks the structural invariants of a question.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return NewValidationError("question prompt is required")
	}
	if len(q.Choices) < 2 {
		return NewValidationError("question needs at least two choices")
	}
	seen := make(map[string]bool, len(q.Choices))
	for _, c := range q.Choices {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			return NewValidationError("question choices must not be empty")
		}
		if seen[key] {
			return NewValidationError("question choices must be unique")
		}
		seen[key] = true
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return NewValidationError("correct answer index is out of range")
	}
	return nil
}

// Quiz is a validated set of questions for one topic. Immutable after
// validation succeeds.
type Quiz struct {
	ID        string
	Topic     string
	Questions []Question
	CreatedAt time.Time
}

// NewQuiz creates a Quiz and checks its invariants.
func NewQuiz(id, topic string, questions []Question) (*Quiz, error) {
	if id == "" {
		return nil, NewValidationError("quiz ID is required")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, NewValidationError("quiz topic is required")
	}
	if len(questions) == 0 {
		return nil, NewValidationError("quiz needs at least one question")
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &Quiz{
		ID:        id,
		Topic:     topic,
		Questions: questions,
		CreatedAt: time.Now(),
	}, nil
}
