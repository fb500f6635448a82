package domain

import (
	"context"
)

// QuizGenerationService defines the interface for producing raw quiz drafts
// from topic-relevant context. The returned bytes are an unvalidated draft;
// the validator turns them into Questions.
type QuizGenerationService interface {
	GenerateDraft(ctx context.Context, contextSegments []string, topic string, numQuestions int) ([]byte, error)
}
