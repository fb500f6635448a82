package domain

import (
	"context"
	"time"
)

// SessionResult is the durable record of a finished session.
type SessionResult struct {
	SessionID  string
	QuizID     string
	Score      int
	Total      int
	FinishedAt time.Time
}

// QuizRepository defines the interface for quiz persistence.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	SaveSessionResult(ctx context.Context, result *SessionResult) error
}
