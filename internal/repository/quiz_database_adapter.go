package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	record := toModelQuiz(quiz)
	query := `INSERT INTO quizzes (id, topic, questions, created_at)
		VALUES (:id, :topic, :questions, :created_at)`

	if _, err := a.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to save quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var record models.Quiz
	query := `SELECT id, topic, questions, created_at FROM quizzes WHERE id = ?`

	err := a.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz %s: %w", id, err)
	}
	return toDomainQuiz(&record)
}

// SaveSessionResult implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveSessionResult(ctx context.Context, result *domain.SessionResult) error {
	record := models.SessionResult{
		SessionID:  result.SessionID,
		QuizID:     result.QuizID,
		Score:      result.Score,
		Total:      result.Total,
		FinishedAt: result.FinishedAt,
	}
	query := `INSERT INTO session_results (session_id, quiz_id, score, total, finished_at)
		VALUES (:session_id, :quiz_id, :score, :total, :finished_at)`

	if _, err := a.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to save session result %s: %w", result.SessionID, err)
	}
	return nil
}

func toModelQuiz(quiz *domain.Quiz) *models.Quiz {
	questions := make(models.QuestionSlice, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = models.QuestionRecord{
			Prompt:       q.Prompt,
			Choices:      q.Choices,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}
	return &models.Quiz{
		ID:        quiz.ID,
		Topic:     quiz.Topic,
		Questions: questions,
		CreatedAt: quiz.CreatedAt,
	}
}

func toDomainQuiz(record *models.Quiz) (*domain.Quiz, error) {
	questions := make([]domain.Question, len(record.Questions))
	for i, q := range record.Questions {
		questions[i] = domain.Question{
			Prompt:       q.Prompt,
			Choices:      q.Choices,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}
	quiz, err := domain.NewQuiz(record.ID, record.Topic, questions)
	if err != nil {
		return nil, fmt.Errorf("stored quiz %s failed domain validation: %w", record.ID, err)
	}
	quiz.CreatedAt = record.CreatedAt
	return quiz, nil
}
