package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-builder/internal/cache"
	"quiz-builder/internal/config"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/dto"
	"quiz-builder/internal/logger"
	"quiz-builder/internal/util"

	"go.uber.org/zap"
)

const defaultSessionTTL = 24 * time.Hour

// sessionRecord is the cached representation of a session. The quiz itself is
// not duplicated here; it is re-read from the repository on load.
type sessionRecord struct {
	ID           string              `json:"id"`
	QuizID       string              `json:"quiz_id"`
	CurrentIndex int                 `json:"current_index"`
	Answers      map[int]int         `json:"answers"`
	State        domain.SessionState `json:"state"`
}

// SessionService persists quiz sessions in the cache and applies the session
// state machine to them. Finished sessions get a durable result row.
type SessionService struct {
	cache    domain.Cache
	quizRepo domain.QuizRepository
	ttl      time.Duration
}

func NewSessionService(cacheAdapter domain.Cache, quizRepo domain.QuizRepository, cfg *config.Config) *SessionService {
	return &SessionService{
		cache:    cacheAdapter,
		quizRepo: quizRepo,
		ttl:      cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Session, defaultSessionTTL),
	}
}

// CreateSession starts a new session over an already-persisted quiz.
func (s *SessionService) CreateSession(ctx context.Context, quiz *domain.Quiz) (*domain.QuizSession, error) {
	session := domain.NewQuizSession(util.NewULID(), quiz)
	if err := s.store(ctx, session); err != nil {
		return nil, err
	}
	logger.Get().Info("session created",
		zap.String("session_id", session.ID),
		zap.String("quiz_id", quiz.ID),
	)
	return session, nil
}

// GetSession loads a session and its quiz.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	return s.load(ctx, sessionID)
}

// Answer records a choice for the session's current question.
func (s *SessionService) Answer(ctx context.Context, sessionID string, choiceIndex int) (*domain.QuizSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.AnswerCurrent(choiceIndex); err != nil {
		return nil, err
	}
	if err := s.store(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance moves the session to the next question. When the step past the last
// question finishes the session, its result is written to the repository.
func (s *SessionService) Advance(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Advance(); err != nil {
		return nil, err
	}
	if err := s.store(ctx, session); err != nil {
		return nil, err
	}

	if session.IsFinished() {
		result := &domain.SessionResult{
			SessionID:  session.ID,
			QuizID:     session.Quiz.ID,
			Score:      session.Score(),
			Total:      len(session.Quiz.Questions),
			FinishedAt: time.Now().UTC(),
		}
		if err := s.quizRepo.SaveSessionResult(ctx, result); err != nil {
			// The session state is already committed; losing the result row
			// must not fail the request.
			logger.Get().Error("failed to persist session result",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
		}
	}
	return session, nil
}

// Result reports the score for a session. Per-question detail, including the
// correct choice and explanation, is revealed only once the session finished.
func (s *SessionService) Result(ctx context.Context, sessionID string) (*dto.SessionResultResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionResultResponse{
		SessionID: session.ID,
		Finished:  session.IsFinished(),
		Score:     session.Score(),
		Total:     len(session.Quiz.Questions),
	}
	if !session.IsFinished() {
		return resp, nil
	}

	resp.Questions = make([]dto.QuestionResult, len(session.Quiz.Questions))
	for i, q := range session.Quiz.Questions {
		qr := dto.QuestionResult{
			Prompt:       q.Prompt,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
		if choice, ok := session.Answers[i]; ok {
			chosen := choice
			qr.ChosenIndex = &chosen
			qr.Correct = choice == q.CorrectIndex
		}
		resp.Questions[i] = qr
	}
	return resp, nil
}

func (s *SessionService) store(ctx context.Context, session *domain.QuizSession) error {
	record := sessionRecord{
		ID:           session.ID,
		QuizID:       session.Quiz.ID,
		CurrentIndex: session.CurrentIndex,
		Answers:      session.Answers,
		State:        session.State,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return domain.NewInternalError("failed to serialize session", err)
	}
	key := cache.GenerateCacheKey("session", "state", session.ID)
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		return domain.NewInternalError("failed to store session", err)
	}
	return nil
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	key := cache.GenerateCacheKey("session", "state", sessionID)
	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewNotFoundError("session not found").WithContext("session_id", sessionID)
		}
		return nil, domain.NewInternalError("failed to load session", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, domain.NewInternalError("stored session is corrupt", err)
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, record.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz for session no longer exists").WithContext("quiz_id", record.QuizID)
	}

	answers := record.Answers
	if answers == nil {
		answers = make(map[int]int)
	}
	return &domain.QuizSession{
		ID:           record.ID,
		Quiz:         quiz,
		CurrentIndex: record.CurrentIndex,
		Answers:      answers,
		State:        record.State,
	}, nil
}
