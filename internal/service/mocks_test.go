package service

import (
	"context"
	"time"

	"quiz-builder/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockQuizGenerationService struct {
	mock.Mock
}

func (m *MockQuizGenerationService) GenerateDraft(ctx context.Context, contextSegments []string, topic string, numQuestions int) ([]byte, error) {
	args := m.Called(ctx, contextSegments, topic, numQuestions)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Upsert(ctx context.Context, corpusID string, segments []domain.EmbeddedSegment) error {
	args := m.Called(ctx, corpusID, segments)
	return args.Error(0)
}

func (m *MockVectorIndex) Search(ctx context.Context, corpusID string, vector []float32, topK int) ([]domain.SegmentMatch, error) {
	args := m.Called(ctx, corpusID, vector, topK)
	if v := args.Get(0); v != nil {
		return v.([]domain.SegmentMatch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVectorIndex) Corpus(ctx context.Context, corpusID string) ([]domain.EmbeddedSegment, error) {
	args := m.Called(ctx, corpusID)
	if v := args.Get(0); v != nil {
		return v.([]domain.EmbeddedSegment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVectorIndex) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Quiz), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepository) SaveSessionResult(ctx context.Context, result *domain.SessionResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractSegments(ctx context.Context, data []byte, filename string) ([]domain.DocumentSegment, error) {
	args := m.Called(ctx, data, filename)
	if v := args.Get(0); v != nil {
		return v.([]domain.DocumentSegment), args.Error(1)
	}
	return nil, args.Error(1)
}
