package service

import (
	"context"
	"errors"
	"strings"

	"quiz-builder/internal/config"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/logger"
	"quiz-builder/internal/util"
	"quiz-builder/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// embedConcurrency bounds parallel embedding calls during ingestion.
const embedConcurrency = 4

// QuizBuilderService orchestrates the full pipeline: document ingestion into
// the vector index, context retrieval, draft generation, and validation into
// a persisted quiz.
type QuizBuilderService struct {
	extractor        domain.TextExtractor
	embeddingService domain.EmbeddingService
	generator        domain.QuizGenerationService
	retriever        *Retriever
	index            domain.VectorIndex
	quizRepo         domain.QuizRepository
	cfg              *config.Config
}

// BuildResult is a built quiz plus how many questions short of the request it
// ended up after all top-up rounds.
type BuildResult struct {
	Quiz      *domain.Quiz
	Shortfall int
}

func NewQuizBuilderService(
	extractor domain.TextExtractor,
	embeddingService domain.EmbeddingService,
	generator domain.QuizGenerationService,
	retriever *Retriever,
	index domain.VectorIndex,
	quizRepo domain.QuizRepository,
	cfg *config.Config,
) *QuizBuilderService {
	return &QuizBuilderService{
		extractor:        extractor,
		embeddingService: embeddingService,
		generator:        generator,
		retriever:        retriever,
		index:            index,
		quizRepo:         quizRepo,
		cfg:              cfg,
	}
}

// IngestDocument extracts segments from an uploaded document, embeds them,
// and stores them in the vector index under a fresh corpus ID. It returns the
// corpus ID and how many segments were indexed.
func (s *QuizBuilderService) IngestDocument(ctx context.Context, data []byte, filename string) (string, int, error) {
	segments, err := s.extractor.ExtractSegments(ctx, data, filename)
	if err != nil {
		return "", 0, err
	}

	embedded := make([]domain.EmbeddedSegment, len(segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			vector, err := s.embeddingService.Generate(gctx, seg.Text)
			if err != nil {
				return domain.NewEmbeddingServiceError(err).WithContext("segment_id", seg.ID)
			}
			embedded[i] = domain.EmbeddedSegment{DocumentSegment: seg, Vector: vector}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, err
	}

	corpusID := util.NewULID()
	if err := s.index.Upsert(ctx, corpusID, embedded); err != nil {
		return "", 0, domain.NewInternalError("failed to index document segments", err)
	}

	logger.Get().Info("document ingested",
		zap.String("corpus_id", corpusID),
		zap.String("filename", filename),
		zap.Int("segments", len(embedded)),
	)
	return corpusID, len(embedded), nil
}

// BuildQuiz generates a validated quiz of up to numQuestions questions about
// topic, grounded on the most relevant segments of the given corpus. When
// validation drops questions it re-generates the missing count, at most
// cfg.Quiz.TopUpAttempts extra rounds, refusing prompts already accepted. The
// quiz is persisted before it is returned.
func (s *QuizBuilderService) BuildQuiz(ctx context.Context, corpusID, rawTopic string, numQuestions int) (*BuildResult, error) {
	topic, err := domain.NewTopic(rawTopic)
	if err != nil {
		return nil, err
	}
	if numQuestions < 1 || numQuestions > s.cfg.Quiz.MaxQuestions {
		return nil, domain.NewInvalidInputError("question count must be between 1 and the configured maximum").
			WithContext("requested", numQuestions).
			WithContext("max", s.cfg.Quiz.MaxQuestions)
	}

	selected, err := s.retriever.SelectFromIndex(ctx, s.index, corpusID, topic, s.cfg.Quiz.RetrieveK)
	if err != nil {
		return nil, err
	}
	contextTexts := make([]string, len(selected))
	for i, seg := range selected {
		contextTexts[i] = seg.Text
	}

	accepted := make([]domain.Question, 0, numQuestions)
	seenPrompts := make(map[string]bool)
	needed := numQuestions
	var lastErr error

	// One initial round plus up to TopUpAttempts re-generations. Only
	// validation rejects are retried; a provider failure propagates at once.
	for attempt := 0; attempt <= s.cfg.Quiz.TopUpAttempts && needed > 0; attempt++ {
		draft, err := s.generateDraft(ctx, contextTexts, topic, needed)
		if err != nil {
			return nil, err
		}

		result, err := validation.ValidateDraftAgainst(draft, needed, seenPrompts)
		if err != nil {
			lastErr = err
			logger.Get().Warn("draft rejected, retrying",
				zap.String("topic", topic),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		for _, q := range result.Questions {
			seenPrompts[strings.ToLower(validation.NormalizeWhitespace(q.Prompt))] = true
		}
		accepted = append(accepted, result.Questions...)
		needed = numQuestions - len(accepted)
	}

	if len(accepted) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, domain.NewMalformedQuizError("no valid questions after all attempts", nil)
	}

	quiz, err := domain.NewQuiz(util.NewULID(), topic, accepted)
	if err != nil {
		return nil, domain.NewInternalError("validated questions failed quiz assembly", err)
	}
	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to persist quiz", err)
	}

	shortfall := numQuestions - len(accepted)
	logger.Get().Info("quiz built",
		zap.String("quiz_id", quiz.ID),
		zap.String("topic", topic),
		zap.Int("questions", len(accepted)),
		zap.Int("shortfall", shortfall),
	)
	return &BuildResult{Quiz: quiz, Shortfall: shortfall}, nil
}

// generateDraft runs the generator under the configured timeout and maps its
// failures onto the service error taxonomy.
func (s *QuizBuilderService) generateDraft(ctx context.Context, contextTexts []string, topic string, count int) ([]byte, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Generator.Timeout)
	defer cancel()

	draft, err := s.generator.GenerateDraft(genCtx, contextTexts, topic, count)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewGenerationTimeoutError(err)
		}
		return nil, domain.NewGenerationServiceError(err)
	}
	return draft, nil
}
