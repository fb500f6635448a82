package service

import (
	"context"
	"sort"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/logger"
	"quiz-builder/internal/util"

	"go.uber.org/zap"
)

// Retriever selects the corpus segments most relevant to a topic by cosine
// similarity against the topic's embedding.
type Retriever struct {
	embeddingService domain.EmbeddingService
}

// NewRetriever creates a new Retriever.
func NewRetriever(embeddingService domain.EmbeddingService) *Retriever {
	return &Retriever{embeddingService: embeddingService}
}

// SelectFromIndex returns up to k segments of an indexed corpus ranked by the
// index itself, so a remote store does its top-k server-side instead of
// shipping the whole corpus here. The topic is embedded exactly once.
func (r *Retriever) SelectFromIndex(ctx context.Context, index domain.VectorIndex, corpusID, topic string, k int) ([]domain.EmbeddedSegment, error) {
	if k < 1 {
		return nil, domain.NewInvalidInputError("retrieval count must be positive")
	}

	topicVector, err := r.embeddingService.Generate(ctx, topic)
	if err != nil {
		return nil, domain.NewEmbeddingServiceError(err)
	}

	matches, err := index.Search(ctx, corpusID, topicVector, k)
	if err != nil {
		return nil, err
	}

	selected := make([]domain.EmbeddedSegment, len(matches))
	for i, m := range matches {
		selected[i] = m.Segment
	}

	logger.Get().Debug("Retriever selected indexed context segments",
		zap.String("topic", topic),
		zap.String("corpus_id", corpusID),
		zap.Int("selected", len(selected)),
	)

	return selected, nil
}

// Select returns up to k segments ordered by non-increasing similarity to the
// topic. Ties keep corpus order, so identical inputs always select the same
// segments. The topic is embedded exactly once. It is the explicit-corpus
// path; callers holding an indexed corpus use SelectFromIndex.
func (r *Retriever) Select(ctx context.Context, topic string, corpus []domain.EmbeddedSegment, k int) ([]domain.EmbeddedSegment, error) {
	if k < 1 {
		return nil, domain.NewInvalidInputError("retrieval count must be positive")
	}
	if len(corpus) == 0 {
		return nil, domain.NewEmptyCorpusError()
	}

	topicVector, err := r.embeddingService.Generate(ctx, topic)
	if err != nil {
		return nil, domain.NewEmbeddingServiceError(err)
	}

	type scored struct {
		segment domain.EmbeddedSegment
		score   float64
	}
	scores := make([]scored, len(corpus))
	for i, seg := range corpus {
		sim, err := util.CosineSimilarity(topicVector, seg.Vector)
		if err != nil {
			return nil, domain.NewInternalError("corpus vector is incompatible with topic vector", err).
				WithContext("segment_id", seg.ID)
		}
		scores[i] = scored{segment: seg, score: sim}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	selected := make([]domain.EmbeddedSegment, k)
	for i := 0; i < k; i++ {
		selected[i] = scores[i].segment
	}

	logger.Get().Debug("Retriever selected context segments",
		zap.String("topic", topic),
		zap.Int("corpus_size", len(corpus)),
		zap.Int("selected", len(selected)),
		zap.Float64("top_score", scores[0].score),
	)

	return selected, nil
}
