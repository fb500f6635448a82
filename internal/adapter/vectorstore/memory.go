package vectorstore

import (
	"context"
	"sort"
	"sync"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/util"
)

// MemoryIndex is a process-local domain.VectorIndex. It is the default
// backend when no qdrant endpoint is configured; corpora live only as long as
// the process.
type MemoryIndex struct {
	mu      sync.RWMutex
	corpora map[string][]domain.EmbeddedSegment
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{corpora: make(map[string][]domain.EmbeddedSegment)}
}

// Upsert stores segments under a corpus, replacing entries with the same
// segment ID and appending the rest in arrival order.
func (m *MemoryIndex) Upsert(ctx context.Context, corpusID string, segments []domain.EmbeddedSegment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.corpora[corpusID]
	byID := make(map[string]int, len(existing))
	for i, seg := range existing {
		byID[seg.ID] = i
	}

	for _, seg := range segments {
		if i, ok := byID[seg.ID]; ok {
			existing[i] = seg
		} else {
			byID[seg.ID] = len(existing)
			existing = append(existing, seg)
		}
	}
	m.corpora[corpusID] = existing
	return nil
}

// Search scans the corpus and returns the topK segments by cosine similarity.
// Ties keep insertion order, so identical inputs always select identically.
func (m *MemoryIndex) Search(ctx context.Context, corpusID string, vector []float32, topK int) ([]domain.SegmentMatch, error) {
	m.mu.RLock()
	segments := m.corpora[corpusID]
	m.mu.RUnlock()

	if len(segments) == 0 {
		return nil, domain.NewEmptyCorpusError()
	}

	matches := make([]domain.SegmentMatch, 0, len(segments))
	for _, seg := range segments {
		score, err := util.CosineSimilarity(vector, seg.Vector)
		if err != nil {
			return nil, err
		}
		matches = append(matches, domain.SegmentMatch{Segment: seg, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// Corpus returns a copy of every segment stored under a corpus ID.
func (m *MemoryIndex) Corpus(ctx context.Context, corpusID string) ([]domain.EmbeddedSegment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	segments, ok := m.corpora[corpusID]
	if !ok || len(segments) == 0 {
		return nil, domain.NewEmptyCorpusError()
	}
	out := make([]domain.EmbeddedSegment, len(segments))
	copy(out, segments)
	return out, nil
}

// Close implements domain.VectorIndex.
func (m *MemoryIndex) Close() error {
	return nil
}

var _ domain.VectorIndex = (*MemoryIndex)(nil)
