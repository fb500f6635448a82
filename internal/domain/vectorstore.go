package domain

import "context"

// SegmentMatch is one vector index hit.
type SegmentMatch struct {
	Segment EmbeddedSegment
	Score   float64
}

// VectorIndex defines the interface (port) for a vector store holding
// embedded segments, grouped by corpus.
type VectorIndex interface {
	// Upsert stores segments under a corpus ID, replacing entries with the
	// same segment ID.
	Upsert(ctx context.Context, corpusID string, segments []EmbeddedSegment) error

	// Search returns up to topK segments of a corpus ordered by descending
	// similarity to the query vector.
	Search(ctx context.Context, corpusID string, vector []float32, topK int) ([]SegmentMatch, error)

	// Corpus returns every segment stored under a corpus ID.
	Corpus(ctx context.Context, corpusID string) ([]EmbeddedSegment, error)

	Close() error
}
