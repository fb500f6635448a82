package domain

import "context"

// DocumentSegment is one chunk of extracted document text.
// Immutable once created by the extractor.
type DocumentSegment struct {
	ID        string
	Text      string
	SourceRef string
}

// EmbeddedSegment pairs a segment with its embedding vector.
// All vectors inside one request share the same length.
type EmbeddedSegment struct {
	DocumentSegment
	Vector []float32
}

// TextExtractor defines the interface for turning raw document bytes into
// plain-text segments.
type TextExtractor interface {
	ExtractSegments(ctx context.Context, data []byte, filename string) ([]DocumentSegment, error)
}
