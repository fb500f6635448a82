// Package extractor turns raw document bytes into plain-text segments.
// Each supported format has its own extraction path; the resulting text is
// chunked into segments sized for embedding.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/util"
)

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ChunkConfig controls how extracted text is split into segments.
type ChunkConfig struct {
	// ChunkSize is the target segment size in estimated tokens.
	ChunkSize int
	// ChunkOverlap is carried from the end of one segment into the next.
	ChunkOverlap int
	// MinChunk drops trailing fragments smaller than this.
	MinChunk int
}

// DefaultChunkConfig returns sensible defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:    400,
		ChunkOverlap: 50,
		MinChunk:     20,
	}
}

// Extractor implements domain.TextExtractor over the per-format paths.
type Extractor struct {
	cfg ChunkConfig
}

// New creates an Extractor with the given chunking config.
func New(cfg ChunkConfig) *Extractor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 400
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 1
	}
	return &Extractor{cfg: cfg}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtractSegments extracts plain text from the document and splits it into
// DocumentSegments. Unknown extensions fail with UNSUPPORTED_FORMAT.
func (e *Extractor) ExtractSegments(ctx context.Context, data []byte, filename string) ([]domain.DocumentSegment, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text, err = extractPlainText(data)
	case ".md", ".markdown":
		text, err = extractMarkdown(data)
	case ".html", ".htm":
		text, err = extractHTML(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		return nil, domain.NewUnsupportedFormatError(filename)
	}
	if err != nil {
		return nil, domain.NewUnsupportedFormatError(filename).WithContext("cause", err.Error())
	}

	if strings.TrimSpace(text) == "" {
		return nil, domain.NewUnsupportedFormatError(filename).WithContext("cause", "document contains no extractable text")
	}

	chunks := splitChunks(text, e.cfg)
	segments := make([]domain.DocumentSegment, 0, len(chunks))
	for i, chunk := range chunks {
		segments = append(segments, domain.DocumentSegment{
			ID:        util.NewULID(),
			Text:      chunk,
			SourceRef: fmt.Sprintf("%s#%d", filename, i),
		})
	}
	return segments, nil
}

var _ domain.TextExtractor = (*Extractor)(nil)
