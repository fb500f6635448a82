package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quiz-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSegmentsPlainText(t *testing.T) {
	e := New(DefaultChunkConfig())
	data := []byte("First paragraph line one.\nLine two.\n\nSecond paragraph.\n")

	segments, err := e.ExtractSegments(context.Background(), data, "notes.txt")
	require.NoError(t, err)
	require.Len(t, segments, 1)

	assert.Contains(t, segments[0].Text, "First paragraph line one.")
	assert.Contains(t, segments[0].Text, "Second paragraph.")
	assert.Equal(t, "notes.txt#0", segments[0].SourceRef)
	assert.NotEmpty(t, segments[0].ID)
}

func TestExtractSegmentsMarkdown(t *testing.T) {
	e := New(DefaultChunkConfig())
	data := []byte("# Title\n\nSome body text here.\n\n## Section\n\nMore text.\n")

	segments, err := e.ExtractSegments(context.Background(), data, "doc.md")
	require.NoError(t, err)
	require.NotEmpty(t, segments)
	assert.Contains(t, segments[0].Text, "Some body text here.")
	assert.Contains(t, segments[0].Text, "More text.")
}

func TestExtractSegmentsHTML(t *testing.T) {
	e := New(DefaultChunkConfig())
	data := []byte(`<html><head><title>T</title><script>var x=1;</script></head>
<body><nav>menu</nav><h1>Heading</h1><p>Visible paragraph.</p></body></html>`)

	segments, err := e.ExtractSegments(context.Background(), data, "page.html")
	require.NoError(t, err)
	require.NotEmpty(t, segments)
	assert.Contains(t, segments[0].Text, "Visible paragraph.")
	assert.NotContains(t, segments[0].Text, "var x=1")
	assert.NotContains(t, segments[0].Text, "menu")
}

func TestExtractSegmentsUnsupportedFormat(t *testing.T) {
	e := New(DefaultChunkConfig())

	_, err := e.ExtractSegments(context.Background(), []byte("x"), "archive.zip")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeUnsupportedFormat, domainErr.Code)
}

func TestExtractSegmentsEmptyDocument(t *testing.T) {
	e := New(DefaultChunkConfig())

	_, err := e.ExtractSegments(context.Background(), []byte("   \n  \n"), "empty.txt")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeUnsupportedFormat, domainErr.Code)
}

func TestIsSupportedExtension(t *testing.T) {
	assert.True(t, IsSupportedExtension("lecture.PDF"))
	assert.True(t, IsSupportedExtension("notes.md"))
	assert.False(t, IsSupportedExtension("image.png"))
}

func TestSplitChunksOverlap(t *testing.T) {
	words := make([]string, 600)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	cfg := ChunkConfig{ChunkSize: 400, ChunkOverlap: 50, MinChunk: 20}
	chunks := splitChunks(text, cfg)

	require.True(t, len(chunks) >= 2, "600 words at ~300 words/chunk must split")
	for _, c := range chunks {
		assert.NotEmpty(t, c)
	}
}

func TestSplitChunksSmallInputSingleChunk(t *testing.T) {
	chunks := splitChunks("just a few words", DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words", chunks[0])
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("hi"))
	assert.True(t, EstimateTokens(strings.Repeat("word ", 100)) > 100)
}
