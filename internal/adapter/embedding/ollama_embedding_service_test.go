package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOllamaEmbeddingServiceValidation(t *testing.T) {
	_, err := NewOllamaEmbeddingService("", "nomic-embed-text")
	assert.Error(t, err, "empty server URL must be rejected")

	_, err = NewOllamaEmbeddingService("http://localhost:11434", "")
	assert.Error(t, err, "empty model name must be rejected")
}
