package extractor

import "strings"

// EstimateTokens gives a rough token count using the ~1.33 tokens/word
// heuristic. Exact tokenization is not required for chunking.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// splitChunks splits text on word boundaries into chunks of roughly
// cfg.ChunkSize tokens, overlapping consecutive chunks by cfg.ChunkOverlap.
func splitChunks(text string, cfg ChunkConfig) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunkWords := tokensToWords(cfg.ChunkSize)
	overlapWords := tokensToWords(cfg.ChunkOverlap)
	if overlapWords >= chunkWords {
		overlapWords = chunkWords / 2
	}
	minWords := tokensToWords(cfg.MinChunk)

	if len(words) <= chunkWords {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	step := chunkWords - overlapWords
	for start := 0; start < len(words); start += step {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunk := words[start:end]
		// A trailing fragment below the minimum is already covered by the
		// previous chunk's overlap.
		if len(chunks) > 0 && len(chunk) < minWords {
			break
		}
		chunks = append(chunks, strings.Join(chunk, " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// tokensToWords inverts the 1.33 tokens/word estimate.
func tokensToWords(tokens int) int {
	words := int(float64(tokens) / 1.33)
	if words < 1 {
		words = 1
	}
	return words
}
