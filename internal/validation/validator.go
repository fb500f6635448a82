// Package validation turns raw generator drafts into validated quiz
// questions. It is pure: the same draft always yields the same result, and it
// never talks to the generator itself.
package validation

import (
	"encoding/json"
	"strings"

	"quiz-builder/internal/domain"
)

// DraftChoice is one choice in the generator's JSON output, keyed "A".."D".
type DraftChoice struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DraftQuestion is the unvalidated question shape the generator emits.
// Either Answer (a choice key) or CorrectIndex (0-based) identifies the
// correct choice.
type DraftQuestion struct {
	Question     string        `json:"question"`
	Choices      []DraftChoice `json:"choices"`
	Answer       string        `json:"answer"`
	CorrectIndex *int          `json:"correct_index,omitempty"`
	Explanation  string        `json:"explanation"`
}

type draftEnvelope struct {
	Questions []DraftQuestion `json:"questions"`
}

// Result carries the surviving questions plus how many the caller still needs
// to reach expectedCount. Retrying is the caller's decision, never ours.
type Result struct {
	Questions []domain.Question
	Shortfall int
}

// ValidateDraft parses and validates a raw draft, dropping malformed
// questions individually. It fails only when the payload is unparseable or no
// question survives.
func ValidateDraft(draft []byte, expectedCount int) (*Result, error) {
	return ValidateDraftAgainst(draft, expectedCount, nil)
}

// ValidateDraftAgainst additionally drops questions whose prompt duplicates
// one in seenPrompts (normalized, lower-cased). Used by top-up rounds so a
// re-generated batch cannot repeat an accepted question.
func ValidateDraftAgainst(draft []byte, expectedCount int, seenPrompts map[string]bool) (*Result, error) {
	if expectedCount < 1 {
		return nil, domain.NewInvalidInputError("expected question count must be positive")
	}

	questions, err := parseDraft(draft)
	if err != nil {
		return nil, domain.NewMalformedQuizError("draft is not valid JSON", err)
	}

	seen := make(map[string]bool, len(seenPrompts)+len(questions))
	for k := range seenPrompts {
		seen[k] = true
	}

	valid := make([]domain.Question, 0, expectedCount)
	for i := range questions {
		q, ok := normalizeQuestion(&questions[i])
		if !ok {
			continue
		}
		promptKey := strings.ToLower(q.Prompt)
		if seen[promptKey] {
			continue
		}
		seen[promptKey] = true
		valid = append(valid, q)
		if len(valid) == expectedCount {
			break
		}
	}

	if len(valid) == 0 {
		return nil, domain.NewMalformedQuizError("no valid questions in draft", nil)
	}

	return &Result{
		Questions: valid,
		Shortfall: expectedCount - len(valid),
	}, nil
}

func parseDraft(draft []byte) ([]DraftQuestion, error) {
	trimmed := strings.TrimSpace(string(draft))

	// Models sometimes fence the JSON in markdown.
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var questions []DraftQuestion
	if err := json.Unmarshal([]byte(trimmed), &questions); err == nil {
		return questions, nil
	}

	var envelope draftEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return nil, err
	}
	if envelope.Questions == nil {
		var single DraftQuestion
		if err := json.Unmarshal([]byte(trimmed), &single); err == nil && single.Question != "" {
			return []DraftQuestion{single}, nil
		}
	}
	return envelope.Questions, nil
}

// normalizeQuestion applies whitespace normalization and the structural
// invariants: non-empty prompt, at least two unique non-empty choices, and a
// resolvable in-range correct index.
func normalizeQuestion(d *DraftQuestion) (domain.Question, bool) {
	prompt := NormalizeWhitespace(d.Question)
	if prompt == "" {
		return domain.Question{}, false
	}
	if len(d.Choices) < 2 {
		return domain.Question{}, false
	}

	choices := make([]string, 0, len(d.Choices))
	dup := make(map[string]bool, len(d.Choices))
	correct := -1
	answerKey := strings.ToUpper(strings.TrimSpace(d.Answer))

	for i, c := range d.Choices {
		value := NormalizeWhitespace(c.Value)
		if value == "" {
			return domain.Question{}, false
		}
		key := strings.ToLower(value)
		if dup[key] {
			return domain.Question{}, false
		}
		dup[key] = true
		choices = append(choices, value)

		if answerKey != "" && strings.ToUpper(strings.TrimSpace(c.Key)) == answerKey {
			correct = i
		}
	}

	if d.CorrectIndex != nil {
		correct = *d.CorrectIndex
	}
	if correct < 0 || correct >= len(choices) {
		return domain.Question{}, false
	}

	return domain.Question{
		Prompt:       prompt,
		Choices:      choices,
		CorrectIndex: correct,
		Explanation:  NormalizeWhitespace(d.Explanation),
	}, true
}

// NormalizeWhitespace trims and collapses internal runs of whitespace.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
