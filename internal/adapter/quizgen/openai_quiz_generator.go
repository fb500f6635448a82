package quizgen

import (
	"context"
	"fmt"
	"strings"

	"quiz-builder/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemTemplate = `You are a subject matter expert on the topic: %s

Follow the instructions to create quiz questions:
1. Generate %d questions based on the topic provided and context, each as key "question"
2. Provide 4 multiple choice answers to each question as a list of key-value pairs "choices", keyed "A" through "D"
3. Provide the correct answer for each question from the list of answers as key "answer", holding the key of the correct choice
4. Provide an explanation as to why the answer is correct as key "explanation"

Respond with a single JSON array of %d question objects and nothing else.
Example for one question object:
{
  "question": "What is the capital of France?",
  "choices": [
    {"key": "A", "value": "Berlin"},
    {"key": "B", "value": "Madrid"},
    {"key": "C", "value": "Paris"},
    {"key": "D", "value": "Rome"}
  ],
  "answer": "C",
  "explanation": "Paris is the capital of France."
}

Context:
%s`

// OpenAIQuizGenerator implements domain.QuizGenerationService using OpenAI
// chat completions. It returns the raw model output; parsing and validation
// belong to the validator.
type OpenAIQuizGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIQuizGenerator creates a new OpenAIQuizGenerator.
func NewOpenAIQuizGenerator(apiKey, model string, logger *zap.Logger) (*OpenAIQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIQuizGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// GenerateDraft asks the model for numQuestions questions grounded in the
// supplied context segments.
func (g *OpenAIQuizGenerator) GenerateDraft(ctx context.Context, contextSegments []string, topic string, numQuestions int) ([]byte, error) {
	prompt := fmt.Sprintf(systemTemplate, topic, numQuestions, numQuestions, strings.Join(contextSegments, "\n\n---\n\n"))

	g.logger.Debug("Requesting quiz draft",
		zap.String("topic", topic),
		zap.Int("num_questions", numQuestions),
		zap.Int("context_segments", len(contextSegments)),
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.8,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert quiz generator. Your entire response must be valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return []byte(resp.Choices[0].Message.Content), nil
}

var _ domain.QuizGenerationService = (*OpenAIQuizGenerator)(nil)
