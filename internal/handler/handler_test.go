package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"quiz-builder/internal/adapter"
	"quiz-builder/internal/adapter/extractor"
	"quiz-builder/internal/adapter/vectorstore"
	"quiz-builder/internal/config"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/dto"
	"quiz-builder/internal/middleware"
	"quiz-builder/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps text onto a deterministic two-dimensional vector so
// retrieval stays stable across runs.
type fakeEmbedder struct{}

func (fakeEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	var sum float32
	for _, r := range text {
		sum += float32(r % 17)
	}
	return []float32{1, sum / 100}, nil
}

// fakeGenerator emits the requested number of well-formed draft questions.
type fakeGenerator struct{}

func (fakeGenerator) GenerateDraft(_ context.Context, _ []string, topic string, numQuestions int) ([]byte, error) {
	type choice struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	type question struct {
		Question    string   `json:"question"`
		Choices     []choice `json:"choices"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
	}
	questions := make([]question, numQuestions)
	for i := range questions {
		questions[i] = question{
			Question: fmt.Sprintf("%s question %d?", topic, i),
			Choices: []choice{
				{Key: "A", Value: fmt.Sprintf("right answer %d", i)},
				{Key: "B", Value: fmt.Sprintf("wrong answer %d", i)},
				{Key: "C", Value: fmt.Sprintf("worse answer %d", i)},
			},
			Answer:      "A",
			Explanation: "stated in the source material",
		}
	}
	return json.Marshal(questions)
}

// fakeQuizRepo keeps quizzes and results in memory.
type fakeQuizRepo struct {
	mu      sync.Mutex
	quizzes map[string]*domain.Quiz
	results map[string]*domain.SessionResult
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		quizzes: make(map[string]*domain.Quiz),
		results: make(map[string]*domain.SessionResult),
	}
}

func (r *fakeQuizRepo) SaveQuiz(_ context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r *fakeQuizRepo) GetQuizByID(_ context.Context, id string) (*domain.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quizzes[id], nil
}

func (r *fakeQuizRepo) SaveSessionResult(_ context.Context, result *domain.SessionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.SessionID] = result
	return nil
}

type testApp struct {
	app  *fiber.App
	repo *fakeQuizRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{
		Generator: config.GeneratorConfig{Timeout: 5 * time.Second},
		Quiz: config.QuizConfig{
			MaxQuestions:  10,
			RetrieveK:     3,
			TopUpAttempts: 3,
			DefaultTopic:  "General Knowledge",
		},
		Auth: config.AuthConfig{SessionSecret: "test-secret", SessionTTL: time.Hour},
	}

	repo := newFakeQuizRepo()
	cacheAdapter := adapter.NewMemoryCacheAdapter()
	index := vectorstore.NewMemoryIndex()
	retriever := service.NewRetriever(fakeEmbedder{})
	builder := service.NewQuizBuilderService(
		extractor.New(extractor.ChunkConfig{}),
		fakeEmbedder{}, fakeGenerator{}, retriever, index, repo, cfg,
	)
	sessions := service.NewSessionService(cacheAdapter, repo, cfg)
	authService, err := service.NewAuthService(cfg)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	api := app.Group("/api")
	api.Post("/documents", NewDocumentHandler(builder).IngestDocument)
	api.Post("/quizzes", NewQuizHandler(builder, sessions, authService, cfg).BuildQuiz)

	sessionHandler := NewSessionHandler(sessions)
	guarded := api.Group("/sessions/:id", middleware.SessionGuard(authService))
	guarded.Post("/answer", sessionHandler.Answer)
	guarded.Post("/advance", sessionHandler.Advance)
	guarded.Get("/result", sessionHandler.Result)

	return &testApp{app: app, repo: repo}
}

func (ta *testApp) uploadDocument(t *testing.T, filename, content string) dto.IngestResponse {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var ingest dto.IngestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ingest))
	return ingest
}

func (ta *testApp) postJSON(t *testing.T, path, token string, payload interface{}) ([]byte, int) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return out.Bytes(), resp.StatusCode
}

const sampleDocument = `Networking basics.

The Transmission Control Protocol provides reliable ordered delivery.

The User Datagram Protocol trades reliability for latency.

Routers forward packets between networks using routing tables.`

func TestIngestAndBuildQuizFlow(t *testing.T) {
	ta := newTestApp(t)

	ingest := ta.uploadDocument(t, "notes.txt", sampleDocument)
	assert.NotEmpty(t, ingest.CorpusID)
	assert.Greater(t, ingest.SegmentCount, 0)

	body, status := ta.postJSON(t, "/api/quizzes", "", dto.BuildQuizRequest{
		CorpusID:     ingest.CorpusID,
		Topic:        "networking",
		NumQuestions: 3,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var built dto.BuildQuizResponse
	require.NoError(t, json.Unmarshal(body, &built))
	assert.Equal(t, "networking", built.Topic)
	assert.Len(t, built.Questions, 3)
	assert.Zero(t, built.Shortfall)
	assert.NotEmpty(t, built.SessionID)
	assert.NotEmpty(t, built.SessionToken)
	// The taker must not see answers in the quiz payload.
	for _, q := range built.Questions {
		assert.NotEmpty(t, q.Prompt)
		assert.Len(t, q.Choices, 3)
	}
}

func TestBuildQuizDefaultsBlankTopic(t *testing.T) {
	ta := newTestApp(t)
	ingest := ta.uploadDocument(t, "notes.txt", sampleDocument)

	body, status := ta.postJSON(t, "/api/quizzes", "", dto.BuildQuizRequest{
		CorpusID:     ingest.CorpusID,
		Topic:        "   ",
		NumQuestions: 1,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var built dto.BuildQuizResponse
	require.NoError(t, json.Unmarshal(body, &built))
	assert.Equal(t, "General Knowledge", built.Topic)
}

func TestBuildQuizUnknownCorpus(t *testing.T) {
	ta := newTestApp(t)

	body, status := ta.postJSON(t, "/api/quizzes", "", dto.BuildQuizRequest{
		CorpusID:     "no-such-corpus",
		Topic:        "anything",
		NumQuestions: 2,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, string(body))
}

func TestIngestRejectsUnsupportedFormat(t *testing.T) {
	ta := newTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", "archive.zip")
	require.NoError(t, err)
	_, err = part.Write([]byte("PK\x03\x04"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	ta := newTestApp(t)
	ingest := ta.uploadDocument(t, "notes.txt", sampleDocument)

	body, status := ta.postJSON(t, "/api/quizzes", "", dto.BuildQuizRequest{
		CorpusID:     ingest.CorpusID,
		Topic:        "networking",
		NumQuestions: 2,
	})
	require.Equal(t, fiber.StatusCreated, status)
	var built dto.BuildQuizResponse
	require.NoError(t, json.Unmarshal(body, &built))

	base := "/api/sessions/" + built.SessionID
	token := built.SessionToken

	// Correct answer on the first question (the fake generator keys "A" first).
	body, status = ta.postJSON(t, base+"/answer", token, dto.AnswerRequest{ChoiceIndex: 0})
	require.Equal(t, fiber.StatusOK, status, string(body))

	body, status = ta.postJSON(t, base+"/advance", token, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var state dto.SessionStateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, 1, state.CurrentIndex)
	assert.False(t, state.Finished)

	// Wrong answer on the second, then finish.
	_, status = ta.postJSON(t, base+"/answer", token, dto.AnswerRequest{ChoiceIndex: 2})
	require.Equal(t, fiber.StatusOK, status)
	body, status = ta.postJSON(t, base+"/advance", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &state))
	assert.True(t, state.Finished)

	// Finished sessions reject further answers.
	_, status = ta.postJSON(t, base+"/answer", token, dto.AnswerRequest{ChoiceIndex: 0})
	assert.Equal(t, fiber.StatusConflict, status)

	req := httptest.NewRequest("GET", base+"/result", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result dto.SessionResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Finished)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Questions, 2)
	assert.NotEmpty(t, result.Questions[0].Explanation)

	// The finished result is durably recorded.
	saved := ta.repo.results[built.SessionID]
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.Score)
}

func TestSessionRequiresToken(t *testing.T) {
	ta := newTestApp(t)
	ingest := ta.uploadDocument(t, "notes.txt", sampleDocument)

	body, status := ta.postJSON(t, "/api/quizzes", "", dto.BuildQuizRequest{
		CorpusID:     ingest.CorpusID,
		Topic:        "networking",
		NumQuestions: 1,
	})
	require.Equal(t, fiber.StatusCreated, status)
	var built dto.BuildQuizResponse
	require.NoError(t, json.Unmarshal(body, &built))

	_, status = ta.postJSON(t, "/api/sessions/"+built.SessionID+"/answer", "", dto.AnswerRequest{ChoiceIndex: 0})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAnswerOutOfRange(t *testing.T) {
	ta := newTestApp(t)
	ingest := ta.uploadDocument(t, "notes.txt", sampleDocument)

	body, status := ta.postJSON(t, "/api/quizzes", "", dto.BuildQuizRequest{
		CorpusID:     ingest.CorpusID,
		Topic:        "networking",
		NumQuestions: 1,
	})
	require.Equal(t, fiber.StatusCreated, status)
	var built dto.BuildQuizResponse
	require.NoError(t, json.Unmarshal(body, &built))

	_, status = ta.postJSON(t, "/api/sessions/"+built.SessionID+"/answer", built.SessionToken, dto.AnswerRequest{ChoiceIndex: 99})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
