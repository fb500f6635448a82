package dto

// IngestResponse reports the outcome of a document upload
// @Description Result of ingesting documents into a corpus
type IngestResponse struct {
	CorpusID     string `json:"corpus_id"`
	SegmentCount int    `json:"segment_count"`
}

// BuildQuizRequest asks the pipeline to build a quiz
// @Description Request body for building a quiz
type BuildQuizRequest struct {
	CorpusID     string `json:"corpus_id"`
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
}

// QuestionView is a question as shown to the quiz taker: no correct index,
// no explanation until the session is finished.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// BuildQuizResponse returns the built quiz plus a session to take it with
type BuildQuizResponse struct {
	QuizID       string         `json:"quiz_id"`
	Topic        string         `json:"topic"`
	Questions    []QuestionView `json:"questions"`
	Shortfall    int            `json:"shortfall,omitempty"`
	SessionID    string         `json:"session_id"`
	SessionToken string         `json:"session_token"`
}

// AnswerRequest records a choice for the session's current question
// @Description Request body for answering the current question
type AnswerRequest struct {
	ChoiceIndex int `json:"choice_index"`
}

// SessionStateResponse reflects session progress after an operation
type SessionStateResponse struct {
	SessionID    string `json:"session_id"`
	CurrentIndex int    `json:"current_index"`
	Finished     bool   `json:"finished"`
}

// QuestionResult pairs the taker's answer with the right one
type QuestionResult struct {
	Prompt       string `json:"prompt"`
	ChosenIndex  *int   `json:"chosen_index,omitempty"`
	CorrectIndex int    `json:"correct_index"`
	Correct      bool   `json:"correct"`
	Explanation  string `json:"explanation,omitempty"`
}

// SessionResultResponse is the scoreboard for a session
type SessionResultResponse struct {
	SessionID string           `json:"session_id"`
	Finished  bool             `json:"finished"`
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Questions []QuestionResult `json:"questions,omitempty"`
}
