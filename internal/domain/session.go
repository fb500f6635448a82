package domain

// SessionState is the lifecycle state of a quiz session.
type SessionState string

const (
	SessionActive   SessionState = "active"
	SessionFinished SessionState = "finished"
)

// QuizSession tracks one user's progress through a quiz. It is owned by a
// single interaction flow; none of its operations are safe for concurrent use.
type QuizSession struct {
	ID           string
	Quiz         *Quiz
	CurrentIndex int
	Answers      map[int]int
	State        SessionState
}

// NewQuizSession starts a session over a validated quiz.
func NewQuizSession(id string, quiz *Quiz) *QuizSession {
	return &QuizSession{
		ID:      id,
		Quiz:    quiz,
		Answers: make(map[int]int),
		State:   SessionActive,
	}
}

// AnswerCurrent records a choice for the current question. Answering the same
// question again overwrites the previous choice.
func (s *QuizSession) AnswerCurrent(choiceIndex int) error {
	if s.State == SessionFinished {
		return NewSessionFinishedError()
	}
	q := s.Quiz.Questions[s.CurrentIndex]
	if choiceIndex < 0 || choiceIndex >= len(q.Choices) {
		return NewInvalidChoiceError(choiceIndex, len(q.Choices))
	}
	s.Answers[s.CurrentIndex] = choiceIndex
	return nil
}

// Advance moves to the next question; stepping past the last question
// finishes the session. Finished is terminal.
func (s *QuizSession) Advance() error {
	if s.State == SessionFinished {
		return NewSessionFinishedError()
	}
	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Quiz.Questions) {
		s.State = SessionFinished
	}
	return nil
}

// Score counts answered questions whose choice matches the correct index.
// Unanswered questions never count. Valid in any state.
func (s *QuizSession) Score() int {
	score := 0
	for i, q := range s.Quiz.Questions {
		if choice, ok := s.Answers[i]; ok && choice == q.CorrectIndex {
			score++
		}
	}
	return score
}

// IsFinished reports whether the session reached its terminal state.
func (s *QuizSession) IsFinished() bool {
	return s.State == SessionFinished
}
