package domain

import (
	"errors"
	"testing"
)

func threeQuestionQuiz(t *testing.T) *Quiz {
	t.Helper()
	questions := []Question{
		{Prompt: "q0", Choices: []string{"a", "b", "c"}, CorrectIndex: 1, Explanation: "e0"},
		{Prompt: "q1", Choices: []string{"a", "b"}, CorrectIndex: 0, Explanation: "e1"},
		{Prompt: "q2", Choices: []string{"a", "b", "c", "d"}, CorrectIndex: 3, Explanation: "e2"},
	}
	quiz, err := NewQuiz("quiz-1", "testing", questions)
	if err != nil {
		t.Fatalf("NewQuiz() failed: %v", err)
	}
	return quiz
}

func expectCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code)
	}
}

func TestSessionFullWalkthrough(t *testing.T) {
	session := NewQuizSession("s1", threeQuestionQuiz(t))

	if session.IsFinished() {
		t.Fatal("new session must be active")
	}

	steps := []int{1, 0, 2}
	for _, choice := range steps {
		if err := session.AnswerCurrent(choice); err != nil {
			t.Fatalf("AnswerCurrent(%d) failed: %v", choice, err)
		}
		if err := session.Advance(); err != nil {
			t.Fatalf("Advance() failed: %v", err)
		}
	}

	if !session.IsFinished() {
		t.Fatal("session should be finished after advancing past the last question")
	}

	// Answers were 1, 0, 2 against correct indexes 1, 0, 3: two matches.
	if got := session.Score(); got != 2 {
		t.Errorf("Score() = %d, want 2", got)
	}

	err := session.Advance()
	if err == nil {
		t.Fatal("Advance() on a finished session must fail")
	}
	expectCode(t, err, CodeSessionFinished)

	err = session.AnswerCurrent(0)
	if err == nil {
		t.Fatal("AnswerCurrent() on a finished session must fail")
	}
	expectCode(t, err, CodeSessionFinished)
}

func TestSessionAnswerOutOfRange(t *testing.T) {
	session := NewQuizSession("s1", threeQuestionQuiz(t))

	err := session.AnswerCurrent(3)
	if err == nil {
		t.Fatal("choice index past the last choice must fail")
	}
	expectCode(t, err, CodeInvalidChoice)

	err = session.AnswerCurrent(-1)
	if err == nil {
		t.Fatal("negative choice index must fail")
	}
	expectCode(t, err, CodeInvalidChoice)
}

func TestSessionReanswerOverwrites(t *testing.T) {
	session := NewQuizSession("s1", threeQuestionQuiz(t))

	if err := session.AnswerCurrent(0); err != nil {
		t.Fatalf("AnswerCurrent(0) failed: %v", err)
	}
	if got := session.Score(); got != 0 {
		t.Errorf("Score() after wrong answer = %d, want 0", got)
	}

	// Re-answering before advancing replaces the stored choice.
	if err := session.AnswerCurrent(1); err != nil {
		t.Fatalf("AnswerCurrent(1) failed: %v", err)
	}
	if got := session.Score(); got != 1 {
		t.Errorf("Score() after corrected answer = %d, want 1", got)
	}
}

func TestSessionScoreCountsOnlyAnswered(t *testing.T) {
	session := NewQuizSession("s1", threeQuestionQuiz(t))

	if err := session.AnswerCurrent(1); err != nil {
		t.Fatalf("AnswerCurrent(1) failed: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}
	// Skip the second question entirely.
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}

	if got := session.Score(); got != 1 {
		t.Errorf("Score() = %d, want 1 (unanswered questions never count)", got)
	}
	if session.IsFinished() {
		t.Error("session with one question left should still be active")
	}
}
