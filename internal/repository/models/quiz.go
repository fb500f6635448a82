package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// QuestionRecord is the JSON shape one question takes inside the quizzes row.
type QuestionRecord struct {
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// QuestionSlice stores a quiz's questions as a single JSON column.
type QuestionSlice []QuestionRecord

// Value implements the driver.Valuer interface
func (q QuestionSlice) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionSlice) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("QuestionSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*q = QuestionSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, q)
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID        string        `db:"id"`
	Topic     string        `db:"topic"`
	Questions QuestionSlice `db:"questions"`
	CreatedAt time.Time     `db:"created_at"`
}

// SessionResult is the session_results table row.
type SessionResult struct {
	SessionID  string    `db:"session_id"`
	QuizID     string    `db:"quiz_id"`
	Score      int       `db:"score"`
	Total      int       `db:"total"`
	FinishedAt time.Time `db:"finished_at"`
}
