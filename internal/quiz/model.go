package quiz

import (
	"strconv"
	"strings"
)

const (
	// MaxAnswers caps the answer rows the editor will hold for one question.
	MaxAnswers = 10

	NewQuestionText = "New Question"
)

type Quiz struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

type Question struct {
	ID           int64  `json:"id"`
	QuizID       int64  `json:"quiz_id"`
	QuestionText string `json:"question_text"`
}

type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// DefaultAnswers is the answer set a freshly added question starts with.
func DefaultAnswers(questionID int64) []Answer {
	return []Answer{
		{QuestionID: questionID, AnswerText: "a", IsCorrect: true},
		{QuestionID: questionID, AnswerText: "b"},
		{QuestionID: questionID, AnswerText: "c"},
	}
}

// ParseID reads a navigation parameter. Anything that is not a positive
// integer maps to 0, which never names a stored row.
func ParseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// CorrectAnswerText returns the text of the first answer flagged correct.
func CorrectAnswerText(answers []Answer) (string, bool) {
	for _, answer := range answers {
		if answer.IsCorrect {
			return answer.AnswerText, true
		}
	}
	return "", false
}
