package httpapi

import "quiz-studio/internal/quiz"

type quizzesResponse struct {
	Quizzes []quiz.Quiz `json:"quizzes"`
}

type quizDetailResponse struct {
	Quiz      quiz.Quiz       `json:"quiz"`
	Questions []quiz.Question `json:"questions"`
}

type questionDetailResponse struct {
	Question quiz.Question `json:"question"`
	Answers  []quiz.Answer `json:"answers"`
}

type createQuizRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type saveQuestionRequest struct {
	QuestionText string            `json:"question_text"`
	Answers      []quiz.AnswerSlot `json:"answers"`
	// CorrectIndex is the position in Answers of the correct answer; -1 for none.
	CorrectIndex int `json:"correct_index"`
}

type playAnswer struct {
	ID         int64  `json:"id"`
	AnswerText string `json:"answer_text"`
}

type playQuestion struct {
	ID           int64        `json:"id"`
	QuestionText string       `json:"question_text"`
	Answers      []playAnswer `json:"answers"`
}

type playResponse struct {
	PlayID   string        `json:"play_id"`
	QuizID   int64         `json:"quiz_id"`
	State    string        `json:"state"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Selected *string       `json:"selected,omitempty"`
	Question *playQuestion `json:"question,omitempty"`
}

type selectAnswerRequest struct {
	AnswerText string `json:"answer_text"`
}

type snapshotMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorResponse struct {
	Error string `json:"error"`
}
