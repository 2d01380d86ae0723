package httpapi

import (
	"context"
	"net/http"
	"strings"

	"quiz-studio/internal/quiz"
)

func (a *API) HandleQuizzes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		quizzes, err := a.repo.AllQuizzes(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quizzesResponse{Quizzes: nonNil(quizzes)})
	case http.MethodPost:
		var req createQuizRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
			return
		}
		id, err := a.repo.InsertQuiz(r.Context(), quiz.Quiz{
			Name:        name,
			Description: req.Description,
			ImagePath:   strings.TrimSpace(req.ImagePath),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	case http.MethodDelete:
		if err := a.repo.ClearAll(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, http.MethodGet, http.MethodDelete)
		return
	}

	current, err := a.requireQuiz(r.Context(), pathID(r, "quiz_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.Method == http.MethodDelete {
		if err := a.repo.DeleteQuiz(r.Context(), current); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	questions, err := a.repo.QuestionsForQuiz(r.Context(), current.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizDetailResponse{Quiz: current, Questions: nonNil(questions)})
}

func (a *API) HandleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	current, err := a.requireQuiz(r.Context(), pathID(r, "quiz_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.Method == http.MethodPost {
		id, err := a.repo.AddQuestion(r.Context(), current.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
		return
	}

	questions, err := a.repo.QuestionsForQuiz(r.Context(), current.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(questions))
}

func (a *API) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPut && r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		return
	}

	question, err := a.requireQuestion(r.Context(), pathID(r, "question_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := a.repo.DeleteQuestion(r.Context(), question); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPut:
		var req saveQuestionRequest
		req.CorrectIndex = -1
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if err := a.saveQuestion(r.Context(), question, req); err != nil {
			writeServiceError(w, err)
			return
		}
		question, err = a.requireQuestion(r.Context(), question.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	answers, err := a.repo.AnswersForQuestion(r.Context(), question.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionDetailResponse{Question: question, Answers: nonNil(answers)})
}

// saveQuestion diffs the submitted editor rows against the stored answers
// and applies the result as one write.
func (a *API) saveQuestion(ctx context.Context, question quiz.Question, req saveQuestionRequest) error {
	original, err := a.repo.AnswersForQuestion(ctx, question.ID)
	if err != nil {
		return err
	}
	if req.CorrectIndex < -1 || req.CorrectIndex >= len(req.Answers) {
		return quiz.ErrInvalidSlot
	}
	plan, err := quiz.BuildWritePlan(question, req.QuestionText, original, req.Answers, req.CorrectIndex)
	if err != nil {
		return err
	}
	return a.repo.ApplyPlan(ctx, plan)
}

func (a *API) requireQuiz(ctx context.Context, quizID int64) (quiz.Quiz, error) {
	current, ok, err := a.repo.QuizByID(ctx, quizID)
	if err != nil {
		return quiz.Quiz{}, err
	}
	if !ok {
		return quiz.Quiz{}, errQuizNotFound
	}
	return current, nil
}

func (a *API) requireQuestion(ctx context.Context, questionID int64) (quiz.Question, error) {
	question, ok, err := a.repo.QuestionByID(ctx, questionID)
	if err != nil {
		return quiz.Question{}, err
	}
	if !ok {
		return quiz.Question{}, errQuestionNotFound
	}
	return question, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
