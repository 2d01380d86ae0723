package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"quiz-studio/internal/quiz"
)

const maxBodyBytes = 1 << 20

var (
	errQuizNotFound     = errors.New("quiz not found")
	errQuestionNotFound = errors.New("question not found")
	errPlayNotFound     = errors.New("play not found")
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errQuizNotFound),
		errors.Is(err, errQuestionNotFound),
		errors.Is(err, errPlayNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrBlankQuestionText),
		errors.Is(err, quiz.ErrBlankAnswerText),
		errors.Is(err, quiz.ErrTooManyAnswers),
		errors.Is(err, quiz.ErrLastAnswer),
		errors.Is(err, quiz.ErrUnknownAnswer),
		errors.Is(err, quiz.ErrInvalidSlot):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrMultipleCorrectAnswers),
		errors.Is(err, quiz.ErrSessionNotStarted),
		errors.Is(err, quiz.ErrSessionFinished):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// pathID reads an integer path parameter; malformed values become 0 and
// resolve to not found downstream.
func pathID(r *http.Request, name string) int64 {
	return quiz.ParseID(r.PathValue(name))
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods ...string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
