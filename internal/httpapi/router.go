package httpapi

import (
	"bufio"
	"bytes"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"quiz-studio/internal/quiz"
)

const maxLoggedErrorBytes = 512

func NewRouter(repo *quiz.Repository, logger *slog.Logger) http.Handler {
	api := NewAPI(repo, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/quizzes", api.HandleQuizzes)
	mux.HandleFunc("/quizzes/{quiz_id}", api.HandleQuiz)
	mux.HandleFunc("/quizzes/{quiz_id}/questions", api.HandleQuizQuestions)
	mux.HandleFunc("/quizzes/{quiz_id}/plays", api.HandleStartPlay)
	mux.HandleFunc("/questions/{question_id}", api.HandleQuestion)
	mux.HandleFunc("/plays/{play_id}", api.HandlePlay)
	mux.HandleFunc("/plays/{play_id}/{action}", api.HandlePlayAction)
	mux.HandleFunc("/watch/quizzes", api.HandleWatchQuizzes)
	mux.HandleFunc("/watch/quizzes/{quiz_id}/questions", api.HandleWatchQuizQuestions)
	mux.HandleFunc("/watch/questions/{question_id}/answers", api.HandleWatchAnswers)

	return logRequests(api.log, mux)
}

// logRequests logs one line per request and, for error responses, a
// truncated copy of the body.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedErrorBytes,
		}
		next.ServeHTTP(recorder, r)

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.statusCode),
			slog.Int("bytes", recorder.bytesWritten),
			slog.Duration("elapsed", time.Since(start)),
		}
		if recorder.statusCode >= http.StatusBadRequest {
			body := recorder.logBody.String()
			if recorder.truncated {
				body += "..."
			}
			logger.Warn("request failed", append(attrs, slog.String("body", body))...)
			return
		}
		logger.Info("request", attrs...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n

	if room := r.maxLogBytes - r.logBody.Len(); room > 0 {
		if len(p) > room {
			r.logBody.Write(p[:room])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}
	return n, err
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
