package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quiz-studio/internal/quiz"
)

const watchWriteTimeout = 5 * time.Second

func (a *API) HandleWatchQuizzes(w http.ResponseWriter, r *http.Request) {
	streamSnapshots(a, w, r, "quizzes", func(ctx context.Context) *quiz.Live[[]quiz.Quiz] {
		return a.repo.WatchAllQuizzes(ctx)
	})
}

func (a *API) HandleWatchQuizQuestions(w http.ResponseWriter, r *http.Request) {
	quizID := pathID(r, "quiz_id")
	streamSnapshots(a, w, r, "questions", func(ctx context.Context) *quiz.Live[[]quiz.Question] {
		return a.repo.WatchQuestionsForQuiz(ctx, quizID)
	})
}

func (a *API) HandleWatchAnswers(w http.ResponseWriter, r *http.Request) {
	questionID := pathID(r, "question_id")
	streamSnapshots(a, w, r, "answers", func(ctx context.Context) *quiz.Live[[]quiz.Answer] {
		return a.repo.WatchAnswersForQuestion(ctx, questionID)
	})
}

// streamSnapshots upgrades the request and writes every snapshot of the live
// query as a JSON message until the client goes away.
func streamSnapshots[T any](a *API, w http.ResponseWriter, r *http.Request, kind string, open func(context.Context) *quiz.Live[[]T]) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn("websocket upgrade failed", "path", r.URL.Path, "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reading is only used to notice the peer closing.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	live := open(ctx)
	defer live.Close()

	for snapshot := range live.Updates() {
		_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
		if err := conn.WriteJSON(snapshotMessage{Type: kind, Payload: nonNil(snapshot)}); err != nil {
			a.log.Debug("websocket write failed", "path", r.URL.Path, "err", err)
			return
		}
	}

	if err := live.Err(); err != nil {
		a.log.Error("live query failed", "path", r.URL.Path, "err", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "live query failed"),
			time.Now().Add(watchWriteTimeout))
	}
}
