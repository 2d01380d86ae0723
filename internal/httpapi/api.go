package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-studio/internal/quiz"
)

type API struct {
	repo     *quiz.Repository
	plays    *playRegistry
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewAPI(repo *quiz.Repository, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		repo:  repo,
		plays: newPlayRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The service binds to loopback; any local page may subscribe.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logger,
	}
}
