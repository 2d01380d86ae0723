package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"quiz-studio/internal/quiz"
)

const (
	playIdleTimeout = 30 * time.Minute
	maxPlays        = 1024
)

type play struct {
	mu      sync.Mutex
	id      string
	quizID  int64
	session *quiz.Session

	// lastUsed is guarded by the registry lock.
	lastUsed time.Time
}

// playRegistry holds running plays. Plays idle for longer than idleTimeout
// are dropped, and the least recently used play goes when the registry is full.
type playRegistry struct {
	mu          sync.Mutex
	plays       map[string]*play
	idleTimeout time.Duration
	limit       int
	now         func() time.Time
}

func newPlayRegistry() *playRegistry {
	return &playRegistry{
		plays:       make(map[string]*play),
		idleTimeout: playIdleTimeout,
		limit:       maxPlays,
		now:         time.Now,
	}
}

func (p *playRegistry) start(quizID int64, questions []quiz.Question) (*play, error) {
	entry := &play{
		id:      uuid.NewString(),
		quizID:  quizID,
		session: quiz.NewSession(),
	}
	if err := entry.session.Load(questions); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.evictLocked(now)
	entry.lastUsed = now
	p.plays[entry.id] = entry
	return entry, nil
}

func (p *playRegistry) get(id string) (*play, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	entry, ok := p.plays[id]
	if !ok {
		return nil, false
	}
	if now.Sub(entry.lastUsed) > p.idleTimeout {
		delete(p.plays, id)
		return nil, false
	}
	entry.lastUsed = now
	return entry, true
}

func (p *playRegistry) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plays)
}

// evictLocked drops idle plays and, if the registry is still full, the
// least recently used one.
func (p *playRegistry) evictLocked(now time.Time) {
	var oldest *play
	for id, entry := range p.plays {
		if now.Sub(entry.lastUsed) > p.idleTimeout {
			delete(p.plays, id)
			continue
		}
		if oldest == nil || entry.lastUsed.Before(oldest.lastUsed) {
			oldest = entry
		}
	}
	if p.limit > 0 && len(p.plays) >= p.limit && oldest != nil {
		delete(p.plays, oldest.id)
	}
}

// view renders the play; callers hold entry.mu. Correctness flags are not
// exposed while the play is running.
func (entry *play) view(answers []quiz.Answer) (playResponse, error) {
	index, total := entry.session.Progress()
	correct, _ := entry.session.Score()
	resp := playResponse{
		PlayID:  entry.id,
		QuizID:  entry.quizID,
		State:   entry.session.State().String(),
		Index:   index,
		Total:   total,
		Correct: correct,
	}
	if selected, ok := entry.session.Selected(); ok {
		resp.Selected = &selected
	}
	if question, ok := entry.session.Current(); ok {
		view := &playQuestion{Answers: make([]playAnswer, 0, len(answers))}
		// Field names match, so IsCorrect never reaches the view.
		if err := copier.Copy(view, &question); err != nil {
			return resp, err
		}
		if err := copier.Copy(&view.Answers, &answers); err != nil {
			return resp, err
		}
		resp.Question = view
	}
	return resp, nil
}

func (a *API) HandleStartPlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	current, err := a.requireQuiz(r.Context(), pathID(r, "quiz_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	questions, err := a.repo.QuestionsForQuiz(r.Context(), current.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entry, err := a.plays.start(current.ID, questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	a.writePlay(w, r, http.StatusCreated, entry)
}

func (a *API) HandlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	entry, ok := a.plays.get(r.PathValue("play_id"))
	if !ok {
		writeServiceError(w, errPlayNotFound)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	a.writePlay(w, r, http.StatusOK, entry)
}

// HandlePlayAction drives the play state machine: select, advance, restart.
func (a *API) HandlePlayAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	entry, ok := a.plays.get(r.PathValue("play_id"))
	if !ok {
		writeServiceError(w, errPlayNotFound)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	switch r.PathValue("action") {
	case "select":
		var req selectAnswerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if err := entry.session.SelectAnswer(req.AnswerText); err != nil {
			writeServiceError(w, err)
			return
		}
	case "advance":
		var answers []quiz.Answer
		if question, ok := entry.session.Current(); ok {
			var err error
			answers, err = a.repo.AnswersForQuestion(r.Context(), question.ID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
		}
		if err := entry.session.Advance(answers); err != nil {
			writeServiceError(w, err)
			return
		}
	case "restart":
		questions, err := a.repo.QuestionsForQuiz(r.Context(), entry.quizID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		entry.session.Restart(questions)
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown play action"})
		return
	}

	a.writePlay(w, r, http.StatusOK, entry)
}

func (a *API) writePlay(w http.ResponseWriter, r *http.Request, status int, entry *play) {
	var answers []quiz.Answer
	if question, ok := entry.session.Current(); ok {
		var err error
		answers, err = a.repo.AnswersForQuestion(r.Context(), question.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	resp, err := entry.view(answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, status, resp)
}
