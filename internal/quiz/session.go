package quiz

import (
	"errors"
	"math/rand"
)

var (
	ErrSessionNotStarted = errors.New("session has no questions loaded")
	ErrSessionFinished   = errors.New("session is not in progress")
)

type SessionState int

const (
	StateAwaitingQuestions SessionState = iota
	StateNoQuestions
	StateInProgress
	StateCompleted
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingQuestions:
		return "awaiting_questions"
	case StateNoQuestions:
		return "no_questions"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session drives one playthrough of a quiz. The question order is shuffled
// once per Load or Restart and never on reads.
type Session struct {
	state     SessionState
	questions []Question
	index     int
	selected  *string
	correct   int

	shuffle func(n int, swap func(i, j int))
}

func NewSession() *Session {
	return &Session{
		state:   StateAwaitingQuestions,
		shuffle: rand.Shuffle,
	}
}

// Load starts the playthrough from a snapshot of the quiz's questions.
func (s *Session) Load(questions []Question) error {
	if s.state != StateAwaitingQuestions {
		return ErrSessionFinished
	}
	s.begin(questions)
	return nil
}

// Restart re-shuffles the given snapshot and resets progress.
func (s *Session) Restart(questions []Question) {
	s.begin(questions)
}

func (s *Session) begin(questions []Question) {
	order := make([]Question, len(questions))
	copy(order, questions)
	s.shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	s.questions = order
	s.index = 0
	s.selected = nil
	s.correct = 0
	if len(order) == 0 {
		s.state = StateNoQuestions
		return
	}
	s.state = StateInProgress
}

// SelectAnswer records the chosen answer text. The last call wins.
func (s *Session) SelectAnswer(text string) error {
	if err := s.requireInProgress(); err != nil {
		return err
	}
	s.selected = &text
	return nil
}

// Advance scores the current question against its answers and moves on.
// The selection matches when its text equals the text of the correct answer;
// advancing with nothing selected counts as wrong.
func (s *Session) Advance(answers []Answer) error {
	if err := s.requireInProgress(); err != nil {
		return err
	}

	if correctText, ok := CorrectAnswerText(answers); ok && s.selected != nil && *s.selected == correctText {
		s.correct++
	}

	if s.index < len(s.questions)-1 {
		s.index++
		s.selected = nil
		return nil
	}
	s.state = StateCompleted
	return nil
}

func (s *Session) requireInProgress() error {
	switch s.state {
	case StateInProgress:
		return nil
	case StateAwaitingQuestions:
		return ErrSessionNotStarted
	default:
		return ErrSessionFinished
	}
}

func (s *Session) State() SessionState {
	return s.state
}

// Current returns the question being answered.
func (s *Session) Current() (Question, bool) {
	if s.state != StateInProgress {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// Selected returns the recorded answer text for the current question.
func (s *Session) Selected() (string, bool) {
	if s.selected == nil {
		return "", false
	}
	return *s.selected, true
}

// Progress returns the zero-based position and the question count.
func (s *Session) Progress() (int, int) {
	return s.index, len(s.questions)
}

func (s *Session) Score() (int, int) {
	return s.correct, len(s.questions)
}

// Order returns the question ids in play order.
func (s *Session) Order() []int64 {
	ids := make([]int64, 0, len(s.questions))
	for _, question := range s.questions {
		ids = append(ids, question.ID)
	}
	return ids
}
