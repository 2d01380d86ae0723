package quiz

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrBlankQuestionText      = errors.New("question text cannot be empty")
	ErrBlankAnswerText        = errors.New("all answer fields must be filled")
	ErrTooManyAnswers         = errors.New("a question can have at most 10 answers")
	ErrLastAnswer             = errors.New("a question must have at least one answer")
	ErrUnknownAnswer          = errors.New("answer does not belong to question")
	ErrInvalidSlot            = errors.New("answer position out of range")
	ErrMultipleCorrectAnswers = errors.New("question has more than one correct answer")
)

type QuizStore interface {
	InsertQuiz(ctx context.Context, quiz Quiz) (int64, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	GetQuiz(ctx context.Context, quizID int64) (Quiz, bool, error)
	DeleteQuiz(ctx context.Context, quizID int64) error
	ClearAll(ctx context.Context) error
}

type QuestionStore interface {
	InsertQuestion(ctx context.Context, question Question) (int64, error)
	InsertQuestionWithAnswers(ctx context.Context, question Question, answers []Answer) (int64, error)
	ListQuestions(ctx context.Context, quizID int64) ([]Question, error)
	GetQuestion(ctx context.Context, questionID int64) (Question, bool, error)
	UpdateQuestion(ctx context.Context, question Question) error
	DeleteQuestion(ctx context.Context, questionID int64) error
}

type AnswerStore interface {
	InsertAnswer(ctx context.Context, answer Answer) (int64, error)
	UpdateAnswer(ctx context.Context, answer Answer) error
	DeleteAnswer(ctx context.Context, answerID int64) error
	ListAnswers(ctx context.Context, questionID int64) ([]Answer, error)
	// ApplyPlan commits one editor save atomically.
	ApplyPlan(ctx context.Context, plan WritePlan) error
}

type Store interface {
	QuizStore
	QuestionStore
	AnswerStore
}

// Repository is the facade presentation code talks to. It forwards to the
// store and republishes every successful write to live subscribers.
type Repository struct {
	store Store
	feed  *changeFeed
	log   *slog.Logger
}

func NewRepository(store Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		store: store,
		feed:  newChangeFeed(),
		log:   logger,
	}
}

func (r *Repository) InsertQuiz(ctx context.Context, quiz Quiz) (int64, error) {
	id, err := r.store.InsertQuiz(ctx, quiz)
	if err != nil {
		return 0, err
	}
	r.log.Debug("quiz inserted", "quiz_id", id, "name", quiz.Name)
	r.feed.publish(TableQuizzes)
	return id, nil
}

func (r *Repository) AllQuizzes(ctx context.Context) ([]Quiz, error) {
	return r.store.ListQuizzes(ctx)
}

func (r *Repository) WatchAllQuizzes(ctx context.Context) *Live[[]Quiz] {
	return watch(ctx, r.feed, r.log, TableQuizzes, r.store.ListQuizzes)
}

func (r *Repository) QuizByID(ctx context.Context, quizID int64) (Quiz, bool, error) {
	return r.store.GetQuiz(ctx, quizID)
}

func (r *Repository) WatchQuiz(ctx context.Context, quizID int64) *Live[*Quiz] {
	return watch(ctx, r.feed, r.log, TableQuizzes, func(ctx context.Context) (*Quiz, error) {
		quiz, ok, err := r.store.GetQuiz(ctx, quizID)
		if err != nil || !ok {
			return nil, err
		}
		return &quiz, nil
	})
}

// DeleteQuiz removes the quiz together with its questions and answers.
func (r *Repository) DeleteQuiz(ctx context.Context, quiz Quiz) error {
	if err := r.store.DeleteQuiz(ctx, quiz.ID); err != nil {
		return err
	}
	r.log.Debug("quiz deleted", "quiz_id", quiz.ID)
	r.feed.publish(TableQuizzes | TableQuestions | TableAnswers)
	return nil
}

func (r *Repository) InsertQuestion(ctx context.Context, question Question) (int64, error) {
	id, err := r.store.InsertQuestion(ctx, question)
	if err != nil {
		return 0, err
	}
	r.log.Debug("question inserted", "question_id", id, "quiz_id", question.QuizID)
	r.feed.publish(TableQuestions)
	return id, nil
}

// AddQuestion creates a placeholder question with the default answer set.
func (r *Repository) AddQuestion(ctx context.Context, quizID int64) (int64, error) {
	question := Question{QuizID: quizID, QuestionText: NewQuestionText}
	id, err := r.store.InsertQuestionWithAnswers(ctx, question, DefaultAnswers(0))
	if err != nil {
		return 0, err
	}
	r.log.Debug("question added", "question_id", id, "quiz_id", quizID)
	r.feed.publish(TableQuestions | TableAnswers)
	return id, nil
}

func (r *Repository) QuestionsForQuiz(ctx context.Context, quizID int64) ([]Question, error) {
	return r.store.ListQuestions(ctx, quizID)
}

func (r *Repository) WatchQuestionsForQuiz(ctx context.Context, quizID int64) *Live[[]Question] {
	return watch(ctx, r.feed, r.log, TableQuestions, func(ctx context.Context) ([]Question, error) {
		return r.store.ListQuestions(ctx, quizID)
	})
}

func (r *Repository) QuestionByID(ctx context.Context, questionID int64) (Question, bool, error) {
	return r.store.GetQuestion(ctx, questionID)
}

func (r *Repository) WatchQuestion(ctx context.Context, questionID int64) *Live[*Question] {
	return watch(ctx, r.feed, r.log, TableQuestions, func(ctx context.Context) (*Question, error) {
		question, ok, err := r.store.GetQuestion(ctx, questionID)
		if err != nil || !ok {
			return nil, err
		}
		return &question, nil
	})
}

func (r *Repository) UpdateQuestion(ctx context.Context, question Question) error {
	if err := r.store.UpdateQuestion(ctx, question); err != nil {
		return err
	}
	r.log.Debug("question updated", "question_id", question.ID)
	r.feed.publish(TableQuestions)
	return nil
}

// DeleteQuestion removes the question and, by cascade, its answers.
func (r *Repository) DeleteQuestion(ctx context.Context, question Question) error {
	if err := r.store.DeleteQuestion(ctx, question.ID); err != nil {
		return err
	}
	r.log.Debug("question deleted", "question_id", question.ID)
	r.feed.publish(TableQuestions | TableAnswers)
	return nil
}

func (r *Repository) InsertAnswer(ctx context.Context, answer Answer) (int64, error) {
	id, err := r.store.InsertAnswer(ctx, answer)
	if err != nil {
		return 0, err
	}
	r.log.Debug("answer inserted", "answer_id", id, "question_id", answer.QuestionID)
	r.feed.publish(TableAnswers)
	return id, nil
}

func (r *Repository) UpdateAnswer(ctx context.Context, answer Answer) error {
	if err := r.store.UpdateAnswer(ctx, answer); err != nil {
		return err
	}
	r.log.Debug("answer updated", "answer_id", answer.ID)
	r.feed.publish(TableAnswers)
	return nil
}

func (r *Repository) DeleteAnswer(ctx context.Context, answer Answer) error {
	if err := r.store.DeleteAnswer(ctx, answer.ID); err != nil {
		return err
	}
	r.log.Debug("answer deleted", "answer_id", answer.ID)
	r.feed.publish(TableAnswers)
	return nil
}

func (r *Repository) AnswersForQuestion(ctx context.Context, questionID int64) ([]Answer, error) {
	return r.store.ListAnswers(ctx, questionID)
}

func (r *Repository) WatchAnswersForQuestion(ctx context.Context, questionID int64) *Live[[]Answer] {
	return watch(ctx, r.feed, r.log, TableAnswers, func(ctx context.Context) ([]Answer, error) {
		return r.store.ListAnswers(ctx, questionID)
	})
}

func (r *Repository) ApplyPlan(ctx context.Context, plan WritePlan) error {
	if err := r.store.ApplyPlan(ctx, plan); err != nil {
		return err
	}
	r.log.Debug("question saved",
		"question_id", plan.Question.ID,
		"deleted", len(plan.Deletes),
		"updated", len(plan.Updates),
		"inserted", len(plan.Inserts),
	)
	r.feed.publish(TableQuestions | TableAnswers)
	return nil
}

// ClearAll empties answers, then questions, then quizzes.
func (r *Repository) ClearAll(ctx context.Context) error {
	if err := r.store.ClearAll(ctx); err != nil {
		return err
	}
	r.log.Info("store cleared")
	r.feed.publish(TableQuizzes | TableQuestions | TableAnswers)
	return nil
}
