package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"quiz-studio/internal/quiz"
)

const (
	maxAttempts = 3
	prompt      = "quiz> "
)

var errQuit = errors.New("quit")

type App struct {
	repo   *quiz.Repository
	reader *bufio.Reader
	out    io.Writer
	log    *slog.Logger
}

func NewApp(repo *quiz.Repository, in io.Reader, out io.Writer, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		repo:   repo,
		reader: bufio.NewReader(in),
		out:    out,
		log:    logger,
	}
}

// Run reads commands until quit or end of input.
func Run(ctx context.Context, repo *quiz.Repository, in io.Reader, out io.Writer, logger *slog.Logger) error {
	return NewApp(repo, in, out, logger).Run(ctx)
}

func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Quiz studio. Type 'help' for commands.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok := a.readLine(prompt)
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}

		err := a.dispatch(ctx, line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			if cause := ctx.Err(); cause != nil {
				return cause
			}
			a.log.Debug("command failed", "command", line, "err", err)
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "help", "?":
		a.printHelp()
		return nil
	case "quit", "exit":
		return errQuit
	case "list":
		return a.listQuizzes(ctx)
	case "show":
		return a.showQuiz(ctx, rest)
	case "new":
		return a.newQuiz(ctx, rest)
	case "delete":
		return a.deleteQuiz(ctx, rest)
	case "add-question":
		return a.addQuestion(ctx, rest)
	case "remove-question":
		return a.removeQuestion(ctx, rest)
	case "play":
		return a.play(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Commands:
  list                     list quizzes
  show <quiz>              show a quiz and its questions
  new <name>               create a quiz
  delete <quiz>            delete a quiz with its questions and answers
  add-question <quiz>      add a question with default answers
  remove-question <q>      delete a question and its answers
  play <quiz>              play a quiz
  edit <q>                 edit a question and its answers
  quit                     leave`)
}

func (a *App) listQuizzes(ctx context.Context) error {
	quizzes, err := a.repo.AllQuizzes(ctx)
	if err != nil {
		return err
	}
	if len(quizzes) == 0 {
		fmt.Fprintln(a.out, "No quizzes.")
		return nil
	}
	for _, q := range quizzes {
		fmt.Fprintf(a.out, "%d. %s\n", q.ID, q.Name)
	}
	return nil
}

func (a *App) showQuiz(ctx context.Context, raw string) error {
	current, err := a.requireQuiz(ctx, raw)
	if err != nil {
		return err
	}
	questions, err := a.repo.QuestionsForQuiz(ctx, current.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", current.Name)
	if current.Description != "" {
		fmt.Fprintf(a.out, "%s\n", current.Description)
	}
	if current.ImagePath != "" {
		fmt.Fprintf(a.out, "image: %s\n", current.ImagePath)
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "No questions.")
		return nil
	}
	for _, question := range questions {
		fmt.Fprintf(a.out, "  [%d] %s\n", question.ID, question.QuestionText)
	}
	return nil
}

func (a *App) newQuiz(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("usage: new <name>")
	}
	description, _ := a.readLine("description: ")
	id, err := a.repo.InsertQuiz(ctx, quiz.Quiz{Name: name, Description: description})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created quiz %d.\n", id)
	return nil
}

func (a *App) deleteQuiz(ctx context.Context, raw string) error {
	current, err := a.requireQuiz(ctx, raw)
	if err != nil {
		return err
	}
	if err := a.repo.DeleteQuiz(ctx, current); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", current.Name)
	return nil
}

func (a *App) addQuestion(ctx context.Context, raw string) error {
	current, err := a.requireQuiz(ctx, raw)
	if err != nil {
		return err
	}
	id, err := a.repo.AddQuestion(ctx, current.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added question %d.\n", id)
	return nil
}

func (a *App) removeQuestion(ctx context.Context, raw string) error {
	question, err := a.requireQuestion(ctx, raw)
	if err != nil {
		return err
	}
	if err := a.repo.DeleteQuestion(ctx, question); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed question %d.\n", question.ID)
	return nil
}

func (a *App) requireQuiz(ctx context.Context, raw string) (quiz.Quiz, error) {
	current, ok, err := a.repo.QuizByID(ctx, quiz.ParseID(raw))
	if err != nil {
		return quiz.Quiz{}, err
	}
	if !ok {
		return quiz.Quiz{}, fmt.Errorf("no quiz %q", raw)
	}
	return current, nil
}

func (a *App) requireQuestion(ctx context.Context, raw string) (quiz.Question, error) {
	question, ok, err := a.repo.QuestionByID(ctx, quiz.ParseID(raw))
	if err != nil {
		return quiz.Question{}, err
	}
	if !ok {
		return quiz.Question{}, fmt.Errorf("no question %q", raw)
	}
	return question, nil
}

// readLine prints label and returns the next trimmed line; ok is false at
// end of input.
func (a *App) readLine(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
