package playclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quiz-studio/internal/quiz"
)

const (
	defaultServer            = "http://127.0.0.1:8080"
	defaultHTTPTimeout       = 5 * time.Second
	defaultMaxInvalidAnswers = 3
)

type Config struct {
	ServerURL         string
	MaxInvalidAnswers int
	HTTPTimeout       time.Duration
	// HTTPClient overrides the client built from HTTPTimeout.
	HTTPClient *http.Client
}

// Run plays quizzes hosted by a running quiz-service.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	client := NewHTTPClient(serverURL, httpClient)
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "quiz-player\nserver=%s\n\n", serverURL)
	printCommands(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printCommands(out)
		case "exit", "quit":
			return nil
		case "quizzes":
			if err := runList(ctx, out, client, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "play":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: play <quiz_id>")
				continue
			}
			quizID := quiz.ParseID(args[1])
			if quizID == 0 {
				fmt.Fprintln(out, "quiz_id must be a positive integer")
				continue
			}
			if err := runPlay(ctx, reader, out, client, quizID, maxInvalidAnswers, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runList(ctx context.Context, out io.Writer, client *HTTPClient, serverURL string) error {
	quizzes, err := client.ListQuizzes(ctx)
	if err != nil {
		return serverError(err, serverURL)
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes.")
		return nil
	}

	fmt.Fprintln(out, "Quizzes:")
	for _, item := range quizzes {
		if item.Description == "" {
			fmt.Fprintf(out, "%d. %s\n", item.ID, item.Name)
			continue
		}
		fmt.Fprintf(out, "%d. %s - %s\n", item.ID, item.Name, item.Description)
	}
	return nil
}

func runPlay(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, quizID int64, maxInvalidAnswers int, serverURL string) error {
	play, err := client.StartPlay(ctx, quizID)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			fmt.Fprintf(out, "quiz %d not found.\n", quizID)
			return nil
		}
		return serverError(err, serverURL)
	}

	for {
		if play.State == quiz.StateNoQuestions.String() {
			fmt.Fprintln(out, "This quiz has no questions.")
			return nil
		}

		play, err = playQuestions(ctx, reader, out, client, play, maxInvalidAnswers)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return serverError(err, serverURL)
		}

		fmt.Fprintf(out, "\nScore: %d/%d\n", play.Correct, play.Total)

		again, err := confirm(reader, out, "Play again?")
		if err != nil || !again {
			return nil
		}
		play, err = client.Restart(ctx, play.PlayID)
		if err != nil {
			return serverError(err, serverURL)
		}
	}
}

// playQuestions answers every question of a running play. Questions skipped
// after repeated invalid input advance with no selection and score as wrong.
// When input ends the play is left where it is and io.EOF is returned.
func playQuestions(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, play Play, maxInvalidAnswers int) (Play, error) {
	for play.State == quiz.StateInProgress.String() && play.Question != nil {
		question := play.Question
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Q%d/%d: %s\n\n", play.Index+1, play.Total, question.QuestionText)
		for idx, answer := range question.Answers {
			fmt.Fprintf(out, "%c. %s\n", 'A'+idx, answer.AnswerText)
		}
		fmt.Fprintln(out)

		invalidCount := 0
		for {
			choice, ok, err := readAnswer(reader, out, len(question.Answers))
			if err != nil {
				fmt.Fprintln(out)
				return play, err
			}
			if ok {
				play, err = client.SelectAnswer(ctx, play.PlayID, question.Answers[choice].AnswerText)
				if err != nil {
					return Play{}, err
				}
				break
			}
			invalidCount++
			if invalidCount >= maxInvalidAnswers {
				fmt.Fprintln(out, "Skipping question after multiple invalid responses.")
				break
			}
			fmt.Fprintf(out, "Invalid input. Attempts remaining: %d\n", maxInvalidAnswers-invalidCount)
		}

		before := play.Correct
		var err error
		play, err = client.Advance(ctx, play.PlayID)
		if err != nil {
			return Play{}, err
		}
		if play.Correct > before {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintln(out, "Wrong.")
		}
	}
	return play, nil
}
