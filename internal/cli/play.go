package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"quiz-studio/internal/quiz"
)

func (a *App) play(ctx context.Context, raw string) error {
	current, err := a.requireQuiz(ctx, raw)
	if err != nil {
		return err
	}
	questions, err := a.repo.QuestionsForQuiz(ctx, current.ID)
	if err != nil {
		return err
	}

	session := quiz.NewSession()
	if err := session.Load(questions); err != nil {
		return err
	}

	for {
		if session.State() == quiz.StateNoQuestions {
			fmt.Fprintln(a.out, "This quiz has no questions.")
			return nil
		}

		if err := a.playRound(ctx, session); err != nil {
			return err
		}
		if session.State() != quiz.StateCompleted {
			fmt.Fprintln(a.out, "Play stopped.")
			return nil
		}

		correct, total := session.Score()
		fmt.Fprintf(a.out, "\nFinal score: %d/%d\n", correct, total)

		again, ok := a.readLine("Play again? (y/n) ")
		if !ok || !strings.EqualFold(again, "y") {
			return nil
		}
		// Restart picks up edits made since the last load.
		questions, err = a.repo.QuestionsForQuiz(ctx, current.ID)
		if err != nil {
			return err
		}
		session.Restart(questions)
	}
}

// playRound asks questions until the session completes or input runs out.
func (a *App) playRound(ctx context.Context, session *quiz.Session) error {
	for session.State() == quiz.StateInProgress {
		question, _ := session.Current()
		answers, err := a.repo.AnswersForQuestion(ctx, question.ID)
		if err != nil {
			return err
		}

		index, total := session.Progress()
		printQuestion(a.out, index+1, total, question, answers)

		chosen, ok := a.getAnswer(len(answers))
		fmt.Fprintln(a.out)
		if !ok {
			return nil
		}
		if chosen >= 0 {
			if err := session.SelectAnswer(answers[chosen].AnswerText); err != nil {
				return err
			}
		}

		correctText, hasCorrect := quiz.CorrectAnswerText(answers)
		selected, picked := session.Selected()
		switch {
		case hasCorrect && picked && selected == correctText:
			fmt.Fprintln(a.out, "Correct!")
		case hasCorrect:
			fmt.Fprintf(a.out, "Wrong. Correct answer was %s\n", correctText)
		default:
			fmt.Fprintln(a.out, "Wrong.")
		}

		if err := session.Advance(answers); err != nil {
			return err
		}
	}
	return nil
}

func printQuestion(out io.Writer, number, total int, question quiz.Question, answers []quiz.Answer) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d: %s\n\n", number, total, question.QuestionText)
	for idx, answer := range answers {
		fmt.Fprintf(out, "%c. %s\n", 'A'+idx, answer.AnswerText)
	}
	fmt.Fprintln(out)
}

// getAnswer reads a letter choice. It returns -1 with ok=true after
// repeated bad input, which scores as wrong, and ok=false when the player
// quits or input ends.
func (a *App) getAnswer(optionCount int) (int, bool) {
	if optionCount < 1 {
		return -1, true
	}

	maxLetter := byte('A' + optionCount - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		userAnswer, ok := a.readLine("answer: ")
		if !ok {
			return -1, false
		}

		userAnswer = strings.ToUpper(userAnswer)
		if userAnswer == "Q" && maxLetter < 'Q' {
			return -1, false
		}
		if len(userAnswer) == 1 {
			letter := userAnswer[0]
			if letter >= 'A' && letter <= maxLetter {
				return int(letter - 'A'), true
			}
		}

		if attempt < maxAttempts {
			fmt.Fprintf(a.out, "\nInvalid input. Please enter a letter A-%c.\n", maxLetter)
		}
	}

	return -1, true
}
