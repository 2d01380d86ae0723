package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quiz-studio/internal/quiz"
)

const editPrompt = "edit> "

// edit runs the question editor. Nothing is written until save; cancel or
// end of input drops the changes.
func (a *App) edit(ctx context.Context, raw string) error {
	question, err := a.requireQuestion(ctx, raw)
	if err != nil {
		return err
	}
	answers, err := a.repo.AnswersForQuestion(ctx, question.ID)
	if err != nil {
		return err
	}

	session := quiz.NewEditSession(question, answers)
	a.printEditor(session)

	for {
		line, ok := a.readLine(editPrompt)
		if !ok {
			fmt.Fprintln(a.out, "Edit discarded.")
			return nil
		}
		if line == "" {
			continue
		}

		done, err := a.editCommand(ctx, session, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		if done {
			return nil
		}
	}
}

func (a *App) editCommand(ctx context.Context, session *quiz.EditSession, line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "text":
		session.SetQuestionText(rest)
	case "answer":
		rawSlot, text, _ := strings.Cut(rest, " ")
		idx, err := slotIndex(rawSlot)
		if err != nil {
			return false, err
		}
		if err := session.SetAnswerText(idx, strings.TrimSpace(text)); err != nil {
			return false, err
		}
	case "add":
		if err := session.AddAnswer(); err != nil {
			return false, err
		}
	case "remove":
		idx, err := slotIndex(rest)
		if err != nil {
			return false, err
		}
		if err := session.RemoveAnswer(idx); err != nil {
			return false, err
		}
	case "correct":
		idx, err := slotIndex(rest)
		if err != nil {
			return false, err
		}
		if err := session.SelectCorrect(idx); err != nil {
			return false, err
		}
	case "show":
	case "save":
		if err := session.Save(ctx, a.repo); err != nil {
			return false, err
		}
		fmt.Fprintln(a.out, "Saved.")
		return true, nil
	case "cancel":
		fmt.Fprintln(a.out, "Edit discarded.")
		return true, nil
	case "help", "?":
		a.printEditHelp()
		return false, nil
	default:
		return false, fmt.Errorf("unknown edit command %q", name)
	}

	a.printEditor(session)
	return false, nil
}

func (a *App) printEditor(session *quiz.EditSession) {
	fmt.Fprintf(a.out, "Question: %s\n", session.QuestionText())
	correct := session.CorrectIndex()
	for idx, slot := range session.Slots() {
		marker := " "
		if idx == correct {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s %d. %s\n", marker, idx+1, slot.Text)
	}
}

func (a *App) printEditHelp() {
	fmt.Fprintln(a.out, `Edit commands:
  text <question text>     change the question text
  answer <n> <text>        change answer n
  add                      append an empty answer
  remove <n>               remove answer n
  correct <n>              mark answer n as the correct one
  show                     print the current edit
  save                     write all changes
  cancel                   discard all changes`)
}

// slotIndex turns a 1-based row number into a slot index.
func slotIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, errors.New("answer number must be a positive integer")
	}
	return n - 1, nil
}
