package quiz

import (
	"context"
	"strings"
)

// AnswerSlot is one row of the editor. OriginalID is zero for rows added
// during the edit.
type AnswerSlot struct {
	OriginalID int64  `json:"id,omitempty"`
	Text       string `json:"text"`
}

// WritePlan is the set of store writes that moves a question's persisted
// answers to the edited state. Stores apply Deletes, then Updates, then
// Inserts, together with the question text update, in one transaction.
type WritePlan struct {
	Question Question
	Deletes  []Answer
	Updates  []Answer
	Inserts  []Answer
}

func (p WritePlan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Updates) == 0 && len(p.Inserts) == 0
}

// BuildWritePlan diffs the edited slots against the original rows. Identity
// comes only from a slot's OriginalID; text and position never match rows.
func BuildWritePlan(question Question, questionText string, original []Answer, slots []AnswerSlot, correctIndex int) (WritePlan, error) {
	if strings.TrimSpace(questionText) == "" {
		return WritePlan{}, ErrBlankQuestionText
	}
	for _, slot := range slots {
		if strings.TrimSpace(slot.Text) == "" {
			return WritePlan{}, ErrBlankAnswerText
		}
	}
	if len(slots) == 0 {
		return WritePlan{}, ErrLastAnswer
	}
	if len(slots) > MaxAnswers {
		return WritePlan{}, ErrTooManyAnswers
	}

	originalByID := make(map[int64]Answer, len(original))
	for _, answer := range original {
		originalByID[answer.ID] = answer
	}

	question.QuestionText = questionText
	plan := WritePlan{Question: question}

	kept := make(map[int64]bool, len(slots))
	for idx, slot := range slots {
		isCorrect := idx == correctIndex
		if slot.OriginalID == 0 {
			plan.Inserts = append(plan.Inserts, Answer{
				QuestionID: question.ID,
				AnswerText: slot.Text,
				IsCorrect:  isCorrect,
			})
			continue
		}

		prior, ok := originalByID[slot.OriginalID]
		if !ok || kept[slot.OriginalID] {
			return WritePlan{}, ErrUnknownAnswer
		}
		kept[slot.OriginalID] = true
		prior.AnswerText = slot.Text
		prior.IsCorrect = isCorrect
		plan.Updates = append(plan.Updates, prior)
	}

	for _, answer := range original {
		if !kept[answer.ID] {
			plan.Deletes = append(plan.Deletes, answer)
		}
	}

	return plan, nil
}

// EditSession is the in-memory state of the question editor. It is built
// from one snapshot and is not touched by later snapshots.
type EditSession struct {
	question     Question
	questionText string
	original     []Answer
	slots        []AnswerSlot
	correct      int
}

func NewEditSession(question Question, answers []Answer) *EditSession {
	original := make([]Answer, len(answers))
	copy(original, answers)

	slots := make([]AnswerSlot, 0, len(answers))
	correct := -1
	for idx, answer := range answers {
		slots = append(slots, AnswerSlot{OriginalID: answer.ID, Text: answer.AnswerText})
		if answer.IsCorrect && correct < 0 {
			correct = idx
		}
	}

	return &EditSession{
		question:     question,
		questionText: question.QuestionText,
		original:     original,
		slots:        slots,
		correct:      correct,
	}
}

func (e *EditSession) Question() Question {
	return e.question
}

func (e *EditSession) QuestionText() string {
	return e.questionText
}

func (e *EditSession) SetQuestionText(text string) {
	e.questionText = text
}

func (e *EditSession) Slots() []AnswerSlot {
	out := make([]AnswerSlot, len(e.slots))
	copy(out, e.slots)
	return out
}

// CorrectIndex is the selected slot, or -1 when none is selected.
func (e *EditSession) CorrectIndex() int {
	return e.correct
}

func (e *EditSession) SetAnswerText(idx int, text string) error {
	if idx < 0 || idx >= len(e.slots) {
		return ErrInvalidSlot
	}
	e.slots[idx].Text = text
	return nil
}

// AddAnswer appends an empty row.
func (e *EditSession) AddAnswer() error {
	if len(e.slots) >= MaxAnswers {
		return ErrTooManyAnswers
	}
	e.slots = append(e.slots, AnswerSlot{})
	return nil
}

func (e *EditSession) RemoveAnswer(idx int) error {
	if idx < 0 || idx >= len(e.slots) {
		return ErrInvalidSlot
	}
	if len(e.slots) <= 1 {
		return ErrLastAnswer
	}

	e.slots = append(e.slots[:idx], e.slots[idx+1:]...)
	switch {
	case idx == e.correct:
		e.correct = -1
	case idx < e.correct:
		e.correct--
	}
	return nil
}

func (e *EditSession) SelectCorrect(idx int) error {
	if idx < 0 || idx >= len(e.slots) {
		return ErrInvalidSlot
	}
	e.correct = idx
	return nil
}

func (e *EditSession) Plan() (WritePlan, error) {
	return BuildWritePlan(e.question, e.questionText, e.original, e.slots, e.correct)
}

// Save validates the edit and commits it in one store transaction.
func (e *EditSession) Save(ctx context.Context, repo *Repository) error {
	plan, err := e.Plan()
	if err != nil {
		return err
	}
	return repo.ApplyPlan(ctx, plan)
}
