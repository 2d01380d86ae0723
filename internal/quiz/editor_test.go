package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWritePlanReplacesRemovedRow(t *testing.T) {
	question := Question{ID: 7, QuizID: 1, QuestionText: "Q"}
	original := []Answer{
		{ID: 1, QuestionID: 7, AnswerText: "a", IsCorrect: true},
		{ID: 2, QuestionID: 7, AnswerText: "b", IsCorrect: false},
	}

	editor := NewEditSession(question, original)
	require.NoError(t, editor.SetAnswerText(0, "x"))
	require.NoError(t, editor.RemoveAnswer(1))
	require.NoError(t, editor.AddAnswer())
	require.NoError(t, editor.SetAnswerText(1, "y"))
	require.NoError(t, editor.SelectCorrect(1))

	plan, err := editor.Plan()
	require.NoError(t, err)

	assert.Equal(t, []Answer{{ID: 1, QuestionID: 7, AnswerText: "x", IsCorrect: false}}, plan.Updates)
	assert.Equal(t, []Answer{{ID: 2, QuestionID: 7, AnswerText: "b", IsCorrect: false}}, plan.Deletes)
	assert.Equal(t, []Answer{{QuestionID: 7, AnswerText: "y", IsCorrect: true}}, plan.Inserts)
	assert.Equal(t, "Q", plan.Question.QuestionText)
}

func TestBuildWritePlanUnchangedEditUpdatesInPlace(t *testing.T) {
	question := Question{ID: 3, QuizID: 1, QuestionText: "Q"}
	original := []Answer{
		{ID: 10, QuestionID: 3, AnswerText: "a"},
		{ID: 11, QuestionID: 3, AnswerText: "b", IsCorrect: true},
	}

	plan, err := NewEditSession(question, original).Plan()
	require.NoError(t, err)

	assert.Empty(t, plan.Deletes)
	assert.Empty(t, plan.Inserts)
	assert.Equal(t, original, plan.Updates)
}

func TestBuildWritePlanRejectsBlankText(t *testing.T) {
	question := Question{ID: 3, QuizID: 1, QuestionText: "Q"}
	original := []Answer{{ID: 10, QuestionID: 3, AnswerText: "a", IsCorrect: true}}

	tests := []struct {
		name         string
		questionText string
		slots        []AnswerSlot
		wantErr      error
	}{
		{
			name:         "blank question",
			questionText: "   ",
			slots:        []AnswerSlot{{OriginalID: 10, Text: "a"}},
			wantErr:      ErrBlankQuestionText,
		},
		{
			name:         "blank answer",
			questionText: "Q",
			slots:        []AnswerSlot{{OriginalID: 10, Text: "a"}, {Text: " "}},
			wantErr:      ErrBlankAnswerText,
		},
		{
			name:         "no answers left",
			questionText: "Q",
			slots:        nil,
			wantErr:      ErrLastAnswer,
		},
		{
			name:         "unknown answer id",
			questionText: "Q",
			slots:        []AnswerSlot{{OriginalID: 99, Text: "a"}},
			wantErr:      ErrUnknownAnswer,
		},
		{
			name:         "duplicated answer id",
			questionText: "Q",
			slots:        []AnswerSlot{{OriginalID: 10, Text: "a"}, {OriginalID: 10, Text: "b"}},
			wantErr:      ErrUnknownAnswer,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := BuildWritePlan(question, tc.questionText, original, tc.slots, 0)
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, plan.Empty(), "rejected save must produce zero writes")
		})
	}
}

func TestBuildWritePlanRejectsTooManySlots(t *testing.T) {
	slots := make([]AnswerSlot, MaxAnswers+1)
	for idx := range slots {
		slots[idx].Text = "t"
	}

	_, err := BuildWritePlan(Question{ID: 1, QuestionText: "Q"}, "Q", nil, slots, 0)
	assert.ErrorIs(t, err, ErrTooManyAnswers)
}

func TestEditSessionCapsAnswersAtTen(t *testing.T) {
	editor := NewEditSession(Question{ID: 1, QuestionText: "Q"}, nil)
	for idx := 0; idx < MaxAnswers; idx++ {
		require.NoError(t, editor.AddAnswer())
	}

	assert.ErrorIs(t, editor.AddAnswer(), ErrTooManyAnswers)
	assert.Len(t, editor.Slots(), MaxAnswers)
}

func TestEditSessionKeepsLastAnswer(t *testing.T) {
	editor := NewEditSession(Question{ID: 1, QuestionText: "Q"}, []Answer{{ID: 5, QuestionID: 1, AnswerText: "only"}})

	assert.ErrorIs(t, editor.RemoveAnswer(0), ErrLastAnswer)
	assert.ErrorIs(t, editor.RemoveAnswer(3), ErrInvalidSlot)
	assert.Len(t, editor.Slots(), 1)
}

func TestEditSessionCorrectIndexFollowsRemoval(t *testing.T) {
	original := []Answer{
		{ID: 1, QuestionID: 1, AnswerText: "a"},
		{ID: 2, QuestionID: 1, AnswerText: "b"},
		{ID: 3, QuestionID: 1, AnswerText: "c", IsCorrect: true},
	}

	editor := NewEditSession(Question{ID: 1, QuestionText: "Q"}, original)
	require.Equal(t, 2, editor.CorrectIndex())

	require.NoError(t, editor.RemoveAnswer(0))
	assert.Equal(t, 1, editor.CorrectIndex())

	require.NoError(t, editor.RemoveAnswer(1))
	assert.Equal(t, -1, editor.CorrectIndex())

	plan, err := editor.Plan()
	require.NoError(t, err)
	for _, answer := range plan.Updates {
		assert.False(t, answer.IsCorrect)
	}
}

func TestEditSessionIgnoresLaterSnapshots(t *testing.T) {
	original := []Answer{{ID: 1, QuestionID: 1, AnswerText: "a", IsCorrect: true}}
	editor := NewEditSession(Question{ID: 1, QuestionText: "Q"}, original)

	original[0].AnswerText = "mutated by caller"

	slots := editor.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "a", slots[0].Text)
}

func TestParseID(t *testing.T) {
	assert.Equal(t, int64(12), ParseID("12"))
	assert.Equal(t, int64(12), ParseID(" 12 "))
	assert.Equal(t, int64(0), ParseID("abc"))
	assert.Equal(t, int64(0), ParseID("-4"))
	assert.Equal(t, int64(0), ParseID(""))
}
