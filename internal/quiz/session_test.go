package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions(n int) []Question {
	questions := make([]Question, 0, n)
	for idx := 1; idx <= n; idx++ {
		questions = append(questions, Question{ID: int64(idx), QuizID: 1, QuestionText: "Q"})
	}
	return questions
}

func answersWithCorrect(questionID int64, correct string, others ...string) []Answer {
	answers := []Answer{{ID: questionID * 10, QuestionID: questionID, AnswerText: correct, IsCorrect: true}}
	for idx, text := range others {
		answers = append(answers, Answer{ID: questionID*10 + int64(idx) + 1, QuestionID: questionID, AnswerText: text})
	}
	return answers
}

func TestSessionRequiresExactlyNAdvances(t *testing.T) {
	session := NewSession()
	require.NoError(t, session.Load(sampleQuestions(4)))

	for step := 0; step < 4; step++ {
		require.Equal(t, StateInProgress, session.State(), "step %d", step)
		index, total := session.Progress()
		assert.Equal(t, step, index)
		assert.Equal(t, 4, total)

		current, ok := session.Current()
		require.True(t, ok)
		require.NoError(t, session.SelectAnswer("right"))
		require.NoError(t, session.Advance(answersWithCorrect(current.ID, "right", "wrong")))
	}

	assert.Equal(t, StateCompleted, session.State())
	correct, total := session.Score()
	assert.Equal(t, 4, correct)
	assert.Equal(t, 4, total)

	assert.ErrorIs(t, session.Advance(nil), ErrSessionFinished)
	assert.ErrorIs(t, session.SelectAnswer("right"), ErrSessionFinished)
}

func TestSessionScoresByAnswerText(t *testing.T) {
	session := NewSession()
	require.NoError(t, session.Load(sampleQuestions(3)))

	// wrong, no selection, then right after changing the selection
	current, _ := session.Current()
	require.NoError(t, session.SelectAnswer("wrong"))
	require.NoError(t, session.Advance(answersWithCorrect(current.ID, "right", "wrong")))

	current, _ = session.Current()
	_, selected := session.Selected()
	assert.False(t, selected, "selection must be cleared after advancing")
	require.NoError(t, session.Advance(answersWithCorrect(current.ID, "right", "wrong")))

	current, _ = session.Current()
	require.NoError(t, session.SelectAnswer("wrong"))
	require.NoError(t, session.SelectAnswer("right"))
	require.NoError(t, session.Advance(answersWithCorrect(current.ID, "right", "wrong")))

	correct, total := session.Score()
	assert.Equal(t, 1, correct)
	assert.Equal(t, 3, total)
	assert.Equal(t, StateCompleted, session.State())
}

func TestSessionQuestionWithoutCorrectAnswerNeverScores(t *testing.T) {
	session := NewSession()
	require.NoError(t, session.Load(sampleQuestions(1)))

	require.NoError(t, session.SelectAnswer(""))
	require.NoError(t, session.Advance([]Answer{{ID: 1, AnswerText: ""}}))

	correct, _ := session.Score()
	assert.Equal(t, 0, correct)
}

func TestCorrectAnswerText(t *testing.T) {
	text, ok := CorrectAnswerText(answersWithCorrect(1, "right", "wrong", "also wrong"))
	assert.True(t, ok)
	assert.Equal(t, "right", text)

	_, ok = CorrectAnswerText([]Answer{{ID: 1, AnswerText: "a"}, {ID: 2, AnswerText: "b"}})
	assert.False(t, ok)

	_, ok = CorrectAnswerText(nil)
	assert.False(t, ok)
}

func TestSessionEmptyQuizIsNoQuestions(t *testing.T) {
	session := NewSession()
	assert.Equal(t, StateAwaitingQuestions, session.State())
	assert.ErrorIs(t, session.Advance(nil), ErrSessionNotStarted)

	require.NoError(t, session.Load(nil))
	assert.Equal(t, StateNoQuestions, session.State())
	assert.NotEqual(t, StateCompleted, session.State())

	_, ok := session.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, session.Advance(nil), ErrSessionFinished)
}

func TestSessionLoadOnlyOnce(t *testing.T) {
	session := NewSession()
	require.NoError(t, session.Load(sampleQuestions(2)))
	assert.ErrorIs(t, session.Load(sampleQuestions(5)), ErrSessionFinished)

	_, total := session.Progress()
	assert.Equal(t, 2, total)
}

func TestSessionOrderIsPermutation(t *testing.T) {
	session := NewSession()
	require.NoError(t, session.Load(sampleQuestions(6)))

	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6}, session.Order())
}

func TestSessionShufflesOncePerPlay(t *testing.T) {
	session := NewSession()
	shuffles := 0
	session.shuffle = func(n int, swap func(i, j int)) {
		shuffles++
		if n > 1 {
			swap(0, n-1)
		}
	}

	require.NoError(t, session.Load(sampleQuestions(3)))
	assert.Equal(t, []int64{3, 2, 1}, session.Order())

	session.Current()
	session.Progress()
	session.Order()
	assert.Equal(t, 1, shuffles, "reads must not reshuffle")

	current, _ := session.Current()
	require.NoError(t, session.Advance(answersWithCorrect(current.ID, "x")))
	assert.Equal(t, 1, shuffles)
}

func TestSessionRestartResetsProgress(t *testing.T) {
	session := NewSession()
	questions := sampleQuestions(2)
	require.NoError(t, session.Load(questions))

	for session.State() == StateInProgress {
		current, _ := session.Current()
		require.NoError(t, session.SelectAnswer("x"))
		require.NoError(t, session.Advance(answersWithCorrect(current.ID, "x")))
	}
	correct, _ := session.Score()
	require.Equal(t, 2, correct)

	session.Restart(append(questions, Question{ID: 3, QuizID: 1}))

	assert.Equal(t, StateInProgress, session.State())
	index, total := session.Progress()
	assert.Equal(t, 0, index)
	assert.Equal(t, 3, total)
	correct, _ = session.Score()
	assert.Equal(t, 0, correct)
	_, selected := session.Selected()
	assert.False(t, selected)
}
