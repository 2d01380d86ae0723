package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-studio/internal/quiz"
	"quiz-studio/internal/quiz/sqlite"
)

type testEnv struct {
	repo    *quiz.Repository
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	require.NoError(t, store.ClearAll(context.Background()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := quiz.NewRepository(store, logger)
	return &testEnv{repo: repo, handler: NewRouter(repo, logger)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// seedQuestion creates a quiz with one defaulted question and returns both ids.
func (e *testEnv) seedQuestion(t *testing.T, name string) (int64, int64) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/quizzes", createQuizRequest{Name: name, Description: "d"})
	require.Equal(t, http.StatusCreated, rec.Code)
	quizID := decodeBody[createdResponse](t, rec).ID

	rec = e.do(t, http.MethodPost, "/quizzes/"+itoa(quizID)+"/questions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return quizID, decodeBody[createdResponse](t, rec).ID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestCreateAndListQuizzes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/quizzes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"quizzes":[]}`, rec.Body.String())

	for _, name := range []string{"Zeta", "Alpha"} {
		rec = env.do(t, http.MethodPost, "/quizzes", createQuizRequest{Name: name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/quizzes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[quizzesResponse](t, rec)
	require.Len(t, got.Quizzes, 2)
	assert.Equal(t, "Alpha", got.Quizzes[0].Name)
	assert.Equal(t, "Zeta", got.Quizzes[1].Name)
}

func TestCreateQuizRequiresName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/quizzes", createQuizRequest{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/quizzes", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST, DELETE", rec.Header().Get("Allow"))
}

func TestUnknownQuizIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/quizzes/999", "/quizzes/abc", "/quizzes/999/questions"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestAddQuestionCreatesDefaults(t *testing.T) {
	env := newTestEnv(t)
	_, questionID := env.seedQuestion(t, "Defaults")

	rec := env.do(t, http.MethodGet, "/questions/"+itoa(questionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[questionDetailResponse](t, rec)

	assert.Equal(t, quiz.NewQuestionText, got.Question.QuestionText)
	require.Len(t, got.Answers, 3)
	assert.Equal(t, "a", got.Answers[0].AnswerText)
	assert.True(t, got.Answers[0].IsCorrect)
	assert.False(t, got.Answers[1].IsCorrect)
	assert.False(t, got.Answers[2].IsCorrect)
}

func TestSaveQuestionAppliesPlan(t *testing.T) {
	env := newTestEnv(t)
	_, questionID := env.seedQuestion(t, "Save")

	detail := decodeBody[questionDetailResponse](t, env.do(t, http.MethodGet, "/questions/"+itoa(questionID), nil))
	first, second := detail.Answers[0], detail.Answers[1]

	// Keep "a" renamed, drop "b" and "c", append a new correct row.
	rec := env.do(t, http.MethodPut, "/questions/"+itoa(questionID), saveQuestionRequest{
		QuestionText: "What is 2+2?",
		Answers: []quiz.AnswerSlot{
			{OriginalID: first.ID, Text: "three"},
			{Text: "four"},
		},
		CorrectIndex: 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[questionDetailResponse](t, rec)

	assert.Equal(t, "What is 2+2?", got.Question.QuestionText)
	require.Len(t, got.Answers, 2)
	assert.Equal(t, first.ID, got.Answers[0].ID)
	assert.Equal(t, "three", got.Answers[0].AnswerText)
	assert.False(t, got.Answers[0].IsCorrect)
	assert.Equal(t, "four", got.Answers[1].AnswerText)
	assert.True(t, got.Answers[1].IsCorrect)
	for _, answer := range got.Answers {
		assert.NotEqual(t, second.ID, answer.ID)
	}
}

func TestSaveQuestionWithBlankAnswerWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	_, questionID := env.seedQuestion(t, "Blank")

	before := env.do(t, http.MethodGet, "/questions/"+itoa(questionID), nil).Body.String()
	detail := decodeBody[questionDetailResponse](t, env.do(t, http.MethodGet, "/questions/"+itoa(questionID), nil))

	rec := env.do(t, http.MethodPut, "/questions/"+itoa(questionID), saveQuestionRequest{
		QuestionText: "Changed",
		Answers: []quiz.AnswerSlot{
			{OriginalID: detail.Answers[0].ID, Text: "a"},
			{OriginalID: detail.Answers[1].ID, Text: "   "},
		},
		CorrectIndex: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	after := env.do(t, http.MethodGet, "/questions/"+itoa(questionID), nil).Body.String()
	assert.JSONEq(t, before, after)
}

func TestSaveQuestionKeepsAtLeastOneAnswer(t *testing.T) {
	env := newTestEnv(t)
	_, questionID := env.seedQuestion(t, "Last")

	rec := env.do(t, http.MethodPut, "/questions/"+itoa(questionID), map[string]any{
		"question_text": "Still here",
		"answers":       []any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	answers, err := env.repo.AnswersForQuestion(context.Background(), questionID)
	require.NoError(t, err)
	assert.Len(t, answers, 3)

	question, ok, err := env.repo.QuestionByID(context.Background(), questionID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, quiz.NewQuestionText, question.QuestionText)
}

func TestSaveQuestionRejectsOutOfRangeCorrectIndex(t *testing.T) {
	env := newTestEnv(t)
	_, questionID := env.seedQuestion(t, "Range")

	rec := env.do(t, http.MethodPut, "/questions/"+itoa(questionID), saveQuestionRequest{
		QuestionText: "Q",
		Answers:      []quiz.AnswerSlot{{Text: "only"}},
		CorrectIndex: 4,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteQuizCascades(t *testing.T) {
	env := newTestEnv(t)
	quizID, questionID := env.seedQuestion(t, "Cascade")

	rec := env.do(t, http.MethodDelete, "/quizzes/"+itoa(quizID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/questions/"+itoa(questionID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	answers, err := env.repo.AnswersForQuestion(context.Background(), questionID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestDeleteQuestion(t *testing.T) {
	env := newTestEnv(t)
	quizID, questionID := env.seedQuestion(t, "Remove")

	rec := env.do(t, http.MethodDelete, "/questions/"+itoa(questionID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/quizzes/"+itoa(quizID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[quizDetailResponse](t, rec).Questions)
}

func TestClearAll(t *testing.T) {
	env := newTestEnv(t)
	env.seedQuestion(t, "One")
	env.seedQuestion(t, "Two")

	rec := env.do(t, http.MethodDelete, "/quizzes", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got := decodeBody[quizzesResponse](t, env.do(t, http.MethodGet, "/quizzes", nil))
	assert.Empty(t, got.Quizzes)
}

func TestPlayThroughScoresCorrectAnswer(t *testing.T) {
	env := newTestEnv(t)
	quizID, _ := env.seedQuestion(t, "Play")

	rec := env.do(t, http.MethodPost, "/quizzes/"+itoa(quizID)+"/plays", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	started := decodeBody[playResponse](t, rec)
	assert.Equal(t, quiz.StateInProgress.String(), started.State)
	assert.Equal(t, 1, started.Total)
	require.NotNil(t, started.Question)
	require.Len(t, started.Question.Answers, 3)
	assert.NotContains(t, rec.Body.String(), "is_correct")

	rec = env.do(t, http.MethodPost, "/plays/"+started.PlayID+"/select", selectAnswerRequest{AnswerText: "b"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/plays/"+started.PlayID+"/select", selectAnswerRequest{AnswerText: "a"})
	require.Equal(t, http.StatusOK, rec.Code)
	selected := decodeBody[playResponse](t, rec)
	require.NotNil(t, selected.Selected)
	assert.Equal(t, "a", *selected.Selected)

	rec = env.do(t, http.MethodPost, "/plays/"+started.PlayID+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decodeBody[playResponse](t, rec)
	assert.Equal(t, quiz.StateCompleted.String(), done.State)
	assert.Equal(t, 1, done.Correct)
	assert.Nil(t, done.Question)

	rec = env.do(t, http.MethodPost, "/plays/"+started.PlayID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/plays/"+started.PlayID+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restarted := decodeBody[playResponse](t, rec)
	assert.Equal(t, quiz.StateInProgress.String(), restarted.State)
	assert.Equal(t, 0, restarted.Correct)
}

func TestPlayOfEmptyQuiz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/quizzes", createQuizRequest{Name: "Empty"})
	require.Equal(t, http.StatusCreated, rec.Code)
	quizID := decodeBody[createdResponse](t, rec).ID

	rec = env.do(t, http.MethodPost, "/quizzes/"+itoa(quizID)+"/plays", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeBody[playResponse](t, rec)
	assert.Equal(t, quiz.StateNoQuestions.String(), got.State)
	assert.Zero(t, got.Total)
}

func TestUnknownPlay(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/plays/not-a-uuid", "/plays/6f1c1e2a-3a1d-4f7e-9a55-2b1f7d1c2e10"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
