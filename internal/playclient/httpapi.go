package playclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"quiz-studio/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type quizzesResponse struct {
	Quizzes []quiz.Quiz `json:"quizzes"`
}

type PlayAnswer struct {
	ID         int64  `json:"id"`
	AnswerText string `json:"answer_text"`
}

type PlayQuestion struct {
	ID           int64        `json:"id"`
	QuestionText string       `json:"question_text"`
	Answers      []PlayAnswer `json:"answers"`
}

// Play mirrors the service's view of one server-side session.
type Play struct {
	PlayID   string        `json:"play_id"`
	QuizID   int64         `json:"quiz_id"`
	State    string        `json:"state"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Selected *string       `json:"selected,omitempty"`
	Question *PlayQuestion `json:"question,omitempty"`
}

type selectAnswerRequest struct {
	AnswerText string `json:"answer_text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	var payload quizzesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) StartPlay(ctx context.Context, quizID int64) (Play, error) {
	var play Play
	path := "/quizzes/" + strconv.FormatInt(quizID, 10) + "/plays"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &play); err != nil {
		return Play{}, err
	}
	return play, nil
}

func (c *HTTPClient) SelectAnswer(ctx context.Context, playID, answerText string) (Play, error) {
	return c.playAction(ctx, playID, "select", selectAnswerRequest{AnswerText: answerText})
}

func (c *HTTPClient) Advance(ctx context.Context, playID string) (Play, error) {
	return c.playAction(ctx, playID, "advance", nil)
}

func (c *HTTPClient) Restart(ctx context.Context, playID string) (Play, error) {
	return c.playAction(ctx, playID, "restart", nil)
}

func (c *HTTPClient) playAction(ctx context.Context, playID, action string, requestBody any) (Play, error) {
	if strings.TrimSpace(playID) == "" {
		return Play{}, errors.New("play_id is required")
	}

	var play Play
	path := "/plays/" + url.PathEscape(playID) + "/" + action
	if err := c.doJSON(ctx, http.MethodPost, path, requestBody, &play); err != nil {
		return Play{}, err
	}
	return play, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
