// Package client is a small HTTP client for the homework helper API, used by
// helperctl.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/homework-helper/internal/models"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout covers a full chat turn, which waits on the model provider
const DefaultTimeout = 2 * time.Minute

// Client talks to a running server
type Client struct {
	http *resty.Client
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	ErrorType  string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d %s: %s", e.StatusCode, e.ErrorType, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// AddHomeworkRequest is the body of POST /api/v1/homework
type AddHomeworkRequest struct {
	Text     string `json:"text"`
	DueDate  string `json:"dueDate,omitempty"`
	Category string `json:"category,omitempty"`
}

// ChatHistory is the transcript plus the busy flag
type ChatHistory struct {
	Messages []models.ChatMessage `json:"messages"`
	Busy     bool                 `json:"busy"`
}

type chatReply struct {
	Reply models.ChatMessage `json:"reply"`
}

// New creates a client for baseURL; a non-positive timeout uses DefaultTimeout
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "helperctl/1.0").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: httpClient}
}

// ListHomework returns every item in insertion order
func (c *Client) ListHomework(ctx context.Context) ([]models.HomeworkItem, error) {
	var out envelope[[]models.HomeworkItem]
	if err := c.do(ctx, "GET", "/api/v1/homework", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddHomework creates an item
func (c *Client) AddHomework(ctx context.Context, req AddHomeworkRequest) (models.HomeworkItem, error) {
	var out envelope[models.HomeworkItem]
	err := c.do(ctx, "POST", "/api/v1/homework", req, &out)
	return out.Data, err
}

// ToggleHomework flips the completed flag of id
func (c *Client) ToggleHomework(ctx context.Context, id int64) (models.HomeworkItem, error) {
	var out envelope[models.HomeworkItem]
	err := c.do(ctx, "POST", "/api/v1/homework/"+strconv.FormatInt(id, 10)+"/toggle", nil, &out)
	return out.Data, err
}

// DeleteHomework removes id
func (c *Client) DeleteHomework(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", "/api/v1/homework/"+strconv.FormatInt(id, 10), nil, nil)
}

// Stats returns pending and completed counts
func (c *Client) Stats(ctx context.Context) (models.HomeworkStats, error) {
	var out envelope[models.HomeworkStats]
	err := c.do(ctx, "GET", "/api/v1/homework/stats", nil, &out)
	return out.Data, err
}

// Greeting asks the server for the opening chat message
func (c *Client) Greeting(ctx context.Context) (models.ChatMessage, error) {
	var out envelope[chatReply]
	err := c.do(ctx, "POST", "/api/v1/chat/greeting", nil, &out)
	return out.Data.Reply, err
}

// SendMessage runs one chat turn and returns the model's reply
func (c *Client) SendMessage(ctx context.Context, message string) (models.ChatMessage, error) {
	var out envelope[chatReply]
	err := c.do(ctx, "POST", "/api/v1/chat/messages", map[string]string{"message": message}, &out)
	return out.Data.Reply, err
}

// History returns the chat transcript
func (c *Client) History(ctx context.Context) (ChatHistory, error) {
	var out envelope[ChatHistory]
	err := c.do(ctx, "GET", "/api/v1/chat/messages", nil, &out)
	return out.Data, err
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	apiErr := &APIError{}
	req := c.http.R().
		SetContext(ctx).
		SetError(apiErr)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	return nil
}
