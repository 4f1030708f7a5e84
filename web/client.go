package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amonks/taskagent/task"
)

// Client calls a running taskagent server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given address or URL.
func NewClient(addr string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{baseURL: baseURL, client: &http.Client{}}
}

// Chat sends one request through the server's agent and returns its reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var response chatResponse
	if err := c.post(ctx, "/chat", chatRequest{Message: message}, &response); err != nil {
		return "", err
	}
	return response.Reply, nil
}

// ListTasks returns the server's tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, status task.Status) ([]task.Task, error) {
	var response tasksListResponse
	if err := c.post(ctx, "/tasks/list", tasksListRequest{Status: status}, &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

// ShowTask returns a single task.
func (c *Client) ShowTask(ctx context.Context, id int64) (task.Task, error) {
	var response tasksShowResponse
	if err := c.post(ctx, "/tasks/show", tasksShowRequest{ID: id}, &response); err != nil {
		return task.Task{}, err
	}
	return response.Task, nil
}

// Statistics returns task counts.
func (c *Client) Statistics(ctx context.Context) (task.Statistics, error) {
	var response tasksStatsResponse
	if err := c.post(ctx, "/tasks/stats", emptyRequest{}, &response); err != nil {
		return task.Statistics{}, err
	}
	return response.Statistics, nil
}

// Escalate runs the due-date sweep and returns the tasks it raised.
func (c *Client) Escalate(ctx context.Context) ([]task.Task, error) {
	var response tasksListResponse
	if err := c.post(ctx, "/tasks/escalate", emptyRequest{}, &response); err != nil {
		return nil, err
	}
	return response.Tasks, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readErrorResponse(resp)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("taskagent error: %s", message)
		}
	}
	return fmt.Errorf("taskagent error: %s", resp.Status)
}
