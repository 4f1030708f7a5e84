// Package notion mirrors tasks into a Notion database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amonks/taskagent/integration"
	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

const (
	// DefaultBaseURL is the public Notion API.
	DefaultBaseURL = "https://api.notion.com"

	// APIVersion is sent as the Notion-Version header.
	APIVersion = "2022-06-28"

	eventComponent = "notion"
)

var (
	// ErrMissingToken is returned when no integration secret is configured.
	ErrMissingToken = errors.New("notion token is required")

	// ErrMissingDatabase is returned when no database id is configured.
	ErrMissingDatabase = errors.New("notion database id is required")
)

// Options configures a Client.
type Options struct {
	Token      string
	DatabaseID string
	BaseURL    string
	HTTPClient *http.Client
	Events     observe.Logger
}

// Client creates pages in a single Notion database.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	client     *http.Client
	events     observe.Logger
}

// New returns a client for the configured database.
func New(opts Options) (*Client, error) {
	if internalstrings.IsBlank(opts.Token) {
		return nil, ErrMissingToken
	}
	if internalstrings.IsBlank(opts.DatabaseID) {
		return nil, ErrMissingDatabase
	}
	baseURL := internalstrings.TrimTrailingSlash(strings.TrimSpace(opts.BaseURL))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		token:      opts.Token,
		databaseID: strings.TrimSpace(opts.DatabaseID),
		baseURL:    baseURL,
		client:     client,
		events:     opts.Events,
	}, nil
}

type richText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

func textValue(value string) []richText {
	var rt richText
	rt.Text.Content = value
	return []richText{rt}
}

type selectValue struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type pageProperties struct {
	Name struct {
		Title []richText `json:"title"`
	} `json:"Name"`
	Priority struct {
		Select selectValue `json:"select"`
	} `json:"Priority"`
	Status struct {
		Select selectValue `json:"select"`
	} `json:"Status"`
	Due         *dateProperty     `json:"Due,omitempty"`
	Description *richTextProperty `json:"Description,omitempty"`
}

type dateProperty struct {
	Date dateValue `json:"date"`
}

type richTextProperty struct {
	RichText []richText `json:"rich_text"`
}

type createPageRequest struct {
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties pageProperties `json:"properties"`
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func newCreatePageRequest(databaseID string, t task.Task) createPageRequest {
	var req createPageRequest
	req.Parent.DatabaseID = databaseID
	req.Properties.Name.Title = textValue(t.Title)
	req.Properties.Priority.Select = selectValue{Name: string(t.Priority)}
	req.Properties.Status.Select = selectValue{Name: string(t.Status)}
	if t.DueDate != nil {
		req.Properties.Due = &dateProperty{Date: dateValue{Start: t.DueDate.String()}}
	}
	if !internalstrings.IsBlank(t.Description) {
		req.Properties.Description = &richTextProperty{RichText: textValue(t.Description)}
	}
	return req
}

// CreatePage adds t to the database. The result value is the new page id.
func (c *Client) CreatePage(ctx context.Context, t task.Task) integration.Result {
	var page pageResponse
	err := c.do(ctx, http.MethodPost, "/v1/pages", newCreatePageRequest(c.databaseID, t), &page)
	if err != nil {
		observe.Emit(c.events, "notion_page_creation_failed", eventComponent, map[string]any{
			"task_id": t.ID,
			"error":   err.Error(),
		})
		return integration.Failure(err)
	}
	observe.Emit(c.events, "notion_page_created", eventComponent, map[string]any{
		"task_id": t.ID,
		"page_id": page.ID,
	})
	return integration.Success(page.ID)
}

// Database describes the configured database.
type Database struct {
	ID    string
	Title string
	URL   string
}

type databaseResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title []struct {
		PlainText string `json:"plain_text"`
	} `json:"title"`
}

// Check fetches the configured database, confirming the token can reach it.
func (c *Client) Check(ctx context.Context) (Database, error) {
	var response databaseResponse
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+url.PathEscape(c.databaseID), nil, &response); err != nil {
		return Database{}, err
	}
	var title strings.Builder
	for _, part := range response.Title {
		title.WriteString(part.PlainText)
	}
	return Database{ID: response.ID, Title: title.String(), URL: response.URL}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	body := bytes.NewReader(nil)
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode notion response: %w", err)
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return fmt.Errorf("notion error: %s: %s", payload.Code, payload.Message)
	}
	return fmt.Errorf("notion error: %s", resp.Status)
}
