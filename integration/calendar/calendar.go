// Package calendar creates Google Calendar events for tasks with due dates.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amonks/taskagent/integration"
	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

const (
	// DefaultBaseURL is the public Google APIs host.
	DefaultBaseURL = "https://www.googleapis.com"

	// DefaultCalendarID targets the authenticated user's main calendar.
	DefaultCalendarID = "primary"

	// EventDuration is the length of events created for tasks.
	EventDuration = time.Hour

	eventComponent = "calendar_tool"
)

var (
	// ErrMissingToken is returned when no OAuth access token is configured.
	ErrMissingToken = errors.New("calendar access token is required")

	// ErrNoDueDate is returned for tasks that have nothing to schedule.
	ErrNoDueDate = errors.New("task has no due date")
)

// Options configures a Client.
type Options struct {
	// Token is an OAuth access token with the calendar scope.
	Token      string
	CalendarID string
	BaseURL    string
	HTTPClient *http.Client
	Events     observe.Logger
}

// Client inserts events into one calendar.
type Client struct {
	token      string
	calendarID string
	baseURL    string
	client     *http.Client
	events     observe.Logger
}

// New returns a calendar client.
func New(opts Options) (*Client, error) {
	if internalstrings.IsBlank(opts.Token) {
		return nil, ErrMissingToken
	}
	calendarID := strings.TrimSpace(opts.CalendarID)
	if calendarID == "" {
		calendarID = DefaultCalendarID
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
		calendarID: calendarID,
		baseURL:    baseURL,
		client:     client,
		events:     opts.Events,
	}, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventRequest struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
}

type eventResponse struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

func newEventRequest(t task.Task) eventRequest {
	start := t.DueDate.In(time.UTC)
	end := start.Add(EventDuration)
	return eventRequest{
		Summary:     "Task: " + t.Title,
		Description: t.Description,
		Start:       eventTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         eventTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
	}
}

// CreateEvent schedules a one-hour event at the start of the task's due day.
// The result value is the created event id.
func (c *Client) CreateEvent(ctx context.Context, t task.Task) integration.Result {
	if t.DueDate == nil {
		return integration.Failure(ErrNoDueDate)
	}

	created, err := c.insert(ctx, newEventRequest(t))
	if err != nil {
		observe.Emit(c.events, "calendar_event_creation_failed", eventComponent, map[string]any{
			"task_id": t.ID,
			"error":   err.Error(),
		})
		return integration.Failure(err)
	}
	observe.Emit(c.events, "calendar_event_created", eventComponent, map[string]any{
		"task_id":  t.ID,
		"event_id": created.ID,
	})
	return integration.Success(created.ID)
}

func (c *Client) insert(ctx context.Context, event eventRequest) (eventResponse, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return eventResponse{}, err
	}
	endpoint := fmt.Sprintf("%s/calendar/v3/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return eventResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return eventResponse{}, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return eventResponse{}, readErrorResponse(resp)
	}

	var created eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return eventResponse{}, fmt.Errorf("decode calendar response: %w", err)
	}
	return created, nil
}

func readErrorResponse(resp *http.Response) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("calendar error: %s", payload.Error.Message)
	}
	return fmt.Errorf("calendar error: %s", resp.Status)
}
