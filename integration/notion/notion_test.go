package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

func TestCreatePage(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/pages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if version := r.Header.Get("Notion-Version"); version != APIVersion {
			t.Errorf("unexpected version %q", version)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		io.WriteString(w, `{"id":"page-1","url":"https://notion.so/page-1"}`)
	}))
	defer server.Close()

	events := &observe.Recorder{}
	client, err := New(Options{Token: "secret", DatabaseID: "db-1", BaseURL: server.URL, Events: events})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	due := task.Date{Year: 2025, Month: time.March, Day: 11}
	result := client.CreatePage(context.Background(), task.Task{
		ID:       4,
		Title:    "Dentist",
		Priority: task.PriorityHigh,
		Status:   task.StatusPending,
		DueDate:  &due,
	})
	if !result.OK() || result.Value != "page-1" {
		t.Fatalf("unexpected result %+v", result)
	}

	parent := got["parent"].(map[string]any)
	if parent["database_id"] != "db-1" {
		t.Errorf("unexpected parent %v", parent)
	}
	props := got["properties"].(map[string]any)
	title := props["Name"].(map[string]any)["title"].([]any)[0].(map[string]any)["text"].(map[string]any)["content"]
	if title != "Dentist" {
		t.Errorf("unexpected title %v", title)
	}
	if start := props["Due"].(map[string]any)["date"].(map[string]any)["start"]; start != "2025-03-11" {
		t.Errorf("unexpected due %v", start)
	}
	if _, ok := props["Description"]; ok {
		t.Error("expected empty description to be omitted")
	}
	if names := events.Names(); len(names) != 1 || names[0] != "notion_page_created" {
		t.Errorf("unexpected events %v", names)
	}
}

func TestCreatePageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"object":"error","code":"unauthorized","message":"API token is invalid."}`)
	}))
	defer server.Close()

	client, err := New(Options{Token: "bad", DatabaseID: "db", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	result := client.CreatePage(context.Background(), task.Task{ID: 1, Title: "x"})
	if result.OK() {
		t.Fatal("expected failure")
	}
	if want := "notion error: unauthorized: API token is invalid."; result.Err.Error() != want {
		t.Errorf("expected %q, got %q", want, result.Err.Error())
	}
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/databases/db-9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"id":"db-9","url":"https://notion.so/db-9","title":[{"plain_text":"My "},{"plain_text":"Tasks"}]}`)
	}))
	defer server.Close()

	client, err := New(Options{Token: "t", DatabaseID: "db-9", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	db, err := client.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if db.Title != "My Tasks" || db.ID != "db-9" {
		t.Errorf("unexpected database %+v", db)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Options{DatabaseID: "db"}); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
	if _, err := New(Options{Token: "t"}); !errors.Is(err, ErrMissingDatabase) {
		t.Errorf("expected ErrMissingDatabase, got %v", err)
	}
}
