package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/amonks/taskagent/agent"
	"github.com/amonks/taskagent/extract"
	"github.com/amonks/taskagent/integration/calendar"
	"github.com/amonks/taskagent/integration/notion"
	"github.com/amonks/taskagent/internal/config"
	"github.com/amonks/taskagent/internal/paths"
	"github.com/amonks/taskagent/llm"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

const cliComponent = "cli"

const missingKeyWarning = "Warning: GEMINI_API_KEY is not set. Requests will run without the language model, so new tasks are created as \"Untitled Task\" and duplicate removal is unavailable."

// session holds everything one CLI invocation needs to answer requests.
type session struct {
	cfg     *config.Config
	secrets config.Secrets
	events  *observe.Log
	store   *task.Store
	agent   *agent.Agent

	// integrations names the enabled external services for the banner.
	integrations []string

	// warnings are shown to the user before the first request.
	warnings []string
}

type sessionOptions struct {
	// Stderr receives mirrored events when mirror is true.
	Stderr io.Writer
	Mirror bool
}

func openSession(opts sessionOptions) (*session, error) {
	dir, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	secrets, err := config.LoadSecrets(dir)
	if err != nil {
		return nil, err
	}

	eventsPath, err := cfg.EventsPath()
	if err != nil {
		return nil, err
	}
	var logger *slog.Logger
	if opts.Mirror && opts.Stderr != nil {
		logger = slog.New(slog.NewTextHandler(opts.Stderr, nil))
	}
	events, err := observe.Open(eventsPath, observe.Options{Logger: logger})
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		secrets: secrets,
		events:  events,
		store:   task.NewStore(task.StoreOptions{Events: events}),
	}

	agentOpts := agent.Options{
		Store:   s.store,
		Prompts: extract.Prompts{OverrideDir: cfg.Prompts.Dir},
		Polish:  cfg.LLM.Polish,
		Events:  events,
	}

	completer, err := s.newCompleter()
	if err != nil {
		s.Close()
		return nil, err
	}
	if completer != nil {
		agentOpts.Completer = completer
		agentOpts.Model = completer.Model()
		s.integrations = append(s.integrations, "Gemini ("+completer.Model()+")")
	} else {
		s.warnings = append(s.warnings, missingKeyWarning)
	}

	if notes := s.newNotes(); notes != nil {
		agentOpts.Notes = notes
		s.integrations = append(s.integrations, "Notion")
	}
	if cal := s.newCalendar(); cal != nil {
		agentOpts.Calendar = cal
		s.integrations = append(s.integrations, "Google Calendar")
	}

	s.agent = agent.New(agentOpts)
	return s, nil
}

// newCompleter returns nil when no API key is configured.
func (s *session) newCompleter() (*llm.Gemini, error) {
	if s.secrets.GeminiAPIKey == "" {
		return nil, nil
	}
	timeout, err := s.cfg.LLM.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	gemini, err := llm.NewGemini(llm.GeminiOptions{
		APIKey:  s.secrets.GeminiAPIKey,
		Model:   s.cfg.LLM.Model,
		BaseURL: s.cfg.LLM.BaseURL,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("configure language model: %w", err)
	}
	return gemini, nil
}

// newNotes returns nil unless both a token and a database id are configured.
func (s *session) newNotes() *notion.Client {
	client, err := s.notionClient()
	if err != nil {
		return nil
	}
	return client
}

func (s *session) notionClient() (*notion.Client, error) {
	return notion.New(notion.Options{
		Token:      s.secrets.NotionToken,
		DatabaseID: s.cfg.NotionDatabaseID(s.secrets),
		BaseURL:    s.cfg.Notion.BaseURL,
		Events:     s.events,
	})
}

// newCalendar returns nil unless a calendar token is configured.
func (s *session) newCalendar() *calendar.Client {
	client, err := calendar.New(calendar.Options{
		Token:      s.secrets.CalendarToken,
		CalendarID: s.cfg.Calendar.CalendarID,
		BaseURL:    s.cfg.Calendar.BaseURL,
		Events:     s.events,
	})
	if err != nil {
		return nil
	}
	return client
}

func (s *session) emit(event string, data map[string]any) {
	observe.Emit(s.events, event, cliComponent, data)
}

func (s *session) Close() error {
	if s == nil {
		return nil
	}
	return s.events.Close()
}
