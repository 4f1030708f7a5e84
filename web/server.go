// Package web serves the browser chat, the task board, and the JSON RPCs
// used by the taskagent CLI.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

const (
	eventComponent  = "web"
	shutdownTimeout = 5 * time.Second
)

// DefaultPort is used when an address names no port.
const DefaultPort = 8501

// Agent answers chat requests.
type Agent interface {
	ProcessRequest(ctx context.Context, text string) string
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Agent Agent
	Store *task.Store

	// Logger receives request failures and lifecycle lines.
	Logger *log.Logger
	Events observe.Logger
	Now    func() time.Time
}

// Server owns the HTTP surface for one agent session.
type Server struct {
	agent  Agent
	store  *task.Store
	logger *log.Logger
	events observe.Logger
	now    func() time.Time

	templates *templateWrapper
	upgrader  websocket.Upgrader

	mu         sync.Mutex
	transcript []chatMessage
	boardDraft *boardDraft
}

// NewServer creates a server for the given agent and store.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("task store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "taskagent: ", log.LstdFlags)
	}
	events := opts.Events
	if events == nil {
		events = observe.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		agent:     opts.Agent,
		store:     opts.Store,
		logger:    logger,
		events:    events,
		now:       now,
		templates: newTemplateWrapper(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  socketBufferSize,
			WriteBufferSize: socketBufferSize,
		},
	}, nil
}

// Handler returns the HTTP handler for the web client and RPCs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/tasks/list", s.handleTasksList)
	mux.HandleFunc("/tasks/show", s.handleTasksShow)
	mux.HandleFunc("/tasks/stats", s.handleTasksStats)
	mux.HandleFunc("/tasks/escalate", s.handleTasksEscalate)
	mux.HandleFunc("/ws", s.handleSocket)
	mux.HandleFunc("/web/chat", s.handleChatPage)
	mux.HandleFunc("/web/chat/send", s.handleChatSend)
	mux.HandleFunc("/web/board", s.handleBoard)
	mux.HandleFunc("/web/board/update", s.handleBoardUpdate)
	mux.HandleFunc("/web/board/cancel", s.handleBoardCancel)
	mux.HandleFunc("/web/board/dedupe", s.handleBoardDedupe)
	mux.Handle("/web", http.RedirectHandler("/web/chat", http.StatusFound))
	mux.Handle("/{$}", http.RedirectHandler("/web/chat", http.StatusFound))
	return mux
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logf("listening on http://%s/web/chat", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		s.logf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return group.Wait()
}

// ResolveAddr normalizes a listen address. A bare port binds to localhost.
func ResolveAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return fmt.Sprintf("127.0.0.1:%d", DefaultPort), nil
	}
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

// converse runs one chat turn and records it in the transcript.
func (s *Server) converse(r *http.Request, message string) string {
	observe.Emit(s.events, "user_input", eventComponent, map[string]any{
		"input_length": len(message),
		"transport":    transportName(r),
	})
	reply := s.agent.ProcessRequest(r.Context(), message)
	observe.Emit(s.events, "agent_response", eventComponent, map[string]any{
		"response_length": len(reply),
	})

	s.mu.Lock()
	s.transcript = append(s.transcript,
		chatMessage{Role: roleUser, Text: message},
		chatMessage{Role: roleAssistant, Text: reply},
	)
	s.mu.Unlock()
	return reply
}

func (s *Server) messages() []chatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chatMessage(nil), s.transcript...)
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func transportName(r *http.Request) string {
	switch r.URL.Path {
	case "/ws":
		return "websocket"
	case "/chat":
		return "json"
	default:
		return "form"
	}
}
