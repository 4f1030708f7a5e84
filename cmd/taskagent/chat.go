package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/taskagent/internal/ui"
)

const appTitle = "Task Agent"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func isExitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, err := openSession(sessionOptions{Stderr: cmd.ErrOrStderr(), Mirror: verbose})
	if err != nil {
		return err
	}
	defer s.Close()

	console := ui.NewConsole(cmd.OutOrStdout())
	console.Banner(appTitle, s.integrations)
	for _, warning := range s.warnings {
		console.Warn(warning)
	}
	console.Info("Type your request, or 'exit' to quit.")
	s.emit("application_started", map[string]any{"integrations": s.integrations})

	reason, err := chatLoop(ctx, s, console, cmd.InOrStdin())
	if err != nil {
		s.emit("runtime_error", map[string]any{"error": err.Error()})
	}
	s.emit("application_exit", map[string]any{"reason": reason})
	console.Info("Goodbye!")
	return err
}

// chatLoop answers lines from in until exit, EOF, or interrupt, and reports
// which of those ended the session.
func chatLoop(ctx context.Context, s *session, console *ui.Console, in io.Reader) (string, error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		console.Prompt()
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return "interrupt", nil
		case line, ok = <-lines:
		}
		if !ok {
			if err := <-scanErr; err != nil && !errors.Is(err, io.EOF) {
				return "error", err
			}
			return "eof", nil
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if isExitCommand(text) {
			return "exit", nil
		}

		s.emit("user_input", map[string]any{"input_length": len(text)})
		reply := s.agent.ProcessRequest(ctx, text)
		s.emit("agent_response", map[string]any{"response_length": len(reply)})
		console.Reply(reply)

		if ctx.Err() != nil {
			return "interrupt", nil
		}
	}
}
