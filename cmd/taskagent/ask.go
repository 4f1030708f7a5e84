package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	internalstrings "github.com/amonks/taskagent/internal/strings"
	"github.com/amonks/taskagent/web"
)

var askCmd = &cobra.Command{
	Use:   "ask <request>...",
	Short: "Answer one or more requests and exit",
	Long: `Answer one or more requests and exit.

Each argument is a separate request, answered in order against the same
task list. With --addr, requests are sent to a running "taskagent serve"
instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var askAddr string

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askAddr, "addr", "", "Send requests to a taskagent server at this address")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	requests := make([]string, 0, len(args))
	for _, arg := range args {
		if internalstrings.IsBlank(arg) {
			continue
		}
		requests = append(requests, strings.TrimSpace(arg))
	}
	if len(requests) == 0 {
		return fmt.Errorf("request is required")
	}

	out := cmd.OutOrStdout()
	if askAddr != "" {
		client := web.NewClient(askAddr)
		for i, request := range requests {
			reply, err := client.Chat(ctx, request)
			if err != nil {
				return err
			}
			writeReply(out, i, reply)
		}
		return nil
	}

	s, err := openSession(sessionOptions{Stderr: cmd.ErrOrStderr(), Mirror: verbose})
	if err != nil {
		return err
	}
	defer s.Close()

	for _, warning := range s.warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}
	for i, request := range requests {
		s.emit("user_input", map[string]any{"input_length": len(request)})
		reply := s.agent.ProcessRequest(ctx, request)
		s.emit("agent_response", map[string]any{"response_length": len(reply)})
		writeReply(out, i, reply)
	}
	return nil
}
