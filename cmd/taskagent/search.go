package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/taskagent/integration/search"
	"github.com/amonks/taskagent/internal/config"
	"github.com/amonks/taskagent/internal/paths"
	"github.com/amonks/taskagent/observe"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the web (simulated results)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var (
	searchMax  int
	searchJSON bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", search.DefaultMaxResults, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	events, err := openEventLog()
	if err != nil {
		return err
	}
	defer events.Close()

	results, err := search.Searcher{Events: events}.Search(cmd.Context(), query, searchMax)
	if err != nil {
		return err
	}
	if searchJSON {
		return encodeJSON(cmd.OutOrStdout(), results)
	}
	out := cmd.OutOrStdout()
	for i, result := range results {
		fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, result.Title, result.Link)
	}
	return nil
}

// openEventLog opens the configured event log for commands that need no agent.
func openEventLog() (*observe.Log, error) {
	dir, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	path, err := cfg.EventsPath()
	if err != nil {
		return nil, err
	}
	return observe.Open(path, observe.Options{})
}
