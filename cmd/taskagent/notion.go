package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Manage the Notion integration",
}

var notionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Notion token can read the configured database",
	Args:  cobra.NoArgs,
	RunE:  runNotionCheck,
}

func init() {
	rootCmd.AddCommand(notionCmd)
	notionCmd.AddCommand(notionCheckCmd)
}

func runNotionCheck(cmd *cobra.Command, _ []string) error {
	s, err := openSession(sessionOptions{Stderr: cmd.ErrOrStderr(), Mirror: verbose})
	if err != nil {
		return err
	}
	defer s.Close()

	client, err := s.notionClient()
	if err != nil {
		return err
	}
	database, err := client.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("notion database check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Connected to Notion database.")
	fmt.Fprintf(out, "ID:    %s\n", database.ID)
	if database.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", database.Title)
	}
	if database.URL != "" {
		fmt.Fprintf(out, "URL:   %s\n", database.URL)
	}
	return nil
}
