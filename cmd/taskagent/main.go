// Package main implements the taskagent CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskagent",
	Short: "Taskagent - manage tasks by talking to them",
	Long: `Taskagent turns plain-language requests into task operations.

Run without a command to start an interactive chat.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror events to stderr")
}
