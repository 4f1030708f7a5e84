package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/taskagent/extract"
	"github.com/amonks/taskagent/internal/config"
	"github.com/amonks/taskagent/internal/paths"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Show prompt templates and their variables",
	Args:  cobra.NoArgs,
	RunE:  runHelpPrompts,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpPromptsCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpPrompts(cmd *cobra.Command, _ []string) error {
	dir, err := paths.WorkingDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	prompts := extract.Prompts{OverrideDir: cfg.Prompts.Dir}

	var builder strings.Builder
	for i, template := range extract.DefaultTemplateInfo() {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "%s\n", template.Name)
		override := prompts.OverridePath(template.Name)
		if override == "" {
			override = "(set [prompts] dir to override)"
		}
		fmt.Fprintf(&builder, "  Override: %s\n", override)
		builder.WriteString("  Variables:\n")
		for _, variable := range template.Variables {
			fmt.Fprintf(&builder, "    - %s (%s)\n", variable.Name, variable.Type)
		}
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
