package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/taskagent/internal/config"
	"github.com/amonks/taskagent/internal/paths"
	"github.com/amonks/taskagent/internal/ui"
	"github.com/amonks/taskagent/task"
	"github.com/amonks/taskagent/web"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect tasks held by a running server",
	Long: `Inspect tasks held by a running "taskagent serve".

Tasks live in the server's memory; these commands query it over HTTP.`,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, highest priority first",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Args:  cobra.NoArgs,
	RunE:  runTaskStats,
}

var taskEscalateCmd = &cobra.Command{
	Use:   "escalate",
	Short: "Raise open tasks due tomorrow or earlier to high priority",
	Args:  cobra.NoArgs,
	RunE:  runTaskEscalate,
}

var (
	taskAddr         string
	taskJSON         bool
	taskListStatus   statusFlag
	taskListPriority priorityFlag
	taskListAll      bool
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskStatsCmd, taskEscalateCmd)
	taskCmd.PersistentFlags().StringVar(&taskAddr, "addr", "", "Server address (default from [web] addr)")
	taskCmd.PersistentFlags().BoolVar(&taskJSON, "json", false, "Output as JSON")

	taskListCmd.Flags().Var(&taskListStatus, "status", "Filter by status (pending, in_progress, completed, canceled)")
	taskListCmd.Flags().Var(&taskListPriority, "priority", "Filter by priority (low, medium, high)")
	taskListCmd.Flags().BoolVar(&taskListAll, "all", false, "Include completed and canceled tasks")
	addTaskFlagAliases(taskListCmd)
}

func taskClient() (*web.Client, error) {
	addr := taskAddr
	if addr == "" {
		dir, err := paths.WorkingDir()
		if err != nil {
			return nil, err
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return nil, err
		}
		addr = cfg.Web.Addr
	}
	resolved, err := web.ResolveAddr(addr)
	if err != nil {
		return nil, err
	}
	return web.NewClient(resolved), nil
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	client, err := taskClient()
	if err != nil {
		return err
	}
	tasks, err := client.ListTasks(cmd.Context(), taskListStatus.value)
	if err != nil {
		return err
	}
	if !taskListAll && taskListStatus.value == "" {
		tasks = filterOpenTasks(tasks)
	}
	tasks = filterTasksByPriority(tasks, taskListPriority.value)
	task.SortByPriority(tasks)

	if taskJSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		return encodeJSON(cmd.OutOrStdout(), tasks)
	}
	out := cmd.OutOrStdout()
	printTaskTable(out, tasks, ui.NewStyler(out), time.Now())
	return nil
}

func filterOpenTasks(tasks []task.Task) []task.Task {
	filtered := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status.IsOpen() {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func filterTasksByPriority(tasks []task.Task, priority task.Priority) []task.Task {
	if priority == "" {
		return tasks
	}
	filtered := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Priority == priority {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid task id %q", args[0])
	}
	client, err := taskClient()
	if err != nil {
		return err
	}
	found, err := client.ShowTask(cmd.Context(), id)
	if err != nil {
		return err
	}
	if taskJSON {
		return encodeJSON(cmd.OutOrStdout(), found)
	}
	out := cmd.OutOrStdout()
	printTaskDetail(out, found, ui.NewStyler(out), time.Now())
	return nil
}

func runTaskStats(cmd *cobra.Command, _ []string) error {
	client, err := taskClient()
	if err != nil {
		return err
	}
	stats, err := client.Statistics(cmd.Context())
	if err != nil {
		return err
	}
	if taskJSON {
		return encodeJSON(cmd.OutOrStdout(), stats)
	}
	printStatistics(cmd.OutOrStdout(), stats)
	return nil
}

func runTaskEscalate(cmd *cobra.Command, _ []string) error {
	client, err := taskClient()
	if err != nil {
		return err
	}
	escalated, err := client.Escalate(cmd.Context())
	if err != nil {
		return err
	}
	if taskJSON {
		if escalated == nil {
			escalated = []task.Task{}
		}
		return encodeJSON(cmd.OutOrStdout(), escalated)
	}
	out := cmd.OutOrStdout()
	if len(escalated) == 0 {
		fmt.Fprintln(out, "No tasks needed escalation.")
		return nil
	}
	fmt.Fprintf(out, "Escalated %d task(s) to high priority:\n", len(escalated))
	printTaskTable(out, escalated, ui.NewStyler(out), time.Now())
	return nil
}
