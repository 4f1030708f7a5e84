package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/amonks/taskagent/internal/age"
	"github.com/amonks/taskagent/internal/markdown"
	"github.com/amonks/taskagent/internal/ui"
	"github.com/amonks/taskagent/task"
)

const taskDetailLineWidth = 80

func formatTaskTable(tasks []task.Task, styler ui.Styler, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRI", "STATUS", "DUE", "TITLE"}, len(tasks))
	for _, t := range tasks {
		builder.AddRow(
			strconv.FormatInt(t.ID, 10),
			styler.Priority(t.Priority),
			styler.Status(t.Status),
			formatTaskDue(t, now),
			ui.TruncateTableCell(t.Title),
		)
	}
	return builder.String()
}

// formatTaskDue shows the due date with its countdown for open tasks.
func formatTaskDue(t task.Task, now time.Time) string {
	if t.DueDate == nil {
		return "-"
	}
	if !t.Status.IsOpen() {
		return t.DueDate.String()
	}
	return t.DueDate.String() + " (" + ui.DueCountdown(*t.DueDate, now).Label + ")"
}

func printTaskTable(w io.Writer, tasks []task.Task, styler ui.Styler, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	fmt.Fprint(w, formatTaskTable(tasks, styler, now))
}

func printTaskDetail(w io.Writer, t task.Task, styler ui.Styler, now time.Time) {
	fmt.Fprintf(w, "ID:       %d\n", t.ID)
	fmt.Fprintf(w, "Title:    %s\n", t.Title)
	fmt.Fprintf(w, "Status:   %s\n", styler.Status(t.Status))
	fmt.Fprintf(w, "Priority: %s\n", styler.Priority(t.Priority))
	fmt.Fprintf(w, "Due:      %s\n", formatTaskDue(t, now))
	fmt.Fprintf(w, "Created:  %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	if t.CompletedAt != nil {
		fmt.Fprintf(w, "Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if elapsed, ok := age.Of(t.CreatedAt, t.CompletedAt, t.Status.IsOpen(), now); ok {
		fmt.Fprintf(w, "Age:      %s\n", ui.FormatDuration(elapsed))
	}
	if t.Description != "" {
		fmt.Fprintf(w, "\nDescription:\n%s\n", formatTaskDescription(t.Description, styler.Color()))
	}
}

func formatTaskDescription(value string, color bool) string {
	rendered := markdown.Render(value, markdown.Options{Width: taskDetailLineWidth, Indent: 2, Color: color})
	if rendered == "" {
		return ui.IndentBlock(ui.WrapText(value, taskDetailLineWidth-2), 2)
	}
	return rendered
}

func printStatistics(w io.Writer, stats task.Statistics) {
	fmt.Fprint(w, ui.FormatTable([]string{"METRIC", "COUNT"}, [][]string{
		{"total", strconv.Itoa(stats.Total)},
		{"pending", strconv.Itoa(stats.Pending)},
		{"in_progress", strconv.Itoa(stats.InProgress)},
		{"completed", strconv.Itoa(stats.Completed)},
		{"high_priority", strconv.Itoa(stats.HighPriority)},
		{"medium_priority", strconv.Itoa(stats.MediumPriority)},
		{"low_priority", strconv.Itoa(stats.LowPriority)},
	}))
}
