package agent

import (
	"fmt"
	"strings"

	"github.com/amonks/taskagent/task"
)

const (
	untitledTask = "Untitled Task"

	msgNoTasks          = "No tasks found."
	msgTaskNotFound     = "Task not found. Please check the ID or title."
	msgNotEnoughToDedup = "Not enough tasks to check for duplicates."
	msgNoDuplicates     = "No duplicates found."

	msgHelp = "I understand your request, but I'm not sure how to handle it. Try:\n" +
		"- Creating a task\n" +
		"- Listing tasks\n" +
		"- Updating a task\n" +
		"- Deleting a task\n" +
		"- Getting statistics"
)

func formatCreated(t task.Task) string {
	lines := []string{
		"Task created successfully!",
		fmt.Sprintf("ID: %d", t.ID),
		"Title: " + t.Title,
		"Priority: " + string(t.Priority),
		"Status: " + string(t.Status),
	}
	if t.DueDate != nil {
		lines = append(lines, "Due: "+t.DueDate.String())
	}
	return strings.Join(lines, "\n")
}

func formatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return msgNoTasks
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d task(s):\n\n", len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(&b, "• ID %d: %s (%s, %s priority)\n", t.ID, t.Title, t.Status, t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(&b, "  Due: %s\n", t.DueDate)
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", t.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatUpdated(t task.Task) string {
	return fmt.Sprintf("Task %d updated successfully!\nTitle: %s\nStatus: %s\nPriority: %s",
		t.ID, t.Title, t.Status, t.Priority)
}

func formatDeleted(id int64) string {
	return fmt.Sprintf("Task %d deleted successfully!", id)
}

func formatStatistics(stats task.Statistics) string {
	return fmt.Sprintf(`Task Statistics:
• Total Tasks: %d
• Pending: %d
• In Progress: %d
• Completed: %d
• High Priority: %d
• Medium Priority: %d
• Low Priority: %d`,
		stats.Total,
		stats.Pending,
		stats.InProgress,
		stats.Completed,
		stats.HighPriority,
		stats.MediumPriority,
		stats.LowPriority,
	)
}

func formatRemoved(removed, kept task.Task) string {
	return fmt.Sprintf("Removed '%s' (duplicate of '%s')", removed.Title, kept.Title)
}

func formatDedupeReport(report []string) string {
	if len(report) == 0 {
		return msgNoDuplicates
	}
	return fmt.Sprintf("Removed %d duplicates:\n%s", len(report), strings.Join(report, "\n"))
}
