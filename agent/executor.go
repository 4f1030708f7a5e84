package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/taskagent/extract"
	"github.com/amonks/taskagent/intent"
	"github.com/amonks/taskagent/llm"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

// Executor performs classified requests against the task store.
type Executor struct {
	Store *task.Store

	// Completer groups duplicates. Without one, duplicate removal reports an error.
	Completer llm.Completer
	Prompts   extract.Prompts

	// Notes and Calendar are optional; nil skips the integration.
	Notes    NoteDatabase
	Calendar Calendar

	Events observe.Logger
	Now    func() time.Time
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Execute runs category with the extracted fields and returns the text to
// show the user. Failures are reported in the returned text.
func (e *Executor) Execute(ctx context.Context, category intent.Category, fields extract.Fields, request string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = e.failed(category, fmt.Errorf("%v", r))
		}
	}()

	var err error
	switch category {
	case intent.CategoryCreate:
		result, err = e.create(ctx, fields)
	case intent.CategoryList:
		result = e.list(fields, request)
	case intent.CategoryUpdate:
		result, err = e.update(fields)
	case intent.CategoryDelete:
		result = e.delete(fields)
	case intent.CategoryStatistics:
		result = formatStatistics(e.Store.Statistics())
	case intent.CategoryDuplicateRemoval:
		result = e.removeDuplicates(ctx)
	default:
		result = msgHelp
	}
	if err != nil {
		return e.failed(category, err)
	}
	return result
}

func (e *Executor) failed(category intent.Category, err error) string {
	observe.Emit(e.Events, "action_execution_failed", eventComponent, map[string]any{
		"action": string(category),
		"error":  err.Error(),
	})
	return "Error executing action: " + err.Error()
}

func (e *Executor) create(ctx context.Context, fields extract.Fields) (string, error) {
	title := fields.Title
	if title == "" {
		title = untitledTask
	}
	opts := task.CreateOptions{
		Description: fields.Description,
		Priority:    task.PriorityOrDefault(fields.Priority),
	}

	var notes []string
	if fields.DueDate != "" {
		due, err := task.ParseDate(fields.DueDate)
		if err != nil {
			notes = append(notes, fmt.Sprintf("Warning: ignored due date %q (expected YYYY-MM-DD)", fields.DueDate))
		} else {
			opts.DueDate = &due
			if days := due.DaysFrom(e.now()); days >= 0 && days < 1 {
				opts.Priority = task.PriorityHigh
			}
		}
	}

	created := e.Store.Create(title, opts)

	if created.DueDate != nil && e.Calendar != nil {
		if res := e.Calendar.CreateEvent(ctx, created); res.OK() {
			notes = append(notes, "Calendar event created: "+res.Value)
		} else {
			notes = append(notes, "Warning: could not create calendar event: "+res.Err.Error())
		}
	}
	if e.Notes != nil {
		if res := e.Notes.CreatePage(ctx, created); res.OK() {
			notes = append(notes, "Saved to note database: "+res.Value)
		} else {
			notes = append(notes, "Warning: could not save to note database: "+res.Err.Error())
		}
	}

	message := formatCreated(created)
	if len(notes) > 0 {
		message += "\n\n" + strings.Join(notes, "\n")
	}
	return message, nil
}

func (e *Executor) list(fields extract.Fields, request string) string {
	var filter task.ListFilter
	if fields.Status != "" {
		if status, err := task.ParseStatus(fields.Status); err == nil {
			filter.Status = status
		}
	}
	if filter.Status == "" {
		filter.Status = statusMentioned(request)
	}
	return formatTaskList(e.Store.List(filter))
}

// statusMentioned finds a status named in free text, checking the most
// specific phrasings first.
func statusMentioned(text string) task.Status {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "in progress"), strings.Contains(lower, "in_progress"), strings.Contains(lower, "in-progress"):
		return task.StatusInProgress
	case strings.Contains(lower, "pending"):
		return task.StatusPending
	case strings.Contains(lower, "completed"):
		return task.StatusCompleted
	case strings.Contains(lower, "canceled"), strings.Contains(lower, "cancelled"):
		return task.StatusCanceled
	default:
		return ""
	}
}

// resolve finds the target of an update or delete: by id when one was
// extracted, otherwise by case-insensitive exact title.
func (e *Executor) resolve(fields extract.Fields) (task.Task, bool) {
	if fields.TaskID > 0 {
		return e.Store.Get(fields.TaskID)
	}
	if fields.Title != "" {
		return task.FindByTitle(e.Store.List(task.ListFilter{}), fields.Title)
	}
	return task.Task{}, false
}

func (e *Executor) update(fields extract.Fields) (string, error) {
	target, ok := e.resolve(fields)
	if !ok {
		return msgTaskNotFound, nil
	}

	opts := task.UpdateOptions{
		Title:       fields.Title,
		Description: fields.Description,
	}
	if fields.Status != "" {
		status, err := task.ParseStatus(fields.Status)
		if err != nil {
			return "", err
		}
		opts.Status = status
	}
	if fields.Priority != "" {
		priority, err := task.ParsePriority(fields.Priority)
		if err != nil {
			return "", err
		}
		opts.Priority = priority
	}
	if fields.DueDate != "" {
		due, err := task.ParseDate(fields.DueDate)
		if err != nil {
			return "", err
		}
		opts.DueDate = &due
	}

	updated, ok := e.Store.Update(target.ID, opts)
	if !ok {
		return "", fmt.Errorf("%w: %d", task.ErrTaskNotFound, target.ID)
	}
	return formatUpdated(updated), nil
}

func (e *Executor) delete(fields extract.Fields) string {
	target, ok := e.resolve(fields)
	if !ok || !e.Store.Delete(target.ID) {
		return msgTaskNotFound
	}
	return formatDeleted(target.ID)
}

var errNoCompleter = errors.New("language model not configured")
