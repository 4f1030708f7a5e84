package agent

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/amonks/taskagent/extract"
	"github.com/amonks/taskagent/observe"
	"github.com/amonks/taskagent/task"
)

type dedupeCandidate struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// duplicateGroup is one kept task and the tasks the model judged to repeat it.
type duplicateGroup struct {
	Keep   int64
	Remove []int64
}

func (e *Executor) removeDuplicates(ctx context.Context) string {
	var active []task.Task
	for _, t := range e.Store.List(task.ListFilter{}) {
		if t.Status != task.StatusCanceled {
			active = append(active, t)
		}
	}
	if len(active) < 2 {
		return msgNotEnoughToDedup
	}

	groups, err := e.duplicateGroups(ctx, active)
	if err != nil {
		return "Error checking duplicates: " + err.Error()
	}

	var report []string
	for _, group := range groups {
		kept, ok := e.Store.Get(group.Keep)
		if !ok {
			continue
		}
		for _, id := range group.Remove {
			if id == group.Keep {
				continue
			}
			removed, ok := e.Store.Get(id)
			if !ok || !e.Store.Delete(id) {
				continue
			}
			report = append(report, formatRemoved(removed, kept))
		}
	}

	if len(report) > 0 {
		observe.Emit(e.Events, "deduplication_performed", eventComponent, map[string]any{
			"removed_count": len(report),
		})
	}
	return formatDedupeReport(report)
}

// duplicateGroups asks the model which tasks repeat each other. Groups come
// back ordered by ascending keep id.
func (e *Executor) duplicateGroups(ctx context.Context, tasks []task.Task) ([]duplicateGroup, error) {
	if e.Completer == nil {
		return nil, errNoCompleter
	}

	candidates := make([]dedupeCandidate, len(tasks))
	for i, t := range tasks {
		candidates[i] = dedupeCandidate{ID: t.ID, Title: t.Title, Description: t.Description}
	}
	listing, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt, err := e.Prompts.Render(extract.DedupeTemplateName, extract.DedupeData{Tasks: string(listing)})
	if err != nil {
		return nil, err
	}
	raw, err := e.Completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseDuplicateGroups(raw)
}

func parseDuplicateGroups(raw string) ([]duplicateGroup, error) {
	data, err := extract.CleanJSON(raw)
	if err != nil {
		return nil, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}

	groups := make([]duplicateGroup, 0, len(decoded))
	for key, value := range decoded {
		keep, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid task id %q", key)
		}
		values, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("duplicates of task %d must be a list", keep)
		}
		group := duplicateGroup{Keep: keep}
		for _, v := range values {
			id := extract.ParseID(v)
			if id == 0 {
				return nil, fmt.Errorf("invalid task id %v", v)
			}
			group.Remove = append(group.Remove, id)
		}
		groups = append(groups, group)
	}

	slices.SortFunc(groups, func(a, b duplicateGroup) int {
		return cmp.Compare(a.Keep, b.Keep)
	})
	return groups, nil
}
