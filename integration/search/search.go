// Package search offers a web search tool. Results are simulated; no request
// leaves the process.
package search

import (
	"context"
	"fmt"

	"github.com/amonks/taskagent/observe"
)

// DefaultMaxResults is used when a non-positive limit is requested.
const DefaultMaxResults = 5

const eventComponent = "serper_tool"

// Result is a single search hit.
type Result struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Searcher runs searches and reports them to Events.
type Searcher struct {
	Events observe.Logger
}

// Search returns up to max results for query.
func (s Searcher) Search(ctx context.Context, query string, max int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if max <= 0 {
		max = DefaultMaxResults
	}
	observe.Emit(s.Events, "serper_search_called", eventComponent, map[string]any{
		"query":       query,
		"max_results": max,
	})

	results := make([]Result, max)
	for i := range results {
		results[i] = Result{
			Title: fmt.Sprintf("Result %d for '%s'", i+1, query),
			Link:  fmt.Sprintf("https://example.com/%d", i+1),
		}
	}

	observe.Emit(s.Events, "serper_search_results", eventComponent, map[string]any{
		"query":         query,
		"results_count": len(results),
	})
	return results, nil
}
