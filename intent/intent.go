// Package intent maps free-text requests to the operation the agent should perform.
package intent

import internalstrings "github.com/amonks/taskagent/internal/strings"

// Category is the kind of operation a request asks for.
type Category string

const (
	CategoryDuplicateRemoval Category = "duplicate_removal"
	CategoryCreate           Category = "create"
	CategoryList             Category = "list"
	CategoryUpdate           Category = "update"
	CategoryDelete           Category = "delete"
	CategoryStatistics       Category = "statistics"
	CategoryGeneral          Category = "general"
)

// NeedsFields reports whether requests in this category go through field extraction.
func (c Category) NeedsFields() bool {
	switch c {
	case CategoryCreate, CategoryUpdate, CategoryDelete:
		return true
	default:
		return false
	}
}

type rule struct {
	category Category
	matches  func(text string) bool
}

func anyOf(keywords ...string) func(string) bool {
	return func(text string) bool {
		return internalstrings.ContainsAny(text, keywords...)
	}
}

// Rules are checked in order and the first match wins. Keyword sets overlap,
// so "remove duplicate tasks" must hit duplicate removal before delete.
var rules = []rule{
	{CategoryDuplicateRemoval, func(text string) bool {
		return internalstrings.ContainsAny(text, "duplicate") &&
			internalstrings.ContainsAny(text, "remove", "delete", "clean", "check", "find")
	}},
	{CategoryCreate, anyOf("create", "add", "new task")},
	{CategoryList, anyOf("list", "show", "get tasks", "tasks")},
	{CategoryUpdate, anyOf("update", "change", "modify", "mark")},
	{CategoryDelete, anyOf("delete", "remove")},
	{CategoryStatistics, anyOf("statistics", "stats", "summary", "overview")},
}

// Classify returns the category for text using case-insensitive substring matching.
func Classify(text string) Category {
	lower := internalstrings.NormalizeLowerTrimSpace(text)
	for _, r := range rules {
		if r.matches(lower) {
			return r.category
		}
	}
	return CategoryGeneral
}
