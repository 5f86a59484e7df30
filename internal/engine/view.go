// Package engine derives filtered and sorted views, counts and statistics
// from an in-memory todo collection. Every function here is pure: inputs are
// never mutated and identical inputs always produce identical outputs.
package engine

import (
	"slices"
	"strings"

	"github.com/nhle/todo-client/internal/model"
)

// StatusFilter selects todos by completion.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps s onto a StatusFilter, defaulting to StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusAll
	}
}

// Next cycles all -> active -> completed -> all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusAll:
		return StatusActive
	case StatusActive:
		return StatusCompleted
	default:
		return StatusAll
	}
}

// SortKey selects the ordering of a view.
type SortKey string

const (
	// SortDate orders by creation time, newest first.
	SortDate SortKey = "date"
	// SortPriority orders high, medium, low.
	SortPriority SortKey = "priority"
	// SortDeadline orders by due date, earliest first, undated last.
	SortDeadline SortKey = "deadline"
)

// ParseSortKey maps s onto a SortKey. Unknown keys fall back to SortDate.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriority:
		return SortPriority
	case SortDeadline:
		return SortDeadline
	default:
		return SortDate
	}
}

// Next cycles date -> priority -> deadline -> date.
func (k SortKey) Next() SortKey {
	switch k {
	case SortDate:
		return SortPriority
	case SortPriority:
		return SortDeadline
	default:
		return SortDate
	}
}

// FilterAll is the wildcard value for the category and priority filters.
const FilterAll = "all"

// ParseCategoryFilter maps user input onto a category filter value. Empty
// input and "all" select every category.
func ParseCategoryFilter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return FilterAll
	}
	return string(model.ParseCategory(s))
}

// ParsePriorityFilter maps user input onto a priority filter value,
// case-insensitively. Anything that is not a known priority means all.
func ParsePriorityFilter(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range model.Priorities() {
		if s == string(p) {
			return s
		}
	}
	return FilterAll
}

// ViewParams is the full set of view selections applied to a collection.
// Empty Category or Priority behave like FilterAll.
type ViewParams struct {
	Status   StatusFilter
	Search   string
	Category string
	Priority string
	Sort     SortKey
}

// DefaultView returns params that pass every todo, sorted by date.
func DefaultView() ViewParams {
	return ViewParams{
		Status:   StatusAll,
		Category: FilterAll,
		Priority: FilterAll,
		Sort:     SortDate,
	}
}

// Normalize maps every field onto a legal value, applying the documented
// defaults for anything unrecognised.
func (p ViewParams) Normalize() ViewParams {
	p.Status = ParseStatusFilter(string(p.Status))
	p.Sort = ParseSortKey(string(p.Sort))
	if p.Category == "" {
		p.Category = FilterAll
	}
	p.Priority = ParsePriorityFilter(p.Priority)
	return p
}

// IsDefault reports whether p passes every todo.
func (p ViewParams) IsDefault() bool {
	n := p.Normalize()
	return n.Status == StatusAll && n.Search == "" &&
		n.Category == FilterAll && n.Priority == FilterAll
}

// Matches reports whether t satisfies all four predicates of p.
func (p ViewParams) Matches(t model.Todo) bool {
	p = p.Normalize()

	switch p.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}

	if p.Search != "" &&
		!strings.Contains(strings.ToLower(t.Text), strings.ToLower(p.Search)) {
		return false
	}

	if p.Category != FilterAll && string(t.Category) != p.Category {
		return false
	}

	if p.Priority != FilterAll && string(t.Priority) != p.Priority {
		return false
	}

	return true
}

// Filter returns the todos matching p, in input order, in a new slice.
func Filter(todos []model.Todo, p ViewParams) []model.Todo {
	p = p.Normalize()
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if p.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a stably sorted copy of todos ordered by key.
func Sort(todos []model.Todo, key SortKey) []model.Todo {
	out := slices.Clone(todos)
	if out == nil {
		out = []model.Todo{}
	}

	switch ParseSortKey(string(key)) {
	case SortPriority:
		slices.SortStableFunc(out, comparePriority)
	case SortDeadline:
		slices.SortStableFunc(out, compareDeadline)
	default:
		slices.SortStableFunc(out, compareCreatedDesc)
	}
	return out
}

// Apply filters todos by p and then sorts the result by p.Sort.
func Apply(todos []model.Todo, p ViewParams) []model.Todo {
	p = p.Normalize()
	return Sort(Filter(todos, p), p.Sort)
}

// Counts holds completion counts over a full collection.
type Counts struct {
	Active    int
	Completed int
}

// Total returns Active + Completed.
func (c Counts) Total() int { return c.Active + c.Completed }

// Count tallies active and completed todos, ignoring any filters.
func Count(todos []model.Todo) Counts {
	var c Counts
	for _, t := range todos {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

func compareCreatedDesc(a, b model.Todo) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func comparePriority(a, b model.Todo) int {
	return a.Priority.Rank() - b.Priority.Rank()
}

func compareDeadline(a, b model.Todo) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
