package model

import (
	"strings"
	"time"
)

// Priority is the urgency level of a todo.
type Priority string

// Priority values as stored by the backend.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority maps a raw backend or user value onto a Priority.
// Anything unrecognised, including the empty string, is medium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Rank orders priorities from most to least urgent (high=0, low=2).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Label returns the display label for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

// Priorities lists every priority from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Category groups todos. The known values are the backend's wire strings;
// any other non-empty string is a free-text category.
type Category string

const (
	CategorySchool   Category = "Sekolah"
	CategoryWork     Category = "Kerja"
	CategoryPersonal Category = "Pribadi"
	CategoryOther    Category = "Lainnya"
)

// KnownCategories returns the fixed category set in display order.
func KnownCategories() []Category {
	return []Category{CategorySchool, CategoryWork, CategoryPersonal, CategoryOther}
}

// ParseCategory matches s against the known categories by wire value or
// English label, case-insensitively. Anything else is returned trimmed as
// a free-text category.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range KnownCategories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c
		}
	}
	return Category(s)
}

// Label returns the display label. Free-text categories label as themselves.
func (c Category) Label() string {
	switch c {
	case CategorySchool:
		return "School"
	case CategoryWork:
		return "Work"
	case CategoryPersonal:
		return "Personal"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// Todo is a task record mirrored from the backend. The backend assigns ID.
type Todo struct {
	ID          int64      `json:"id" db:"id"`
	Text        string     `json:"text" db:"text"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Category    Category   `json:"category,omitempty" db:"category"`
	Priority    Priority   `json:"priority" db:"priority"`
	Description string     `json:"description,omitempty" db:"description"`
}

// HasDueDate reports whether the todo carries a due date.
func (t Todo) HasDueDate() bool { return t.DueDate != nil }

// IsOverdue reports whether the todo is incomplete and its due date is
// strictly before now. Undated todos are never overdue.
func (t Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// CategoryOrOther returns the category, or CategoryOther when unset.
func (t Todo) CategoryOrOther() Category {
	if t.Category == "" {
		return CategoryOther
	}
	return t.Category
}
