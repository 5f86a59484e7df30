package engine

import (
	"strings"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// IsToday reports whether t falls on now's calendar day.
func IsToday(t, now time.Time) bool {
	return StartOfDay(t, now.Location()).Equal(StartOfDay(now, now.Location()))
}

// IsUpcoming reports whether t is after the start of today.
func IsUpcoming(t, now time.Time) bool {
	return t.After(StartOfDay(now, now.Location()))
}

// DueOn returns the todos due on day's calendar date, in input order.
func DueOn(todos []model.Todo, day time.Time) []model.Todo {
	var out []model.Todo
	for _, t := range todos {
		if t.DueDate != nil && IsToday(*t.DueDate, day) {
			out = append(out, t)
		}
	}
	return out
}

// Upcoming returns up to n open todos due from the start of today on,
// earliest first.
func Upcoming(todos []model.Todo, now time.Time, n int) []model.Todo {
	var open []model.Todo
	for _, t := range todos {
		if !t.Completed && t.DueDate != nil && IsUpcoming(*t.DueDate, now) {
			open = append(open, t)
		}
	}
	open = Sort(open, SortDeadline)
	if len(open) > n {
		open = open[:max(n, 0)]
	}
	return open
}

// MonthGrid lays out a month as weeks starting on Sunday. Leading cells
// before the 1st are zero.
func MonthGrid(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	var weeks [][7]int
	var week [7]int
	col := offset
	for d := 1; d <= daysInMonth; d++ {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// FilterNotes returns notes whose title or content contains query
// (case-insensitive) and whose category matches. An empty query or a
// category of "" or FilterAll matches everything.
func FilterNotes(notes []model.Note, query, category string) []model.Note {
	q := strings.ToLower(query)
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if category != "" && category != FilterAll && string(n.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// NoteCategoryCounts counts notes per category; uncategorised notes count
// as CategoryOther.
func NoteCategoryCounts(notes []model.Note) []CategoryCount {
	counts := make(map[model.Category]int)
	for _, n := range notes {
		c := n.Category
		if c == "" {
			c = model.CategoryOther
		}
		counts[c]++
	}
	return sortedCategories(counts)
}
