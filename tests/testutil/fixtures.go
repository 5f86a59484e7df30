package testutil

import (
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// SampleTodos returns a small collection relative to now: two open todos
// (one overdue), one completed, and one undated low-priority item.
func SampleTodos(now time.Time) []model.Todo {
	yesterday := now.Add(-24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	return []model.Todo{
		{
			ID:        1,
			Text:      "Submit report",
			CreatedAt: now.Add(-72 * time.Hour),
			DueDate:   &yesterday,
			Category:  model.CategoryWork,
			Priority:  model.PriorityHigh,
		},
		{
			ID:          2,
			Text:        "Read chapter 4",
			CreatedAt:   now.Add(-48 * time.Hour),
			DueDate:     &nextWeek,
			Category:    model.CategorySchool,
			Priority:    model.PriorityMedium,
			Description: "Pages 80-112",
		},
		{
			ID:        3,
			Text:      "Buy groceries",
			Completed: true,
			CreatedAt: now.Add(-24 * time.Hour),
			Category:  model.CategoryPersonal,
			Priority:  model.PriorityLow,
		},
		{
			ID:        4,
			Text:      "Call plumber",
			CreatedAt: now.Add(-time.Hour),
			Priority:  model.PriorityLow,
		},
	}
}

// SampleNotes returns two notes updated an hour apart.
func SampleNotes(now time.Time) []model.Note {
	return []model.Note{
		{ID: 1, Title: "Groceries", Content: "eggs, milk", Category: model.CategoryPersonal,
			Color: model.NoteColorGreen, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, Title: "Standup", Content: "demo on friday", Category: model.CategoryWork,
			Color: model.NoteColorBlue, CreatedAt: now.Add(-3 * time.Hour), UpdatedAt: now.Add(-time.Hour)},
	}
}
