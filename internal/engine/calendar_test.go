package engine

import (
	"slices"
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

func TestMonthGrid(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days.
	weeks := MonthGrid(2024, time.March)
	if len(weeks) != 6 {
		t.Fatalf("got %d weeks, want 6", len(weeks))
	}
	if weeks[0][5] != 1 || weeks[0][4] != 0 {
		t.Errorf("first week: got %v", weeks[0])
	}
	if weeks[5][0] != 31 {
		t.Errorf("last week: got %v", weeks[5])
	}
}

func TestDueOnAndDayHelpers(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)
	morning := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	nextDay := now.AddDate(0, 0, 1)

	todos := []model.Todo{
		{ID: 1, DueDate: &morning},
		{ID: 2, DueDate: &nextDay},
		{ID: 3},
	}

	got := DueOn(todos, now)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("DueOn: got %v", ids(got))
	}
	if !IsToday(morning, now) || IsToday(nextDay, now) {
		t.Error("IsToday misclassified")
	}
	if !IsUpcoming(nextDay, now) || !IsUpcoming(morning, now) {
		t.Error("IsUpcoming should include anything after midnight today")
	}
	if IsUpcoming(now.AddDate(0, 0, -1), now) {
		t.Error("yesterday is not upcoming")
	}
}

func TestFilterNotes(t *testing.T) {
	notes := []model.Note{
		{ID: 1, Title: "Groceries", Content: "eggs, milk", Category: model.CategoryPersonal},
		{ID: 2, Title: "Standup", Content: "Discuss MILK project", Category: model.CategoryWork},
		{ID: 3, Title: "Ideas"},
	}

	if got := FilterNotes(notes, "milk", ""); len(got) != 2 {
		t.Errorf("query: got %d notes, want 2", len(got))
	}
	if got := FilterNotes(notes, "milk", string(model.CategoryWork)); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("query+category: got %+v", got)
	}
	if got := FilterNotes(notes, "", FilterAll); len(got) != 3 {
		t.Errorf("match all: got %d", len(got))
	}

	counts := NoteCategoryCounts(notes)
	if len(counts) != 3 || counts[0].Count != 1 {
		t.Errorf("counts: got %+v", counts)
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }

	todos := []model.Todo{
		{ID: 1, DueDate: at(72 * time.Hour)},
		{ID: 2, DueDate: at(-2 * time.Hour)}, // earlier today, still listed
		{ID: 3, DueDate: at(-30 * time.Hour)},
		{ID: 4, DueDate: at(24 * time.Hour), Completed: true},
		{ID: 5},
		{ID: 6, DueDate: at(24 * time.Hour)},
	}

	got := Upcoming(todos, now, 5)
	if want := []int64{2, 6, 1}; !slices.Equal(ids(got), want) {
		t.Errorf("Upcoming: got %v, want %v", ids(got), want)
	}
	if got := Upcoming(todos, now, 1); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Upcoming limit: got %v", ids(got))
	}
	if got := Upcoming(todos, now, -1); len(got) != 0 {
		t.Errorf("negative limit: got %v", ids(got))
	}
}
