package engine

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// WindowDays is the length of the rolling activity histogram.
const WindowDays = 7

// DayBucket holds activity for one local calendar day. Todos are bucketed by
// creation date; Completed counts the ones among them that are done.
type DayBucket struct {
	Date      time.Time
	Created   int
	Completed int
}

// CategoryCount is the number of todos in one category.
type CategoryCount struct {
	Category model.Category
	Count    int
}

// Statistics aggregates a full, unfiltered collection.
type Statistics struct {
	Total     int
	Completed int
	Active    int
	Overdue   int

	// InProgress counts incomplete todos that are not overdue.
	InProgress int

	// CompletionRate is Completed/Total as a rounded percentage.
	CompletionRate int

	// AveragePerDay is Total spread over the histogram window.
	AveragePerDay float64

	// Week runs oldest to newest and always has WindowDays entries;
	// the last entry is today.
	Week []DayBucket

	// Categories is sorted by count descending, then by name.
	Categories []CategoryCount

	// Streak is the run of days, ending today or yesterday, each with at
	// least one completed todo.
	Streak int
}

// MaxWeekCompleted returns the largest per-day completed count, at least 1,
// for scaling bar charts.
func (s Statistics) MaxWeekCompleted() int {
	m := 1
	for _, d := range s.Week {
		m = max(m, d.Completed)
	}
	return m
}

// Aggregate computes Statistics over todos as of now. Calendar days are
// taken in now's location.
func Aggregate(todos []model.Todo, now time.Time) Statistics {
	var st Statistics
	st.Total = len(todos)

	byCategory := make(map[model.Category]int)
	completedDays := make(map[string]bool)

	for _, t := range todos {
		if t.Completed {
			st.Completed++
			completedDays[dayKey(t.CreatedAt, now.Location())] = true
		} else {
			st.Active++
			if t.IsOverdue(now) {
				st.Overdue++
			} else {
				st.InProgress++
			}
		}
		byCategory[t.CategoryOrOther()]++
	}

	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
		st.AveragePerDay = float64(st.Total) / WindowDays
	}

	st.Week = weekHistogram(todos, now)
	st.Categories = sortedCategories(byCategory)
	st.Streak = streak(completedDays, now)

	return st
}

// OverdueCount counts incomplete todos whose due date is before now.
func OverdueCount(todos []model.Todo, now time.Time) int {
	n := 0
	for _, t := range todos {
		if t.IsOverdue(now) {
			n++
		}
	}
	return n
}

// Recent returns the n most recently created todos, newest first.
func Recent(todos []model.Todo, n int) []model.Todo {
	sorted := Sort(todos, SortDate)
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

func weekHistogram(todos []model.Todo, now time.Time) []DayBucket {
	loc := now.Location()
	today := StartOfDay(now, loc)

	week := make([]DayBucket, WindowDays)
	index := make(map[string]int, WindowDays)
	for i := range WindowDays {
		day := today.AddDate(0, 0, i-(WindowDays-1))
		week[i] = DayBucket{Date: day}
		index[dayKey(day, loc)] = i
	}

	for _, t := range todos {
		i, ok := index[dayKey(t.CreatedAt, loc)]
		if !ok {
			continue
		}
		week[i].Created++
		if t.Completed {
			week[i].Completed++
		}
	}
	return week
}

func sortedCategories(counts map[model.Category]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(string(a.Category), string(b.Category))
	})
	return out
}

// streak walks back from today. An empty today does not end the run; the
// first empty earlier day does. The set is finite so the walk terminates.
func streak(completedDays map[string]bool, now time.Time) int {
	loc := now.Location()
	today := StartOfDay(now, loc)
	n := 0
	for i := 0; ; i++ {
		if completedDays[dayKey(today.AddDate(0, 0, -i), loc)] {
			n++
			continue
		}
		if i > 0 {
			return n
		}
	}
}
