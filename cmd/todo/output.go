package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/model"
)

const timeLayout = "2006-01-02 15:04"

func printTodos(w io.Writer, todos []model.Todo, now time.Time) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "no todos")
		return
	}

	rows := make([][]string, 0, len(todos))
	for _, t := range todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Local().Format(timeLayout)
			if t.IsOverdue(now) {
				due += " !"
			}
		}
		category := ""
		if t.Category != "" {
			category = t.Category.Label()
		}
		rows = append(rows, []string{
			fmt.Sprint(t.ID), mark, t.Priority.Label(), t.Text, category, due,
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "✓", "PRIORITY", "TEXT", "CATEGORY", "DUE").
		Rows(rows...)
	fmt.Fprintln(w, tbl.String())
}

func printStats(w io.Writer, st engine.Statistics) {
	fmt.Fprintf(w, "total        %d\n", st.Total)
	fmt.Fprintf(w, "completed    %d (%d%%)\n", st.Completed, st.CompletionRate)
	fmt.Fprintf(w, "in progress  %d\n", st.InProgress)
	fmt.Fprintf(w, "overdue      %d\n", st.Overdue)
	fmt.Fprintf(w, "per day      %.1f\n", st.AveragePerDay)
	fmt.Fprintf(w, "streak       %d day(s)\n", st.Streak)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "last 7 days (added / done)")
	peak := st.MaxWeekCompleted()
	for _, d := range st.Week {
		bar := strings.Repeat("#", d.Completed*20/peak)
		fmt.Fprintf(w, "  %s  %2d / %2d  %s\n", d.Date.Format("Mon 01-02"), d.Created, d.Completed, bar)
	}

	if len(st.Categories) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "categories")
		for _, c := range st.Categories {
			fmt.Fprintf(w, "  %-10s %d\n", c.Category.Label(), c.Count)
		}
	}
}

// upcomingLimit caps the upcoming list under the calendar.
const upcomingLimit = 10

// printCalendar draws month as a Sunday-first grid. Days with todos due
// carry a *count suffix.
func printCalendar(w io.Writer, todos []model.Todo, month, now time.Time) {
	fmt.Fprintln(w, month.Format("January 2006"))

	var head strings.Builder
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		fmt.Fprintf(&head, "%-5s", d)
	}
	fmt.Fprintln(w, strings.TrimRight(head.String(), " "))

	due := 0
	for _, week := range engine.MonthGrid(month.Year(), month.Month()) {
		var row strings.Builder
		for _, d := range week {
			if d == 0 {
				row.WriteString("     ")
				continue
			}
			day := time.Date(month.Year(), month.Month(), d, 12, 0, 0, 0, month.Location())
			cell := fmt.Sprintf("%2d", d)
			if n := len(engine.DueOn(todos, day)); n > 0 {
				cell += fmt.Sprintf("*%d", n)
				due += n
			}
			fmt.Fprintf(&row, "%-5s", cell)
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d due this month · %d overdue\n", due, engine.OverdueCount(todos, now))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "upcoming")
	upcoming := engine.Upcoming(todos, now, upcomingLimit)
	if len(upcoming) == 0 {
		fmt.Fprintln(w, "  nothing due")
	}
	for _, t := range upcoming {
		fmt.Fprintf(w, "  %s  #%d %s\n", t.DueDate.Local().Format(timeLayout), t.ID, t.Text)
	}
}

func printNotes(w io.Writer, notes []model.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "no notes")
		return
	}
	for i, n := range notes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		head := fmt.Sprintf("#%d %s", n.ID, n.Title)
		if n.Category != "" {
			head += " [" + n.Category.Label() + "]"
		}
		fmt.Fprintf(w, "%s  (%s, %s)\n", head, n.Color, n.UpdatedAt.Local().Format(timeLayout))
		if n.Content != "" {
			for _, line := range strings.Split(n.Content, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

func printNoteCategories(w io.Writer, counts []engine.CategoryCount) {
	if len(counts) == 0 {
		return
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", strings.ToLower(c.Category.Label()), c.Count))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "categories: %s\n", strings.Join(parts, " · "))
}

func printUser(w io.Writer, u model.User) {
	fmt.Fprintf(w, "%s <%s>\n", u.Username, u.Email)
	if u.Name != "" {
		fmt.Fprintf(w, "name     %s\n", u.Name)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "joined   %s\n", u.CreatedAt.Local().Format(time.DateOnly))
	}
}
