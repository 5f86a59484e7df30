package engine

import (
	"slices"
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

var base = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func at(days int) *time.Time {
	t := base.AddDate(0, 0, days)
	return &t
}

func sample() []model.Todo {
	return []model.Todo{
		{ID: 1, Text: "Write report", CreatedAt: base.Add(-5 * time.Hour), Priority: model.PriorityLow, Category: model.CategoryWork, DueDate: at(3)},
		{ID: 2, Text: "Buy milk", Completed: true, CreatedAt: base.Add(-1 * time.Hour), Priority: model.PriorityHigh, Category: model.CategoryPersonal},
		{ID: 3, Text: "Math homework", CreatedAt: base.Add(-3 * time.Hour), Priority: model.PriorityMedium, Category: model.CategorySchool, DueDate: at(1)},
		{ID: 4, Text: "REPORT review", CreatedAt: base.Add(-2 * time.Hour), Priority: model.PriorityHigh, Category: model.CategoryWork},
		{ID: 5, Text: "Call mom", Completed: true, CreatedAt: base.Add(-4 * time.Hour), Priority: model.PriorityMedium, DueDate: at(-2)},
	}
}

func ids(todos []model.Todo) []int64 {
	out := make([]int64, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		params ViewParams
		want   []int64
	}{
		{
			name:   "default view returns everything newest first",
			params: DefaultView(),
			want:   []int64{2, 4, 3, 5, 1},
		},
		{
			name:   "zero value params behave like default",
			params: ViewParams{},
			want:   []int64{2, 4, 3, 5, 1},
		},
		{
			name:   "active only",
			params: ViewParams{Status: StatusActive},
			want:   []int64{4, 3, 1},
		},
		{
			name:   "completed only",
			params: ViewParams{Status: StatusCompleted},
			want:   []int64{2, 5},
		},
		{
			name:   "search is case-insensitive substring",
			params: ViewParams{Search: "report"},
			want:   []int64{4, 1},
		},
		{
			name:   "category exact match",
			params: ViewParams{Category: string(model.CategoryWork)},
			want:   []int64{4, 1},
		},
		{
			name:   "priority exact match",
			params: ViewParams{Priority: "high"},
			want:   []int64{2, 4},
		},
		{
			name:   "all predicates combine with AND",
			params: ViewParams{Status: StatusActive, Search: "report", Category: string(model.CategoryWork), Priority: "low"},
			want:   []int64{1},
		},
		{
			name:   "sort by priority is stable within a rank",
			params: ViewParams{Sort: SortPriority},
			want:   []int64{2, 4, 3, 5, 1},
		},
		{
			name:   "sort by deadline puts undated last in input order",
			params: ViewParams{Sort: SortDeadline},
			want:   []int64{5, 3, 1, 2, 4},
		},
		{
			name:   "unknown sort key falls back to date",
			params: ViewParams{Sort: "alphabetical"},
			want:   []int64{2, 4, 3, 5, 1},
		},
		{
			name:   "unknown status falls back to all",
			params: ViewParams{Status: "archived"},
			want:   []int64{2, 4, 3, 5, 1},
		},
		{
			name:   "no match yields empty result",
			params: ViewParams{Search: "nothing like this"},
			want:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sample(), tt.params))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyWorkedExample(t *testing.T) {
	todos := []model.Todo{
		{ID: 1, Text: "A", Completed: false, Priority: model.PriorityLow, CreatedAt: base},
		{ID: 2, Text: "B", Completed: true, Priority: model.PriorityHigh, CreatedAt: base},
	}

	if got := ids(Apply(todos, ViewParams{Status: StatusActive})); !slices.Equal(got, []int64{1}) {
		t.Errorf("active: got %v, want [1]", got)
	}
	if got := ids(Apply(todos, ViewParams{Status: StatusCompleted})); !slices.Equal(got, []int64{2}) {
		t.Errorf("completed: got %v, want [2]", got)
	}
}

func TestApplyIsPure(t *testing.T) {
	todos := sample()
	before := ids(todos)

	p := ViewParams{Status: StatusActive, Sort: SortDeadline}
	first := ids(Apply(todos, p))
	second := ids(Apply(todos, p))

	if !slices.Equal(first, second) {
		t.Errorf("not idempotent: %v then %v", first, second)
	}
	if got := ids(todos); !slices.Equal(got, before) {
		t.Errorf("input mutated: got %v, want %v", got, before)
	}
}

func TestApplyEmpty(t *testing.T) {
	got := Apply(nil, DefaultView())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilterIsSubset(t *testing.T) {
	todos := sample()
	known := make(map[int64]bool)
	for _, td := range todos {
		known[td.ID] = true
	}

	for _, status := range []StatusFilter{StatusAll, StatusActive, StatusCompleted} {
		for _, pri := range []string{FilterAll, "high", "medium", "low"} {
			for _, sort := range []SortKey{SortDate, SortPriority, SortDeadline} {
				got := Apply(todos, ViewParams{Status: status, Priority: pri, Sort: sort})
				if len(got) > len(todos) {
					t.Fatalf("%s/%s/%s: result larger than input", status, pri, sort)
				}
				for _, td := range got {
					if !known[td.ID] {
						t.Fatalf("%s/%s/%s: invented todo %d", status, pri, sort, td.ID)
					}
				}
			}
		}
	}
}

func TestSortPriorityOrdering(t *testing.T) {
	got := Sort(sample(), SortPriority)
	for i := 1; i < len(got); i++ {
		if got[i-1].Priority.Rank() > got[i].Priority.Rank() {
			t.Errorf("%s precedes %s at %d", got[i-1].Priority, got[i].Priority, i)
		}
	}
}

func TestSortDeadlineOrdering(t *testing.T) {
	got := Sort(sample(), SortDeadline)

	seenUndated := false
	var last *time.Time
	for _, td := range got {
		if td.DueDate == nil {
			seenUndated = true
			continue
		}
		if seenUndated {
			t.Fatalf("dated todo %d after an undated one", td.ID)
		}
		if last != nil && td.DueDate.Before(*last) {
			t.Errorf("todo %d out of order", td.ID)
		}
		last = td.DueDate
	}
}

func TestCount(t *testing.T) {
	todos := sample()
	c := Count(todos)
	if c.Active != 3 || c.Completed != 2 {
		t.Errorf("got %+v, want active=3 completed=2", c)
	}
	if c.Total() != len(todos) {
		t.Errorf("Total: got %d, want %d", c.Total(), len(todos))
	}

	// Counts ignore view filters.
	s := NewState().Load(todos).WithView(ViewParams{Status: StatusCompleted, Search: "milk"})
	if got := s.Counts(); got != c {
		t.Errorf("state counts: got %+v, want %+v", got, c)
	}
}

func TestParseAndCycle(t *testing.T) {
	if ParseSortKey("PRIORITY") != SortPriority {
		t.Error("ParseSortKey should be case-insensitive")
	}
	if ParseSortKey("") != SortDate {
		t.Error("empty sort key should default to date")
	}
	if ParseStatusFilter("Completed") != StatusCompleted {
		t.Error("ParseStatusFilter should be case-insensitive")
	}

	k := SortDate
	for range 3 {
		k = k.Next()
	}
	if k != SortDate {
		t.Errorf("sort cycle: got %s after three steps", k)
	}

	f := StatusAll
	for range 3 {
		f = f.Next()
	}
	if f != StatusAll {
		t.Errorf("status cycle: got %s after three steps", f)
	}
}

func TestNormalize(t *testing.T) {
	got := ViewParams{Status: "x", Priority: "urgent", Sort: "y"}.Normalize()
	want := ViewParams{Status: StatusAll, Category: FilterAll, Priority: FilterAll, Sort: SortDate}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.IsDefault() {
		t.Error("normalized junk should be the default view")
	}
	if (ViewParams{Search: "x"}).IsDefault() {
		t.Error("a search term is not the default view")
	}
}

func TestParseCategoryFilter(t *testing.T) {
	tests := map[string]string{
		"":        FilterAll,
		" ALL ":   FilterAll,
		"work":    string(model.CategoryWork),
		"Sekolah": string(model.CategorySchool),
		"Hobbies": "Hobbies",
	}
	for in, want := range tests {
		if got := ParseCategoryFilter(in); got != want {
			t.Errorf("ParseCategoryFilter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePriorityFilter(t *testing.T) {
	tests := map[string]string{
		"":       FilterAll,
		"all":    FilterAll,
		" High ": string(model.PriorityHigh),
		"MEDIUM": string(model.PriorityMedium),
		"low":    string(model.PriorityLow),
		"urgent": FilterAll,
	}
	for in, want := range tests {
		if got := ParsePriorityFilter(in); got != want {
			t.Errorf("ParsePriorityFilter(%q) = %q, want %q", in, got, want)
		}
	}

	p := ViewParams{Priority: "High"}.Normalize()
	if p.Priority != string(model.PriorityHigh) {
		t.Errorf("Normalize kept priority %q", p.Priority)
	}
}
