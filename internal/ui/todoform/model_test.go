package todoform

import (
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

func TestParseDue(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)

	tests := []struct {
		in      string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "   ", wantNil: true},
		{in: "2024-03-12", want: time.Date(2024, 3, 12, 23, 59, 0, 0, loc)},
		{in: "2024-03-12 09:30", want: time.Date(2024, 3, 12, 9, 30, 0, 0, loc)},
		{in: "12/03/2024", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDue(tt.in, loc)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDue(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDue(%q): %v", tt.in, err)
			continue
		}
		if tt.wantNil {
			if got != nil {
				t.Errorf("ParseDue(%q): got %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || !got.Equal(tt.want) {
			t.Errorf("ParseDue(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatDueRoundTrip(t *testing.T) {
	loc := time.UTC
	for _, in := range []string{"2024-03-12", "2024-03-12 09:30"} {
		due, err := ParseDue(in, loc)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatDue(*due, loc); got != in {
			t.Errorf("FormatDue: got %q, want %q", got, in)
		}
	}
}

func TestSubmitSendsOnlyChangedFields(t *testing.T) {
	due := time.Date(2024, 3, 12, 23, 59, 0, 0, time.UTC)
	m := New(80, 24)
	m.loc = time.UTC
	m.StartEdit(model.Todo{
		ID:       7,
		Text:     "Write report",
		Priority: model.PriorityMedium,
		Category: model.CategoryWork,
		DueDate:  &due,
	})
	m.fb.priority = model.PriorityHigh

	msg := m.handleSubmit()()
	upd, ok := msg.(TodoUpdateMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if upd.ID != 7 {
		t.Errorf("ID: got %d", upd.ID)
	}
	in := upd.Input
	if in.Priority == nil || *in.Priority != model.PriorityHigh {
		t.Errorf("priority: got %v", in.Priority)
	}
	if in.Text != nil || in.Category != nil || in.DueDate != nil || in.Description != nil {
		t.Errorf("unchanged fields were sent: %+v", in)
	}
}

func TestSubmitCreate(t *testing.T) {
	m := New(80, 24)
	m.StartCreate()
	m.fb.text = "  Plan trip  "
	m.fb.category = string(model.CategoryPersonal)

	msg := m.handleSubmit()()
	created, ok := msg.(TodoCreateMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if created.Input.Text != "Plan trip" || created.Input.Category != model.CategoryPersonal {
		t.Errorf("got %+v", created.Input)
	}
	if created.Input.Priority != model.PriorityMedium || created.Input.DueDate != nil {
		t.Errorf("defaults: got %+v", created.Input)
	}
}

func TestCategoryOptionsKeepsFreeText(t *testing.T) {
	if n := len(categoryOptions("")); n != 5 {
		t.Errorf("known categories: got %d options", n)
	}
	if n := len(categoryOptions("Gym")); n != 6 {
		t.Errorf("free-text category should be offered, got %d options", n)
	}
}
