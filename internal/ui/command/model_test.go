package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    CommandMsg
		wantErr bool
	}{
		{"sort priority", CommandMsg{Name: "sort", Arg: "priority"}, false},
		{"  STATUS   active ", CommandMsg{Name: "status", Arg: "active"}, false},
		{"search buy milk", CommandMsg{Name: "search", Arg: "buy milk"}, false},
		{"ref", CommandMsg{Name: "refresh"}, false},
		{"set", CommandMsg{Name: "settings"}, false},
		{"cal", CommandMsg{Name: "calendar"}, false},
		{"c", CommandMsg{}, true},
		{"q", CommandMsg{Name: "quit"}, false},
		// "s" matches status, sort, search, stats and settings.
		{"se", CommandMsg{}, true},
		{"s", CommandMsg{}, true},
		{"frobnicate", CommandMsg{}, true},
		{"", CommandMsg{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q): err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 24)
	m.input.SetValue("clear")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if got := cmd(); got != (CommandMsg{Name: "clear"}) {
		t.Errorf("got %#v", got)
	}
	if m.input.Value() != "" {
		t.Error("input should reset after enter")
	}

	m.input.SetValue("nope")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cmd().(ErrorMsg); !ok {
		t.Error("unknown command should emit ErrorMsg")
	}
}
