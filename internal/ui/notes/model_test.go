package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/tests/testutil"
)

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel() Model {
	m := New(keys.DefaultKeyMap(), 120, 30)
	m.searchInput.Cursor.SetMode(cursor.CursorStatic)
	m.SetNotes(testutil.SampleNotes(now))
	return m
}

func TestSearchFiltersAsYouType(t *testing.T) {
	m := newModel()

	m, _ = m.Update(runes("/"))
	if !m.Searching() {
		t.Fatal("expected search mode")
	}
	for _, r := range "FRIDAY" {
		m, _ = m.Update(runes(string(r)))
	}
	got := m.Visible()
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search should match content case-insensitively, got %+v", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Searching() || len(m.Visible()) != 2 {
		t.Errorf("esc should clear the search, got %d notes", len(m.Visible()))
	}
}

func TestCategoryCycle(t *testing.T) {
	m := newModel()

	// all -> Sekolah -> Kerja -> Pribadi
	m, _ = m.Update(runes("g"))
	if len(m.Visible()) != 0 {
		t.Errorf("school: got %d notes", len(m.Visible()))
	}
	m, _ = m.Update(runes("g"))
	if v := m.Visible(); len(v) != 1 || v[0].Category != model.CategoryWork {
		t.Errorf("work: got %+v", v)
	}

	m, _ = m.Update(runes("0"))
	if len(m.Visible()) != 2 {
		t.Errorf("reset: got %d notes", len(m.Visible()))
	}
}

func TestCategorySummaryIgnoresFilter(t *testing.T) {
	m := newModel()
	if got := m.categorySummary(); got != "Work 1 · Personal 1" {
		t.Errorf("summary: got %q", got)
	}

	m, _ = m.Update(runes("g"))
	m, _ = m.Update(runes("g"))
	if len(m.Visible()) != 1 {
		t.Fatalf("work filter: got %d notes", len(m.Visible()))
	}
	if !strings.Contains(m.View(), "Work 1 · Personal 1") {
		t.Error("wide view should show counts for every category")
	}
}

func TestIntentKeys(t *testing.T) {
	m := newModel()

	_, cmd := m.Update(runes("d"))
	if cmd == nil {
		t.Fatal("d produced no command")
	}
	if got, ok := cmd().(NoteDeleteMsg); !ok || got.ID == 0 {
		t.Errorf("d: got %#v", cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("esc should emit BackMsg")
	}

	m, _ = m.Update(runes("n"))
	if !m.Editing() {
		t.Error("n should open the form")
	}
}

func TestSubmitSendsOnlyChangedFields(t *testing.T) {
	m := newModel()
	orig := testutil.SampleNotes(now)[0]
	m.startForm(&orig)

	m.fb.content = "eggs, milk, bread"
	m.fb.color = model.NoteColorPink

	got, ok := m.submit()().(NoteUpdateMsg)
	if !ok {
		t.Fatal("expected NoteUpdateMsg")
	}
	want := api.NoteInput{Content: "eggs, milk, bread", Color: model.NoteColorPink}
	if got.ID != orig.ID || got.Input != want {
		t.Errorf("got %+v, want id %d input %+v", got, orig.ID, want)
	}
}

func TestSubmitCreate(t *testing.T) {
	m := newModel()
	m.startForm(nil)
	m.fb.title = "  Ideas "

	got, ok := m.submit()().(NoteCreateMsg)
	if !ok {
		t.Fatal("expected NoteCreateMsg")
	}
	if got.Input.Title != "Ideas" || got.Input.Color != model.NoteColorYellow {
		t.Errorf("got %+v", got.Input)
	}
}
