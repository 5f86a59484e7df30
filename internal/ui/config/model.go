package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// Mode represents the current state of the settings view.
type Mode int

const (
	ModeView   Mode = iota // Show current settings
	ModeForm               // Editing
	ModeSaving             // Writing the config file
)

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

// SavedMsg carries the configuration after it was written to disk.
type SavedMsg struct {
	Config model.AppConfig
	// Restart is set when a changed field only applies on the next start.
	Restart bool
}

// savedInternalMsg is sent after the save command finishes.
type savedInternalMsg struct {
	cfg model.AppConfig
	err error
}

// formFields are the huh bindings. The form keeps pointers into them, so
// they live on the heap.
type formFields struct {
	baseURL string
	refresh string
	sort    string
	theme   string
}

// Model is the Bubble Tea model for viewing and editing settings.
type Model struct {
	mode    Mode
	path    string
	cfg     model.AppConfig
	form    *huh.Form
	fields  *formFields
	spinner spinner.Model

	statusMsg string
	statusErr bool

	keys          *keys.KeyMap
	width, height int
}

// New creates a settings view for the configuration stored at path.
func New(path string, cfg model.AppConfig, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeView,
		path:    path,
		cfg:     cfg,
		spinner: sp,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Config returns the settings currently in effect.
func (m Model) Config() model.AppConfig { return m.cfg }

// Editing reports whether the form is open.
func (m Model) Editing() bool { return m.mode != ModeView }

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedInternalMsg:
		m.mode = ModeView
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving settings: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		restart := msg.cfg.API.BaseURL != m.cfg.API.BaseURL ||
			msg.cfg.Display.RefreshIntervalSec != m.cfg.Display.RefreshIntervalSec
		m.cfg = msg.cfg
		m.statusMsg = "Settings saved"
		m.statusErr = false
		if restart {
			m.statusMsg += "; server and refresh changes apply on next start"
		}
		return m, func() tea.Msg { return SavedMsg{Config: msg.cfg, Restart: restart} }

	case spinner.TickMsg:
		if m.mode == ModeSaving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeView {
			return m.handleViewKeys(msg)
		}
		if m.mode == ModeForm && msg.String() == "esc" {
			m.mode = ModeView
			m.form = nil
			return m, nil
		}
	}

	if m.mode == ModeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleViewKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DoneMsg{} }
	case key.Matches(msg, m.keys.Edit):
		cmd := m.StartEdit()
		return m, cmd
	}
	return m, nil
}

// StartEdit opens the form prefilled with the current settings.
func (m *Model) StartEdit() tea.Cmd {
	m.fields = &formFields{
		baseURL: m.cfg.API.BaseURL,
		refresh: strconv.Itoa(m.cfg.Display.RefreshIntervalSec),
		sort:    string(engine.ParseSortKey(m.cfg.Display.DefaultSort)),
		theme:   m.cfg.Display.Theme,
	}
	if m.fields.theme != theme.NameMono {
		m.fields.theme = theme.NameDefault
	}
	m.statusMsg = ""
	m.form = m.buildForm()
	m.mode = ModeForm
	return m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Description("Root URL of the task backend").
				Placeholder("http://localhost:8000").
				Value(&m.fields.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Refresh interval").
				Description("Seconds between background refreshes").
				Value(&m.fields.refresh).
				Validate(validateSeconds),
			huh.NewSelect[string]().
				Title("Default sort").
				Options(
					huh.NewOption("Newest first", string(engine.SortDate)),
					huh.NewOption("Priority", string(engine.SortPriority)),
					huh.NewOption("Deadline", string(engine.SortDeadline)),
				).
				Value(&m.fields.sort),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Default", theme.NameDefault),
					huh.NewOption("Monochrome", theme.NameMono),
				).
				Value(&m.fields.theme),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		m.mode = ModeSaving
		return m, tea.Batch(m.spinner.Tick, m.save(m.applyFields()))
	case huh.StateAborted:
		m.form = nil
		m.mode = ModeView
		return m, nil
	}
	return m, cmd
}

// applyFields returns the current configuration with the form values
// applied. Validation already ran, so parse errors cannot occur.
func (m Model) applyFields() model.AppConfig {
	cfg := m.cfg
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.fields.baseURL), "/")
	if n, err := strconv.Atoi(strings.TrimSpace(m.fields.refresh)); err == nil {
		cfg.Display.RefreshIntervalSec = n
	}
	cfg.Display.DefaultSort = m.fields.sort
	cfg.Display.Theme = m.fields.theme
	return cfg
}

// save returns a command that writes cfg to the config file.
func (m Model) save(cfg model.AppConfig) tea.Cmd {
	path := m.path
	return func() tea.Msg {
		err := model.SaveConfig(path, &cfg)
		return savedInternalMsg{cfg: cfg, err: err}
	}
}

// --- View ---

// View renders the settings UI based on the current mode.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	switch m.mode {
	case ModeForm:
		if m.form == nil {
			return ""
		}
		return style.Render(m.form.View())
	case ModeSaving:
		return style.Render(m.spinner.View() + " Saving settings...")
	default:
		return style.Render(m.viewSettings())
	}
}

func (m Model) viewSettings() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(18)

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Server URL", m.cfg.API.BaseURL},
		{"Refresh interval", fmt.Sprintf("%ds", m.cfg.Display.RefreshIntervalSec)},
		{"Default sort", string(engine.ParseSortKey(m.cfg.Display.DefaultSort))},
		{"Theme", m.cfg.Display.Theme},
		{"Cache", m.cfg.Cache.Path},
		{"Log", m.cfg.Log.Path},
		{"Config file", m.path},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		color := theme.ColorYellow
		if m.statusErr {
			color = theme.ColorRed
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Italic(true).Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render("e edit | esc back"))
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// --- Validators ---

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., http://localhost:8000)")
	}
	return nil
}

func validateSeconds(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number of seconds")
	}
	if n < 5 {
		return fmt.Errorf("must be at least 5 seconds")
	}
	return nil
}
