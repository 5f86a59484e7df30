package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/app"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
	appsync "github.com/nhle/todo-client/internal/sync"
	"github.com/nhle/todo-client/internal/ui/todoform"
)

// subcommand is one verb of the CLI.
type subcommand interface {
	synopsis() string
	// needsEnv reports whether run needs configuration and services.
	needsEnv() bool
	register(fs *flag.FlagSet)
	run(ctx context.Context, e *env, args []string, out, errOut io.Writer) int
}

var commands = map[string]func() subcommand{
	"tui":      func() subcommand { return &tuiCmd{} },
	"login":    func() subcommand { return &loginCmd{} },
	"register": func() subcommand { return &registerCmd{} },
	"logout":   func() subcommand { return &logoutCmd{} },
	"whoami":   func() subcommand { return &whoamiCmd{} },
	"profile":  func() subcommand { return &profileCmd{} },
	"passwd":   func() subcommand { return &passwdCmd{} },
	"list":     func() subcommand { return &listCmd{} },
	"add":      func() subcommand { return &addCmd{} },
	"done":     func() subcommand { return &doneCmd{} },
	"rm":       func() subcommand { return &rmCmd{} },
	"clear":    func() subcommand { return &clearCmd{} },
	"stats":    func() subcommand { return &statsCmd{} },
	"calendar": func() subcommand { return &calendarCmd{} },
	"notes":    func() subcommand { return &notesCmd{} },
	"version":  func() subcommand { return &versionCmd{} },
}

// fail prints err and maps it onto an exit code.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	switch {
	case errors.Is(err, service.ErrNotLoggedIn), api.IsAuthError(err):
		return exitAuth
	case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrNotFound):
		return exitUser
	default:
		return exitBackend
	}
}

// warnStale reports a cache fallback and returns nil, or returns err
// unchanged when it is a real failure.
func warnStale(errOut io.Writer, err error) error {
	if errors.Is(err, service.ErrStale) {
		fmt.Fprintf(errOut, "warning: %v\n", err)
		return nil
	}
	return err
}

// load restores the session and fetches the collection.
func load(ctx context.Context, e *env, errOut io.Writer) error {
	if err := e.auth.Restore(); err != nil {
		return err
	}
	_, err := e.todos.Load(ctx)
	return warnStale(errOut, err)
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one todo id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", args[0])
	}
	return id, nil
}

// --- tui ---

type tuiCmd struct{}

func (c *tuiCmd) synopsis() string       { return "open the interactive interface (default)" }
func (c *tuiCmd) needsEnv() bool         { return true }
func (c *tuiCmd) register(*flag.FlagSet) {}

func (c *tuiCmd) run(ctx context.Context, e *env, _ []string, _, errOut io.Writer) int {
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}

	interval := time.Duration(e.cfg.Display.RefreshIntervalSec) * time.Second
	refresher := appsync.New(e.todos, interval, e.logger)
	defer refresher.Stop()

	m := app.New(app.Deps{
		Todos:     e.todos,
		Notes:     e.notes,
		Auth:      e.auth,
		Refresher: refresher,
		Logger:    e.logger,

		Config:     *e.cfg,
		ConfigPath: e.configPath,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUser
	}
	return exitOK
}

// --- login / register / logout / whoami ---

type loginCmd struct {
	email    string
	password string
}

func (c *loginCmd) synopsis() string { return "sign in and remember the session" }
func (c *loginCmd) needsEnv() bool   { return true }

func (c *loginCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "account email")
	fs.StringVar(&c.password, "password", "", "password (prompted when empty)")
}

func (c *loginCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if c.email == "" || c.password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&c.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.password),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return fail(errOut, err)
		}
	}

	u, err := e.auth.Login(ctx, c.email, c.password)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "logged in as %s <%s>\n", u.Username, u.Email)
	return exitOK
}

type registerCmd struct {
	reg api.Registration
}

func (c *registerCmd) synopsis() string { return "create an account" }
func (c *registerCmd) needsEnv() bool   { return true }

func (c *registerCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.reg.Username, "username", "", "username")
	fs.StringVar(&c.reg.Email, "email", "", "email")
	fs.StringVar(&c.reg.Name, "name", "", "display name")
	fs.StringVar(&c.reg.Password, "password", "", "password (prompted when empty)")
}

func (c *registerCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if c.reg.Username == "" || c.reg.Email == "" || c.reg.Password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&c.reg.Username),
			huh.NewInput().Title("Email").Value(&c.reg.Email),
			huh.NewInput().Title("Name").Value(&c.reg.Name),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.reg.Password),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return fail(errOut, err)
		}
	}

	u, err := e.auth.Register(ctx, c.reg)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "registered and logged in as %s\n", u.Username)
	return exitOK
}

type logoutCmd struct{}

func (c *logoutCmd) synopsis() string       { return "forget the session and the local cache" }
func (c *logoutCmd) needsEnv() bool         { return true }
func (c *logoutCmd) register(*flag.FlagSet) {}

func (c *logoutCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := e.auth.Logout(ctx); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, "logged out")
	return exitOK
}

type whoamiCmd struct{}

func (c *whoamiCmd) synopsis() string       { return "show the signed-in account" }
func (c *whoamiCmd) needsEnv() bool         { return true }
func (c *whoamiCmd) register(*flag.FlagSet) {}

func (c *whoamiCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}
	u, err := e.auth.Me(ctx)
	if err := warnStale(errOut, err); err != nil {
		return fail(errOut, err)
	}
	printUser(out, *u)
	return exitOK
}

type profileCmd struct {
	name string
}

func (c *profileCmd) synopsis() string { return "change the display name" }
func (c *profileCmd) needsEnv() bool   { return true }

func (c *profileCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "new display name")
}

func (c *profileCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if strings.TrimSpace(c.name) == "" {
		fmt.Fprintln(errOut, "error: -name is required")
		return exitUser
	}
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}
	u, err := e.auth.UpdateProfile(ctx, c.name)
	if err != nil {
		return fail(errOut, err)
	}
	printUser(out, *u)
	return exitOK
}

type passwdCmd struct{}

func (c *passwdCmd) synopsis() string       { return "change the account password" }
func (c *passwdCmd) needsEnv() bool         { return true }
func (c *passwdCmd) register(*flag.FlagSet) {}

func (c *passwdCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}

	var oldPw, newPw, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&oldPw),
		huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&newPw),
		huh.NewInput().Title("Repeat new password").EchoMode(huh.EchoModePassword).Value(&confirm).
			Validate(func(s string) error {
				if s != newPw {
					return errors.New("passwords do not match")
				}
				return nil
			}),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return fail(errOut, err)
	}

	if err := e.auth.ChangePassword(ctx, oldPw, newPw); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, "password changed")
	return exitOK
}

// --- todos ---

type listCmd struct {
	status   string
	search   string
	category string
	priority string
	sort     string
}

func (c *listCmd) synopsis() string { return "print todos" }
func (c *listCmd) needsEnv() bool   { return true }

func (c *listCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "all", "all, active or completed")
	fs.StringVar(&c.search, "search", "", "case-insensitive text match")
	fs.StringVar(&c.category, "category", "all", "category wire value or all")
	fs.StringVar(&c.priority, "priority", "all", "high, medium, low or all")
	fs.StringVar(&c.sort, "sort", "", "date, priority or deadline (default from config)")
}

func (c *listCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := load(ctx, e, errOut); err != nil {
		return fail(errOut, err)
	}

	view := e.todos.State().View
	view.Status = engine.StatusFilter(c.status)
	view.Search = c.search
	view.Category = engine.ParseCategoryFilter(c.category)
	view.Priority = engine.ParsePriorityFilter(c.priority)
	if c.sort != "" {
		view.Sort = engine.SortKey(c.sort)
	}

	st := e.todos.SetView(view.Normalize())
	visible := st.Visible()
	printTodos(out, visible, time.Now())
	counts := st.Counts()
	fmt.Fprintf(out, "%d of %d shown · %d active · %d completed\n", len(visible), counts.Total(), counts.Active, counts.Completed)
	return exitOK
}

type addCmd struct {
	priority    string
	category    string
	due         string
	description string
}

func (c *addCmd) synopsis() string { return "create a todo: add [flags] <text>" }
func (c *addCmd) needsEnv() bool   { return true }

func (c *addCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "medium", "high, medium or low")
	fs.StringVar(&c.category, "category", "", "category")
	fs.StringVar(&c.due, "due", "", "YYYY-MM-DD or YYYY-MM-DD HH:MM")
	fs.StringVar(&c.description, "description", "", "details")
}

func (c *addCmd) run(ctx context.Context, e *env, args []string, out, errOut io.Writer) int {
	due, err := todoform.ParseDue(c.due, time.Local)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUser
	}
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}

	st, err := e.todos.Create(ctx, api.TodoCreate{
		Text:        strings.Join(args, " "),
		DueDate:     due,
		Category:    model.ParseCategory(c.category),
		Priority:    model.ParsePriority(c.priority),
		Description: c.description,
	})
	if err != nil {
		return fail(errOut, err)
	}
	printTodos(out, st.Todos[:1], time.Now())
	return exitOK
}

type doneCmd struct{}

func (c *doneCmd) synopsis() string       { return "toggle a todo's completion: done <id>" }
func (c *doneCmd) needsEnv() bool         { return true }
func (c *doneCmd) register(*flag.FlagSet) {}

func (c *doneCmd) run(ctx context.Context, e *env, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUser
	}
	if err := load(ctx, e, errOut); err != nil {
		return fail(errOut, err)
	}
	st, err := e.todos.Toggle(ctx, id)
	if err != nil {
		return fail(errOut, err)
	}
	t, _ := st.Find(id)
	printTodos(out, []model.Todo{t}, time.Now())
	return exitOK
}

type rmCmd struct{}

func (c *rmCmd) synopsis() string       { return "delete a todo: rm <id>" }
func (c *rmCmd) needsEnv() bool         { return true }
func (c *rmCmd) register(*flag.FlagSet) {}

func (c *rmCmd) run(ctx context.Context, e *env, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUser
	}
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}
	if _, err := e.todos.Delete(ctx, id); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "deleted %d\n", id)
	return exitOK
}

type clearCmd struct{}

func (c *clearCmd) synopsis() string       { return "delete every completed todo" }
func (c *clearCmd) needsEnv() bool         { return true }
func (c *clearCmd) register(*flag.FlagSet) {}

func (c *clearCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := load(ctx, e, errOut); err != nil {
		return fail(errOut, err)
	}
	n := e.todos.State().Counts().Completed
	if _, err := e.todos.ClearCompleted(ctx); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "cleared %d completed\n", n)
	return exitOK
}

type statsCmd struct{}

func (c *statsCmd) synopsis() string       { return "print statistics" }
func (c *statsCmd) needsEnv() bool         { return true }
func (c *statsCmd) register(*flag.FlagSet) {}

func (c *statsCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := load(ctx, e, errOut); err != nil {
		return fail(errOut, err)
	}
	printStats(out, e.todos.Stats())
	return exitOK
}

type calendarCmd struct {
	month string
}

func (c *calendarCmd) synopsis() string { return "print due dates for a month and what is coming up" }
func (c *calendarCmd) needsEnv() bool   { return true }

func (c *calendarCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.month, "month", "", "YYYY-MM (default this month)")
}

func (c *calendarCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	now := time.Now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	if c.month != "" {
		m, err := time.ParseInLocation("2006-01", c.month, time.Local)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid month %q, want YYYY-MM\n", c.month)
			return exitUser
		}
		month = m
	}
	if err := load(ctx, e, errOut); err != nil {
		return fail(errOut, err)
	}
	printCalendar(out, e.todos.State().Todos, month, now)
	return exitOK
}

// --- notes ---

type notesCmd struct {
	search   string
	category string
}

func (c *notesCmd) synopsis() string { return "print notes" }
func (c *notesCmd) needsEnv() bool   { return true }

func (c *notesCmd) register(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "case-insensitive title or content match")
	fs.StringVar(&c.category, "category", "all", "category or all")
}

func (c *notesCmd) run(ctx context.Context, e *env, _ []string, out, errOut io.Writer) int {
	if err := e.auth.Restore(); err != nil {
		return fail(errOut, err)
	}
	if _, err := e.notes.Load(ctx); warnStale(errOut, err) != nil {
		return fail(errOut, err)
	}
	printNotes(out, e.notes.Search(c.search, engine.ParseCategoryFilter(c.category)))
	printNoteCategories(out, engine.NoteCategoryCounts(e.notes.List()))
	return exitOK
}

// --- version ---

type versionCmd struct{}

func (c *versionCmd) synopsis() string       { return "print the version" }
func (c *versionCmd) needsEnv() bool         { return false }
func (c *versionCmd) register(*flag.FlagSet) {}

func (c *versionCmd) run(_ context.Context, _ *env, _ []string, out, _ io.Writer) int {
	fmt.Fprintf(out, "todo %s\n", version)
	return exitOK
}
