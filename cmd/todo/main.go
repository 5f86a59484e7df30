// Command todo is a terminal client for the task backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/nhle/todo-client/internal/model"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK      = 0
	exitUser    = 1
	exitAuth    = 2
	exitBackend = 3
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, openEnv))
}

// envOpener builds the runtime environment from configuration. Tests
// substitute one backed by fakes.
type envOpener func(cfg *model.AppConfig) (*env, error)

// run parses global flags, then dispatches to a subcommand. It returns
// the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer, open envOpener) int {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to config file")
	fs.Usage = func() { usage(errOut, fs) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUser
	}

	name := "tui"
	rest := fs.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}

	newCmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		usage(errOut, fs)
		return exitUser
	}
	cmd := newCmd()

	cmdFlags := flag.NewFlagSet(name, flag.ContinueOnError)
	cmdFlags.SetOutput(errOut)
	cmd.register(cmdFlags)
	if err := cmdFlags.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUser
	}

	if !cmd.needsEnv() {
		return cmd.run(ctx, nil, cmdFlags.Args(), out, errOut)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUser
	}
	e, err := open(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUser
	}
	defer e.Close()
	e.configPath = *configPath

	return cmd.run(ctx, e, cmdFlags.Args(), out, errOut)
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: todo [-config path] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n]().synopsis())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags:")
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(w, "  -%s  %s\n", f.Name, strings.TrimSpace(f.Usage))
	})
}
