// Command rpncalc evaluates RPN expressions and prints them in infix form.
//
// Usage:
//
//	rpncalc eval [-trace] [-debug] <rpn>...
//	rpncalc infix [-debug] <rpn>...
//	rpncalc repl [-trace]
//
// Tokens may be given as separate arguments or as one quoted string:
//
//	rpncalc eval 1 2 + 3 4 + '*'
//	rpncalc infix "6 1 - 1 1 + *"
//
// An expression starting with a negative literal must follow "--":
//
//	rpncalc eval -- -5 3 +
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"

	"github.com/sandrolain/rpncalc"
	"github.com/sandrolain/rpncalc/pkg/parser"
)

const (
	appName     = "rpncalc"
	historyFile = ".rpncalc_history"
	prompt      = "rpn> "
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var (
	banner   = fmt.Sprintf("rpncalc %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.", rpncalc.Version())
	helpText = `
REPL commands:
  :trace   Toggle the evaluation trace
  :help    Show this help
  :quit    Exit the REPL
`
	usageText = `usage:
  rpncalc eval [-trace] [-debug] <rpn>...
  rpncalc infix [-debug] <rpn>...
  rpncalc repl [-trace]
  rpncalc version
`
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return exitUsage
	}
	switch args[0] {
	case "eval":
		return cmdEval(args[1:], stdout, stderr)
	case "infix":
		return cmdInfix(args[1:], stdout, stderr)
	case "repl":
		return cmdRepl(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, rpncalc.Version())
		return exitOK
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return exitOK
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n%s", appName, args[0], usageText)
		return exitUsage
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// joinTokens accepts both "1 2 +" and 1 2 + forms.
func joinTokens(args []string) string {
	return strings.Join(parser.Split(strings.Join(args, " ")), " ")
}

// -----------------------------------------------------------------------------
// eval / infix
// -----------------------------------------------------------------------------

func cmdEval(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trace := fs.Bool("trace", false, "print remaining tokens and stack after each step")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "eval: missing expression")
		return exitUsage
	}

	calc := rpncalc.New(
		rpncalc.WithTraceWriter(stdout),
		rpncalc.WithTrace(*trace),
		rpncalc.WithDebug(*debug),
		rpncalc.WithLogger(newLogger(stderr, *debug)),
	)

	v, err := calc.EvalString(joinTokens(fs.Args()))
	if err != nil {
		fmt.Fprintln(stderr, red(err.Error()))
		return exitError
	}
	fmt.Fprintln(stdout, v)
	return exitOK
}

func cmdInfix(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("infix", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "infix: missing expression")
		return exitUsage
	}

	calc := rpncalc.New(
		rpncalc.WithDebug(*debug),
		rpncalc.WithLogger(newLogger(stderr, *debug)),
	)

	s, err := calc.Infix(joinTokens(fs.Args()))
	if err != nil {
		fmt.Fprintln(stderr, red(err.Error()))
		return exitError
	}
	fmt.Fprintln(stdout, s)
	return exitOK
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

// evalLine renders and evaluates one REPL line as "<infix> = <value>".
func evalLine(calc *rpncalc.Calculator, line string) (string, error) {
	s, err := calc.Infix(line)
	if err != nil {
		return "", err
	}
	v, err := calc.EvalString(line)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %d", s, v), nil
}

// historyPath returns ~/.rpncalc_history.
func historyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, historyFile), nil
}

type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// saveHistory writes the REPL history to path. An empty path is a no-op.
func saveHistory(h historyWriter, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := h.WriteHistory(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func cmdRepl(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trace := fs.Bool("trace", false, "start with the evaluation trace enabled")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	fmt.Fprintln(stdout, banner)

	histPath, err := historyPath()
	if err != nil {
		newLogger(stderr, false).Warn("history disabled", "error", err)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var saveOnce sync.Once
	save := func() {
		saveOnce.Do(func() {
			if err := saveHistory(ln, histPath); err != nil {
				newLogger(stderr, false).Warn("history not saved", "path", histPath, "error", err)
			}
		})
	}
	defer save()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		// os.Exit skips deferred calls.
		save()
		ln.Close()
		os.Exit(130)
	}()

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	tracing := *trace
	newCalc := func() *rpncalc.Calculator {
		return rpncalc.New(rpncalc.WithTraceWriter(stdout), rpncalc.WithTrace(tracing))
	}
	calc := newCalc()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return exitOK
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(stderr, red(err.Error()))
			return exitError
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			switch strings.ToLower(line) {
			case ":quit", ":q":
				return exitOK
			case ":help":
				fmt.Fprint(stdout, helpText)
			case ":trace":
				tracing = !tracing
				calc = newCalc()
				fmt.Fprintf(stdout, "trace %v\n", tracing)
			default:
				fmt.Fprintln(stdout, "unknown command. Type :help for commands.")
			}
			continue
		}

		ln.AppendHistory(line)
		out, err := evalLine(calc, line)
		if err != nil {
			fmt.Fprintln(stderr, red(err.Error()))
			continue
		}
		fmt.Fprintln(stdout, green(out))
	}
}
