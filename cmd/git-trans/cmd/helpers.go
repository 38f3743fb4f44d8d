package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs"
	"github.com/bianoble/git-trans/pkg/gittrans"
)

// Output streams. Command output goes to stdout, diagnostics to stderr.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// setupLogger builds the diagnostic logger from --log-level and --log-format.
func setupLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	if verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if logFormat == "json" {
		handler = slog.NewJSONHandler(stderr, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}
	return slog.New(handler)
}

// openClient resolves the repository and configuration for a command.
func openClient(cmd *cobra.Command) (*gittrans.Client, error) {
	return gittrans.Open(cmd.Context(), gittrans.Options{
		Dir:        workDir,
		GitBinary:  gitBinary,
		ConfigPath: configPath,
		Logger:     setupLogger(),
	})
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, "error: "+format+"\n", args...)
}

// confirm asks a yes/no question on the terminal. Anything but "y" or
// "yes" declines.
func confirm(question string) (bool, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(question + " (yes/no): ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "yes" || answer == "y", nil
}

// reportFailures prints every error folded into err and returns a summary.
func reportFailures(err error, what string) error {
	errs := multierr.Errors(err)
	for _, e := range errs {
		errorf("%v", e)
	}
	return fmt.Errorf("%d file(s) could not be %s", len(errs), what)
}

// entryLine renders a ledger entry as "<progress> <synced> <locked>  <path>".
func entryLine(f ledger.TrackedFile, rel string) string {
	synced, locked := "-", "-"
	if f.Synced {
		synced = "S"
	}
	if f.Lock == ledger.Locked {
		locked = "L"
	}
	return fmt.Sprintf("%s %s %s  %s", f.Progress.Short(), synced, locked, rel)
}

func short(rev string) string {
	return vcs.ShortRevision(rev)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
