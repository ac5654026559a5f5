package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/evtop/evtop/internal/output"
)

// Exit statuses for the fatal error taxonomy. Per-host failures are
// absorbed as missing data and never change the exit status.
const (
	StatusGeneric       = 1
	StatusInvalidFilter = 2
	StatusNoTargets     = 3
	StatusNoSessions    = 4
)

// ExitError is a structured fatal error carrying a machine-readable
// code and a distinct process exit status.
type ExitError struct {
	Code    string
	Status  int
	Message string
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// fatal emits a fatal error to stderr and returns the ExitError for
// main to map onto the process exit status.
func fatal(globals *Globals, code string, status int, format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	label := fmt.Sprintf("Error [%s]", code)
	if stderrIsTerminal(globals) {
		label = output.Styles.Danger.Render(label)
	}
	fmt.Fprintf(globals.Stderr, "%s: %s\n", label, message)
	return &ExitError{Code: code, Status: status, Message: message}
}

// warn emits a non-fatal warning to stderr, respecting quiet mode.
func warn(globals *Globals, format string, args ...interface{}) {
	if globals.Quiet {
		return
	}
	label := "Warning"
	if stderrIsTerminal(globals) {
		label = output.Styles.Warn.Render(label)
	}
	fmt.Fprintf(globals.Stderr, "%s: %s\n", label, fmt.Sprintf(format, args...))
}

func stderrIsTerminal(globals *Globals) bool {
	f, ok := globals.Stderr.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func stdoutIsTerminal(globals *Globals) bool {
	f, ok := globals.Stdout.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
