// Package diag reports fatal compiler errors. spec.md §7 mandates a
// single aborted compilation per error, no warnings and no recovery;
// grounded on ComedicChimera-chai's src/logging/display.go pterm-styled
// prefixes, substituted for the teacher's plain, colorless
// fmt.Fprintln(os.Stderr, ...) diagnostics because this corpus's only
// color/diagnostics library is pterm.
package diag

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

// Kind is the taxonomy of spec.md §7.
type Kind string

const (
	Syntactic  Kind = "syntax"
	Resolution Kind = "resolution"
	TypeErr    Kind = "type"
	Shape      Kind = "shape"
	ControlErr Kind = "control-flow"
	LibraryErr Kind = "library"
)

// Error is a fatal compiler diagnostic. It implements error so phase
// functions can return it synchronously up the call stack.
type Error struct {
	Line int
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New constructs a diagnostic without reporting it.
func New(line int, kind Kind, format string, args ...any) *Error {
	return &Error{Line: line, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Report prints err to stderr in the compiler's diagnostic style. It
// does not exit; Fatal calls it and then exits.
func Report(err error) {
	pterm.Error.Println(err.Error())
}

// Fatal prints err and exits the process with status 1. Used only at
// the top level (cmd/sysyc/main.go) once a phase has returned a non-nil
// error — spec.md §7: "any error aborts the current compilation with
// exit 1".
func Fatal(err error) {
	Report(err)
	os.Exit(1)
}

// Info prints a verbose-mode progress line to stdout.
func Info(format string, args ...any) {
	pterm.Info.Println(fmt.Sprintf(format, args...))
}
