// Package diagnostics is the typed-error surface the analyzer and code
// generator report through, plus an isatty-aware renderer for the CLI.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/atul1503/pyrinas/internal/token"
)

// Kind is the closed set of diagnostic categories from spec.md §4.3/§7.
type Kind int

const (
	NameError Kind = iota
	TypeError
	SyntaxError
	ImportError
)

func (k Kind) String() string {
	switch k {
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case SyntaxError:
		return "SyntaxError"
	case ImportError:
		return "ImportError"
	default:
		return "Error"
	}
}

// Error is a single compile-time diagnostic, carrying enough to point a
// reader at the offending source location the way gcc does.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func NameErr(pos token.Position, format string, args ...interface{}) *Error {
	return New(NameError, pos, format, args...)
}

func TypeErr(pos token.Position, format string, args ...interface{}) *Error {
	return New(TypeError, pos, format, args...)
}

func SyntaxErr(pos token.Position, format string, args ...interface{}) *Error {
	return New(SyntaxError, pos, format, args...)
}

func ImportErr(pos token.Position, format string, args ...interface{}) *Error {
	return New(ImportError, pos, format, args...)
}

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// colorEnabled mirrors the NO_COLOR / isatty / TERM=dumb checks the
// evaluator's terminal builtins use, restricted to the single on/off
// decision the CLI's diagnostic printer needs.
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Fprint renders errs to w, one per line, colorizing the kind label when w
// is a real terminal.
func Fprint(w io.Writer, errs []*Error) {
	color := colorEnabled(w)
	for _, e := range errs {
		if !color {
			fmt.Fprintln(w, e.Error())
			continue
		}
		kind := colorRed + e.Kind.String() + colorReset
		if e.Pos.IsValid() {
			fmt.Fprintf(w, "%s: %s: %s\n", e.Pos, kind, e.Message)
		} else {
			fmt.Fprintf(w, "%s: %s\n", kind, e.Message)
		}
	}
}

// Summary formats a short "N errors" trailer, used by the CLI after a
// failed compile.
func Summary(errs []*Error) string {
	if len(errs) == 1 {
		return "1 error"
	}
	return fmt.Sprintf("%d errors", len(errs))
}

// Join renders errs as a single newline-joined string, for embedding in a
// wrapping error returned from a non-CLI caller (e.g. tests).
func Join(errs []*Error) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
