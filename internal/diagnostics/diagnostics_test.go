package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atul1503/pyrinas/internal/token"
)

func TestErrorStringIncludesPosition(t *testing.T) {
	err := TypeErr(token.Position{File: "m.pyr", Line: 3, Column: 5}, "cannot add %s and %s", "int", "str")
	got := err.Error()
	if !strings.Contains(got, "m.pyr:3:5") || !strings.Contains(got, "TypeError") {
		t.Fatalf("unexpected error string: %q", got)
	}
}

func TestErrorStringWithoutPosition(t *testing.T) {
	err := ImportErr(token.Position{}, "module not found: %s", "util")
	got := err.Error()
	if strings.Contains(got, ":") == false {
		t.Fatalf("expected kind-prefixed message, got %q", got)
	}
	if strings.Contains(got, "0:0") {
		t.Fatalf("expected invalid position to be omitted, got %q", got)
	}
}

func TestFprintToBufferIsUncolored(t *testing.T) {
	var buf bytes.Buffer
	errs := []*Error{NameErr(token.Position{File: "m.pyr", Line: 1, Column: 1}, "undefined name %q", "x")}
	Fprint(&buf, errs)
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("expected no ANSI escapes writing to a plain buffer, got %q", buf.String())
	}
}

func TestSummaryPluralization(t *testing.T) {
	one := []*Error{NameErr(token.Position{}, "x")}
	two := []*Error{NameErr(token.Position{}, "x"), NameErr(token.Position{}, "y")}
	if Summary(one) != "1 error" {
		t.Fatalf("expected singular, got %q", Summary(one))
	}
	if Summary(two) != "2 errors" {
		t.Fatalf("expected plural, got %q", Summary(two))
	}
}
