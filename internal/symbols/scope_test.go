package symbols

import (
	"testing"

	"github.com/atul1503/pyrinas/internal/types"
)

func TestShadowingAcrossScopesAllowed(t *testing.T) {
	tab := NewTable()
	tab.Insert(NewVariable("x", types.Int, false))

	tab.Push()
	if got := tab.LookupCurrent("x"); got != nil {
		t.Fatalf("expected no 'x' in fresh inner scope, got %v", got)
	}
	tab.Insert(NewVariable("x", types.Float, false))
	if got := tab.Lookup("x"); got == nil || !got.Type.Equal(types.Float) {
		t.Fatalf("expected inner 'x' to shadow with float, got %v", got)
	}
	tab.Pop()

	if got := tab.Lookup("x"); got == nil || !got.Type.Equal(types.Int) {
		t.Fatalf("expected outer 'x' to be int after pop, got %v", got)
	}
}

func TestRedeclarationInSameScopeDetectedViaLookupCurrent(t *testing.T) {
	tab := NewTable()
	tab.Insert(NewVariable("x", types.Int, false))
	if tab.LookupCurrent("x") == nil {
		t.Fatal("expected LookupCurrent to find 'x' declared in the same scope")
	}
}

func TestPopGlobalScopePanics(t *testing.T) {
	tab := NewTable()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping the global scope")
		}
	}()
	tab.Pop()
}

func TestLookupWalksOutward(t *testing.T) {
	tab := NewTable()
	tab.Insert(NewVariable("g", types.Str, false))
	tab.Push()
	tab.Push()
	if got := tab.Lookup("g"); got == nil {
		t.Fatal("expected lookup to find global symbol from nested scope")
	}
	if got := tab.Lookup("missing"); got != nil {
		t.Fatalf("expected nil for undeclared name, got %v", got)
	}
}
