package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atul1503/pyrinas/internal/ast"
)

func writeTempModule(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func emptyLoader(path string) (*ast.Program, error) {
	return &ast.Program{File: path, Body: []ast.Stmt{
		&ast.FunctionDef{Name: "main", Body: []ast.Stmt{&ast.Pass{}}},
	}}, nil
}

func TestResolveRelativeImport(t *testing.T) {
	dir := t.TempDir()
	writeTempModule(t, dir, "util.pyr")
	currentFile := filepath.Join(dir, "app.pyr")

	r := New(dir, filepath.Join(dir, "cache"), emptyLoader)
	exports, err := r.Resolve("./util", currentFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exports.Path == "" {
		t.Fatal("expected a resolved path")
	}
}

func TestResolveBareModuleNameSearchesModulesDir(t *testing.T) {
	dir := t.TempDir()
	modulesDir := filepath.Join(dir, "modules")
	if err := os.MkdirAll(modulesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTempModule(t, modulesDir, "geometry.pyr")

	r := New(dir, filepath.Join(dir, "cache"), emptyLoader)
	exports, err := r.Resolve("geometry", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(exports.Path) != "geometry.pyr" {
		t.Fatalf("expected geometry.pyr, got %s", exports.Path)
	}
}

func TestResolveMissingModuleErrors(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, filepath.Join(dir, "cache"), emptyLoader)
	if _, err := r.Resolve("does_not_exist", ""); err == nil {
		t.Fatal("expected an error for a missing module")
	}
}

func TestResolveCachesRepeatedAnalysis(t *testing.T) {
	dir := t.TempDir()
	writeTempModule(t, dir, "util.pyr")
	calls := 0
	loader := func(path string) (*ast.Program, error) {
		calls++
		return emptyLoader(path)
	}

	r := New(dir, filepath.Join(dir, "cache"), loader)
	if _, err := r.Resolve("util", ""); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, err := r.Resolve("util", ""); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the loader to run once for a cached module, ran %d times", calls)
	}
}

func TestResolveCircularImportReturnsInProgressExports(t *testing.T) {
	dir := t.TempDir()
	writeTempModule(t, dir, "a.pyr")

	var r *Resolver
	loader := func(path string) (*ast.Program, error) {
		exports, err := r.Resolve("a", "")
		if err != nil {
			t.Fatalf("reentrant resolve of a module still loading should not error: %v", err)
		}
		if exports == nil {
			t.Fatal("expected a non-nil placeholder for the in-progress module")
		}
		return emptyLoader(path)
	}
	r = New(dir, filepath.Join(dir, "cache"), loader)

	if _, err := r.Resolve("a", ""); err != nil {
		t.Fatalf("unexpected top-level error: %v", err)
	}
}
