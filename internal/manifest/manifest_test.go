package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseAppliesDefaults(t *testing.T) {
	m, err := Parse([]byte(``), "pyrinas.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entry != "main.pyr" {
		t.Fatalf("expected default entry main.pyr, got %q", m.Entry)
	}
	if m.Output != filepath.Join("build", "main.c") {
		t.Fatalf("expected default output build/main.c, got %q", m.Output)
	}
	if m.CC != "cc" {
		t.Fatalf("expected default cc, got %q", m.CC)
	}
}

func TestParseHonorsExplicitFields(t *testing.T) {
	yamlSrc := []byte("entry: src/app.pyr\noutput: out/app.c\ncc: clang\ncflags: [-O2]\nsearch_paths: [vendor]\n")
	m, err := Parse(yamlSrc, "pyrinas.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entry != "src/app.pyr" || m.Output != "out/app.c" || m.CC != "clang" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if len(m.CFlags) != 1 || m.CFlags[0] != "-O2" {
		t.Fatalf("unexpected cflags: %v", m.CFlags)
	}
}

func TestFindWalksUpToParentDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pyrinas.yaml"), []byte("entry: main.pyr\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == "" {
		t.Fatal("expected to find the manifest in a parent directory")
	}
}

func TestFindReturnsEmptyWhenAbsent(t *testing.T) {
	found, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Fatalf("expected no manifest to be found, got %q", found)
	}
}
