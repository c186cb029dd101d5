// Package manifest loads a project's pyrinas.yaml: the entry file, module
// search paths, and the C compiler/linker
// settings codegen needs to hand off a finished .c file to a toolchain.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the top-level pyrinas.yaml shape.
type Manifest struct {
	// Entry is the .pyr file to compile, relative to the manifest's
	// directory. Defaults to "main.pyr".
	Entry string `yaml:"entry,omitempty"`

	// Output is where the generated C source is written. Defaults to
	// "build/<entry-basename>.c".
	Output string `yaml:"output,omitempty"`

	// SearchPaths lists additional directories for bare module-name
	// imports. It is parsed but not passed to the resolver that
	// cmd/pyrinas builds, which searches only the importing file's
	// directory and the entry directory with its modules/lib/src
	// subdirectories.
	SearchPaths []string `yaml:"search_paths,omitempty"`

	// CC is the C compiler invoked to build the generated source.
	// Defaults to "cc".
	CC string `yaml:"cc,omitempty"`

	// CFlags are extra flags passed to CC, beyond the -l flags codegen
	// derives automatically from @c_function library names.
	CFlags []string `yaml:"cflags,omitempty"`
}

func (m *Manifest) setDefaults() {
	if m.Entry == "" {
		m.Entry = "main.pyr"
	}
	if m.Output == "" {
		base := filepath.Base(m.Entry)
		ext := filepath.Ext(base)
		m.Output = filepath.Join("build", base[:len(base)-len(ext)]+".c")
	}
	if m.CC == "" {
		m.CC = "cc"
	}
}

// Load reads and parses a pyrinas.yaml file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses pyrinas.yaml content already read into memory. path is
// used only for error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.setDefaults()
	return &m, nil
}

// Find walks upward from dir looking for pyrinas.yaml, the way a
// .gitignore search works, returning "" with no error if none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "pyrinas.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
