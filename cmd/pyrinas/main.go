// Command pyrinas is the compiler driver: it wires internal/jsonast,
// internal/resolver, internal/analyzer, and internal/codegen into the
// four-stage pipeline spec.md §6.3 describes (load AST, resolve imports,
// analyze, generate C), and stops there — invoking a C compiler on the
// result is the downstream collaborator's job, not this binary's (spec.md
// §6.3 scopes "C compiler driver invocation" out).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atul1503/pyrinas/internal/analyzer"
	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/codegen"
	"github.com/atul1503/pyrinas/internal/config"
	"github.com/atul1503/pyrinas/internal/diagnostics"
	"github.com/atul1503/pyrinas/internal/jsonast"
	"github.com/atul1503/pyrinas/internal/manifest"
	"github.com/atul1503/pyrinas/internal/resolver"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pyrinas <entry.pyr> [-o output.c] [-manifest pyrinas.yaml]")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	entryPath := ""
	outputPath := ""
	manifestPath := ""
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				usage()
				os.Exit(1)
			}
			outputPath = args[i+1]
			i++
		case "-manifest", "--manifest":
			if i+1 >= len(args) {
				usage()
				os.Exit(1)
			}
			manifestPath = args[i+1]
			i++
		case "-help", "--help":
			usage()
			return
		default:
			if entryPath == "" {
				entryPath = args[i]
			}
		}
	}

	if entryPath == "" {
		usage()
		os.Exit(1)
	}

	m, err := loadManifest(manifestPath, filepath.Dir(entryPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pyrinas: %s\n", err)
		os.Exit(1)
	}
	if outputPath == "" {
		outputPath = m.Output
	}

	code, libs, err := compile(entryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pyrinas: %s\n", err)
		os.Exit(1)
	}

	if err := writeOutput(outputPath, code); err != nil {
		fmt.Fprintf(os.Stderr, "pyrinas: %s\n", err)
		os.Exit(1)
	}

	flags := append([]string{}, m.CFlags...)
	for _, l := range libs {
		flags = append(flags, "-l"+l)
	}
	fmt.Printf("wrote %s\n", outputPath)
	fmt.Printf("link: %s %s %s\n", m.CC, outputPath, strings.Join(flags, " "))
}

func loadManifest(explicitPath, searchDir string) (*manifest.Manifest, error) {
	path := explicitPath
	if path == "" {
		found, err := manifest.Find(searchDir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return manifest.Parse(nil, "pyrinas.yaml")
	}
	return manifest.Load(path)
}

// astPath derives the JSON AST sidecar path for a .pyr source file: the
// out-of-scope host parser is expected to have already produced it at the
// same path with the source extension swapped for .json.
func astPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, config.SourceFileExt) + ".json"
}

// compile runs the full load-resolve-analyze-generate pipeline for the
// entry module at entryPath, returning the emitted C source and the link
// library list codegen derived from @c_function decorators (always
// including "m").
func compile(entryPath string) (string, []string, error) {
	basePath := filepath.Dir(entryPath)

	entryProg, err := jsonast.DecodeFile(astPath(entryPath), entryPath)
	if err != nil {
		return "", nil, fmt.Errorf("loading AST for %s: %w", entryPath, err)
	}

	res := resolver.New(basePath, "", jsonastLoader)
	result, errs := analyzer.Analyze(entryProg, res)
	if len(errs) > 0 {
		diagnostics.Fprint(os.Stderr, errs)
		return "", nil, fmt.Errorf("%s", diagnostics.Summary(errs))
	}

	out := codegen.Generate(entryProg, result)
	return out.Code, out.CLibraries, nil
}

// jsonastLoader is the resolver.Loader: it turns a resolved module path
// into its AST by reading that module's own JSON sidecar.
func jsonastLoader(path string) (*ast.Program, error) {
	return jsonast.DecodeFile(astPath(path), path)
}

func writeOutput(outputPath, code string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(code), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	headerPath := filepath.Join(filepath.Dir(outputPath), "pyrinas.h")
	if err := os.WriteFile(headerPath, []byte(codegen.RuntimeHeader), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", headerPath, err)
	}
	return nil
}
