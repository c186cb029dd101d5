package resolver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const sourceExt = ".pyr"

// resolveImportPath turns an import path into an absolute, existing file
// path, following the same precedence as the original: URL, then
// absolute, then relative, then slash-qualified, then bare module-name
// search.
func (r *Resolver) resolveImportPath(importPath, currentFile string) (string, error) {
	switch {
	case strings.HasPrefix(importPath, "http://"), strings.HasPrefix(importPath, "https://"):
		return r.resolveURLImport(importPath)
	case strings.HasPrefix(importPath, "/"):
		return existingOrError(withExt(importPath), importPath)
	case strings.HasPrefix(importPath, "./"), strings.HasPrefix(importPath, "../"):
		return existingOrError(withExt(filepath.Join(currentDir(currentFile, r.basePath), importPath)), importPath)
	case strings.Contains(importPath, "/"):
		return existingOrError(withExt(filepath.Join(currentDir(currentFile, r.basePath), importPath)), importPath)
	default:
		return r.resolveModuleName(importPath, currentFile)
	}
}

func withExt(path string) string {
	if strings.HasSuffix(path, sourceExt) {
		return path
	}
	return path + sourceExt
}

func currentDir(currentFile, fallback string) string {
	if currentFile == "" {
		return fallback
	}
	return filepath.Dir(currentFile)
}

func existingOrError(candidate, originalImport string) (string, error) {
	if abs, err := filepath.Abs(candidate); err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			return abs, nil
		}
	}
	return "", fmt.Errorf("module not found: %s", originalImport)
}

// resolveModuleName tries the original's four name-guessing patterns
// across every search path, preferring the importing file's own
// directory first.
func (r *Resolver) resolveModuleName(moduleName, currentFile string) (string, error) {
	possibleNames := []string{
		moduleName + sourceExt,
		filepath.Join(moduleName, "main"+sourceExt),
		filepath.Join(moduleName, "index"+sourceExt),
		filepath.Join(moduleName, moduleName+sourceExt),
	}

	searchDirs := append([]string{}, r.searchPaths...)
	if currentFile != "" {
		searchDirs = append([]string{filepath.Dir(currentFile)}, searchDirs...)
	}

	for _, dir := range searchDirs {
		for _, name := range possibleNames {
			candidate := filepath.Join(dir, name)
			if abs, err := filepath.Abs(candidate); err == nil {
				if _, statErr := os.Stat(abs); statErr == nil {
					return abs, nil
				}
			}
		}
	}
	return "", fmt.Errorf("module %q not found in search paths %v", moduleName, searchDirs)
}

// resolveURLImport downloads and caches a module fetched over HTTP(S).
// The cache file name is a UUID derived deterministically from the URL
// (version 5, same inputs always produce the same name) so repeated
// compiles of the same project reuse one cached copy instead of
// re-downloading, while still giving every distinct URL its own file.
func (r *Resolver) resolveURLImport(url string) (string, error) {
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create module cache directory: %w", err)
	}

	cacheName := uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String() + sourceExt
	cacheFile := filepath.Join(r.cacheDir, cacheName)

	if _, err := os.Stat(cacheFile); err == nil {
		return cacheFile, nil
	}

	resp, err := r.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download module from %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download module from %s: status %s", url, resp.Status)
	}

	out, err := os.Create(cacheFile)
	if err != nil {
		return "", fmt.Errorf("failed to cache module from %s: %w", url, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to cache module from %s: %w", url, err)
	}
	return cacheFile, nil
}
