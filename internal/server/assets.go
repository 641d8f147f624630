package server

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveAssetsDir returns the directory to serve static files from. A
// configured directory must exist; otherwise a "web" directory is looked
// for next to the working directory and the executable.
func ResolveAssetsDir(configured string) (string, error) {
	if configured != "" {
		info, err := os.Stat(configured)
		if err != nil {
			return "", fmt.Errorf("assets directory: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("assets directory: %s is not a directory", configured)
		}
		return filepath.Abs(configured)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve assets: %w", err)
	}
	if dir, ok := resolveAssetsDirFrom(cwd); ok {
		return dir, nil
	}
	if exe, err := os.Executable(); err == nil {
		if dir, ok := resolveAssetsDirFrom(filepath.Dir(exe)); ok {
			return dir, nil
		}
	}
	return "", fmt.Errorf("assets directory not found")
}

func resolveAssetsDirFrom(base string) (string, bool) {
	candidates := []string{
		filepath.Join(base, "web"),
		filepath.Join(base, "..", "web"),
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		return abs, true
	}
	return "", false
}
