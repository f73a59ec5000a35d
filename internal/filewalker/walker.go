package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists the source file types scanned in directories.
var SupportedExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
}

// Walker expands command-line paths into source files.
type Walker struct {
	extensions map[string]bool
}

// NewWalker creates a Walker for SupportedExtensions.
func NewWalker() *Walker {
	return &Walker{extensions: SupportedExtensions}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path string
	Ext  string
}

// Walk expands paths in order. Files named explicitly are always included;
// directories are searched recursively for supported extensions, skipping
// hidden directories and dependency folders. Duplicates are dropped.
func (w *Walker) Walk(paths ...string) ([]FileEntry, error) {
	var entries []FileEntry
	seen := make(map[string]bool)

	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		entries = append(entries, FileEntry{Path: clean, Ext: strings.ToLower(filepath.Ext(clean))})
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		count := len(entries)
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Error walking path")
				return nil
			}

			if d.IsDir() {
				if path != root && (skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}

			if w.extensions[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory: %w", err)
		}

		log.Debug().Int("count", len(entries)-count).Str("root", root).Msg("Discovered files")
	}

	log.Info().Int("count", len(entries)).Msg("Discovered files")
	return entries, nil
}
