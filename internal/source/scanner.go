// Package source finds the markdown documents under a docs root.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ScannedFile represents a markdown file found during scanning.
type ScannedFile struct {
	RelPath string // Relative path from the root (e.g., "guide/install.md")
	Folder  string // Folder path (path components except filename, e.g., "guide")
	AbsPath string // Absolute file path
}

// Scanner walks a docs root for markdown files.
type Scanner struct {
	root string
}

// NewScanner creates a Scanner for root. The path is made absolute.
func NewScanner(root string) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve docs root %s: %w", root, err)
	}
	return &Scanner{root: abs}, nil
}

// Root returns the absolute docs root.
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns every markdown file under the root in lexical order.
// Hidden directories are skipped, as are .md files whose content is not text.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			// .git, .obsidian and the like
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsMarkdown(path) {
			return nil
		}

		text, err := isText(path)
		if err != nil {
			return err
		}
		if !text {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		files = append(files, ScannedFile{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	return files, nil
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

func isText(path string) (bool, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to detect content type of %s: %w", path, err)
	}
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true, nil
		}
	}
	return false, nil
}
