// Package security checks the locations that scan files, plots and training
// archives are written to.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned when a path resolves outside the directory
// it must stay within.
var ErrOutsideDirectory = errors.New("path escapes directory")

// maxFilenameLen bounds SanitizeFilename results.
const maxFilenameLen = 128

// canonicalPath returns the absolute form of path with symlinks resolved.
// For a path that does not exist yet, the deepest existing ancestor is
// resolved and the remainder appended, so a symlinked parent cannot smuggle
// a new file elsewhere.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rel, err := filepath.Rel(dir, abs)
			if err != nil {
				return "", err
			}
			return filepath.Join(resolved, rel), nil
		}
		if filepath.Dir(dir) == dir {
			return abs, nil
		}
	}
}

// ValidateWithin reports ErrOutsideDirectory if path does not resolve to a
// location inside dir.
func ValidateWithin(path, dir string) error {
	p, err := canonicalPath(path)
	if err != nil {
		return err
	}
	d, err := canonicalPath(dir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is not within %s", ErrOutsideDirectory, path, dir)
	}
	return nil
}

// JoinWithin sanitizes name, joins it onto dir and validates the result.
func JoinWithin(dir, name string) (string, error) {
	path := filepath.Join(dir, SanitizeFilename(name))
	if err := ValidateWithin(path, dir); err != nil {
		return "", err
	}
	return path, nil
}

// SanitizeFilename makes a file name from an arbitrary string such as a
// scan name or output suffix. Runs of characters other than ASCII letters,
// digits, dot, underscore and dash become a single underscore; leading and
// trailing dots or underscores are trimmed. An empty result is "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		switch {
		case r < 0x80 && (r == '.' || r == '_' || r == '-' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')):
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
