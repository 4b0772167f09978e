package driver

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter matches annotation file paths against doublestar globs.
// A nil filter matches nothing.
type PathFilter struct {
	patterns []string
}

// NewPathFilter validates patterns and returns a filter, or nil when there
// are no patterns.
func NewPathFilter(patterns []string) (*PathFilter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	f := &PathFilter{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// Match reports whether path matches any pattern.
func (f *PathFilter) Match(path string) bool {
	if f == nil {
		return false
	}
	path = filepath.ToSlash(path)
	for _, p := range f.patterns {
		// Patterns were validated, so Match cannot fail.
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
