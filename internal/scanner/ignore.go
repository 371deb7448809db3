package scanner

import (
	"bufio"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnorePattern is one line of a gitignore-style ignore file.
type IgnorePattern struct {
	raw      string
	glob     string
	base     string // directory holding the ignore file, relative to the scan root
	negate   bool
	dirOnly  bool
	anchored bool
}

// ParseIgnorePattern parses a pattern declared in the ignore file of base, a
// slash-separated directory relative to the scan root ("" for the root).
func ParseIgnorePattern(line, base string) IgnorePattern {
	p := IgnorePattern{raw: line, base: strings.Trim(base, "/")}

	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	// A slash anywhere but the end anchors the pattern to base.
	if strings.Contains(line, "/") {
		p.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	p.glob = line
	if !p.anchored && !strings.HasPrefix(line, "**") {
		p.glob = "**/" + line
	}
	return p
}

// String returns the pattern as written.
func (p IgnorePattern) String() string {
	return p.raw
}

// IsNegation reports whether the pattern re-includes paths.
func (p IgnorePattern) IsNegation() bool {
	return p.negate
}

// Match reports whether relPath, or any directory above it, matches the
// pattern. relPath is slash-separated and relative to the scan root.
func (p IgnorePattern) Match(relPath string, isDir bool) bool {
	if p.base != "" {
		if !strings.HasPrefix(relPath, p.base+"/") {
			return false
		}
		relPath = strings.TrimPrefix(relPath, p.base+"/")
	}

	segments := strings.Split(relPath, "/")
	for i := 1; i <= len(segments); i++ {
		if p.dirOnly && i == len(segments) && !isDir {
			break
		}
		ok, err := doublestar.Match(p.glob, strings.Join(segments[:i], "/"))
		if err == nil && ok {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads the patterns of the ignore file at file. base is the
// directory of file relative to the scan root. A missing file yields nothing.
func loadIgnoreFile(file, base string) ([]IgnorePattern, error) {
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []IgnorePattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, ParseIgnorePattern(line, base))
	}
	return patterns, sc.Err()
}

// ignored applies patterns in order so later negations override earlier matches.
func ignored(relPath string, isDir bool, patterns []IgnorePattern) bool {
	result := false
	for _, p := range patterns {
		if p.Match(relPath, isDir) {
			result = !p.IsNegation()
		}
	}
	return result
}
