// Package extractor lowers source files into the code property graph read by
// the import resolution stage.
package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

// Frontend lowers a single source file into a module scope.
type Frontend interface {
	// Parse lowers src, the contents of the root-relative file rel.
	Parse(rel string, src []byte) (*cpg.Module, error)
	// Extensions lists the file extensions the frontend understands.
	Extensions() []string
}

// Supports reports whether fe can parse path.
func Supports(fe Frontend, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range fe.Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// BuildGraph parses files with fe and returns a graph rooted at root. Files may
// be absolute or relative to root. Modules are added in path order and import
// calls are numbered from 1 in that order.
func BuildGraph(fe Frontend, root string, files []string) (*cpg.Graph, error) {
	rels := make([]string, 0, len(files))
	for _, f := range files {
		if !Supports(fe, f) {
			continue
		}
		rel, err := relPath(root, f)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	g := cpg.New(root)
	nextID := 1
	for _, rel := range rels {
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", rel, err)
		}
		m, err := fe.Parse(rel, src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", rel, err)
		}
		for _, call := range m.Imports {
			call.ID = nextID
			nextID++
		}
		g.AddModule(m)
	}
	return g, nil
}

func relPath(root, file string) (string, error) {
	if !filepath.IsAbs(file) {
		return filepath.ToSlash(filepath.Clean(file)), nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	rel, err := filepath.Rel(absRoot, file)
	if err != nil {
		return "", fmt.Errorf("relativizing %s: %w", file, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("file %s is outside root %s", file, root)
	}
	return filepath.ToSlash(rel), nil
}
