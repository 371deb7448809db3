package imports

import "strings"

// Resolver answers import call sites against a finished ModuleIndex.
// A Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	index *ModuleIndex
	root  string
	conv  Conventions
}

// NewResolver creates a resolver over idx. root is the analysis root that
// call site file names are relative to.
func NewResolver(idx *ModuleIndex, root string, conv Conventions) *Resolver {
	return &Resolver{index: idx, root: root, conv: conv}
}

// Index returns the index the resolver reads from.
func (r *Resolver) Index() *ModuleIndex {
	return r.index
}

// Resolve returns every evaluated import for a call site in currentFile that
// imports importedPath under alias. When the index has no match the result
// comes from Synthesize, so the returned set is never empty.
func (r *Resolver) Resolve(currentFile, importedPath, alias string) []EvaluatedImport {
	if resolved := r.Primary(currentFile, importedPath, alias); len(resolved) > 0 {
		return resolved
	}
	return Synthesize(r.conv.DirDottedPath(r.root, currentFile), importedPath, alias, r.conv)
}

// Primary looks the import up in the index under two interpretations and
// returns the union of both hits:
//   - fully qualified: the imported path with leading relative markers removed
//   - relative: the current file's directory joined with the fully qualified path
//
// Both are kept because package layouts without an index file can make either
// one the right answer.
func (r *Resolver) Primary(currentFile, importedPath, alias string) []EvaluatedImport {
	qualified := strings.TrimLeft(importedPath, pathSep)
	relative := joinDotted(r.conv.DirDottedPath(r.root, currentFile), qualified)

	set := newResultSet()
	for _, key := range []string{relative, qualified} {
		if key == "" {
			continue
		}
		if entity, ok := r.index.Lookup(key); ok {
			set.add(entity.ToResolvedImport(alias)...)
		}
	}
	return set.items
}
