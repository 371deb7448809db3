// Package imports resolves unresolved import call sites of a code property
// graph to the modules, functions, types and module variables they refer to.
//
// Resolution happens in two phases. BuildIndex scans every module once and
// produces an immutable ModuleIndex. A Resolver then answers one call site at a
// time against that index, falling back to Synthesize when nothing matches.
package imports

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"path/filepath"
	"strings"
)

// Conventions holds the language-specific naming markers used for dotted paths
// and pseudo paths.
type Conventions struct {
	// SourceExtensions are stripped from file names when computing dotted paths.
	SourceExtensions []string
	// PackageIndex is the file stem that makes a directory a package ("__init__").
	PackageIndex string
	// ModuleMarker names a file's top-level executable scope ("<module>").
	ModuleMarker string
	// ModuleFileExt is appended to pseudo module files (".py").
	ModuleFileExt string
	// Constructor is the implicit constructor method name ("__init__").
	Constructor string
}

// PythonConventions returns the conventions of the Python front end.
func PythonConventions() Conventions {
	return Conventions{
		SourceExtensions: []string{".py", ".pyi"},
		PackageIndex:     "__init__",
		ModuleMarker:     "<module>",
		ModuleFileExt:    ".py",
		Constructor:      "__init__",
	}
}

const pathSep = "."

// Fingerprint hashes every convention. Results computed under conventions with
// different fingerprints are not interchangeable.
func (c Conventions) Fingerprint() string {
	h := sha256.New()
	for _, ext := range c.SourceExtensions {
		h.Write([]byte(ext))
		h.Write([]byte{0})
	}
	for _, v := range []string{c.PackageIndex, c.ModuleMarker, c.ModuleFileExt, c.Constructor} {
		h.Write([]byte{'\n'})
		h.Write([]byte(v))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// DottedPath converts a file path to its dotted import path.
// Example: "pkg/sub/mod.py" -> "pkg.sub.mod", "pkg/__init__.py" -> "pkg".
func (c Conventions) DottedPath(root, filename string) string {
	rel := relativeSlashPath(root, filename)
	for _, ext := range c.SourceExtensions {
		if strings.HasSuffix(rel, ext) {
			rel = strings.TrimSuffix(rel, ext)
			break
		}
	}
	dotted := strings.ReplaceAll(rel, "/", pathSep)
	if c.PackageIndex != "" {
		if dotted == c.PackageIndex {
			return ""
		}
		dotted = strings.TrimSuffix(dotted, pathSep+c.PackageIndex)
	}
	return dotted
}

// DirDottedPath returns the dotted path of the directory containing filename.
func (c Conventions) DirDottedPath(root, filename string) string {
	dir := path.Dir(relativeSlashPath(root, filename))
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.ReplaceAll(dir, "/", pathSep)
}

// relativeSlashPath makes filename relative to root and normalizes separators
// to "/". A filename that is not absolute is already relative to root.
func relativeSlashPath(root, filename string) string {
	if root != "" && filepath.IsAbs(filename) {
		if absRoot, err := filepath.Abs(root); err == nil {
			if rel, err := filepath.Rel(absRoot, filename); err == nil {
				filename = rel
			}
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(filename), "/")
}

// joinDotted joins non-empty dotted segments.
func joinDotted(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, pathSep)
}
