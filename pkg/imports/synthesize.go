package imports

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Synthesize fabricates a best-effort target for an import the index could not
// resolve. currentDir is the dotted path of the importing file's directory.
//
// The pseudo path mimics where a resolved entity would live:
//
//	import numpy          -> numpy.py:<module>
//	import a.b.c          -> a.py:<module>.b.c
//	from pkg.sub import f -> pkg/sub.py:<module>.f
//
// A name starting with an uppercase letter is assumed to be a class, yielding
// an UnknownMethod for its constructor and an UnknownTypeDecl. Anything else
// yields a single UnknownImport. The result is never empty.
func Synthesize(currentDir, importedPath, alias string, conv Conventions) []EvaluatedImport {
	level := relativeLevel(importedPath)
	body := importedPath[level:]

	namespace, entityName := "", body
	if i := strings.LastIndex(body, pathSep); i >= 0 {
		namespace, entityName = body[:i], body[i+1:]
	}
	if level > 0 {
		namespace = joinDotted(ancestor(currentDir, level-1), namespace)
	}

	moduleFile := func(dotted string) string {
		return strings.ReplaceAll(dotted, pathSep, "/") + conv.ModuleFileExt + ":" + conv.ModuleMarker
	}

	var pseudoPath string
	switch {
	case entityName == "":
		// a bare run of relative markers names the anchor package itself
		anchor := namespace
		if anchor == "" {
			anchor = conv.PackageIndex
		}
		if anchor == "" {
			anchor = alias
		}
		pseudoPath = moduleFile(anchor)
	case namespace == "":
		pseudoPath = moduleFile(entityName)
	case level == 0 && alias == importedPath:
		head, tail, _ := strings.Cut(body, pathSep)
		pseudoPath = moduleFile(head) + pathSep + tail
	default:
		pseudoPath = moduleFile(namespace) + pathSep + entityName
	}

	if startsUpper(entityName) {
		return []EvaluatedImport{
			UnknownMethod{PseudoFullName: pseudoPath + pathSep + conv.Constructor, LocalName: alias},
			UnknownTypeDecl{PseudoFullName: pseudoPath},
		}
	}
	return []EvaluatedImport{UnknownImport{PseudoPath: pseudoPath}}
}

// relativeLevel counts the leading relative markers of an import path.
func relativeLevel(importedPath string) int {
	return len(importedPath) - len(strings.TrimLeft(importedPath, pathSep))
}

// ancestor climbs up levels packages from dotted, stopping at the root.
func ancestor(dotted string, levels int) string {
	if dotted == "" || levels <= 0 {
		return dotted
	}
	parts := strings.Split(dotted, pathSep)
	if levels >= len(parts) {
		return ""
	}
	return strings.Join(parts[:len(parts)-levels], pathSep)
}

func startsUpper(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
