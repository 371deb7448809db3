package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

// wildcardAlias is the local name recorded for "from m import *".
const wildcardAlias = "*"

// walkImports lowers every import statement in the file, including those
// nested in function bodies and conditionals.
func (l *pyLowering) walkImports(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "import_statement":
		l.importStatement(node)
		return
	case "import_from_statement":
		l.importFromStatement(node, l.fieldText(node, "module_name"))
		return
	case "future_import_statement":
		l.importFromStatement(node, "__future__")
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		l.walkImports(node.NamedChild(i))
	}
}

// importStatement lowers "import a.b" to (a.b, a.b) and "import a.b as x" to (a.b, x).
func (l *pyLowering) importStatement(node *sitter.Node) {
	line := lineOf(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.FieldNameForChild(i) != "name" {
			continue
		}
		path, alias := l.importName(node.Child(i))
		if path == "" {
			continue
		}
		if alias == "" {
			alias = path
		}
		l.addImport(path, alias, line)
	}
}

// importFromStatement lowers "from m import x as y" to (m.x, y). Relative
// prefixes are kept, so "from . import x" becomes (.x, x).
func (l *pyLowering) importFromStatement(node *sitter.Node, module string) {
	module = strings.TrimSpace(module)
	if module == "" {
		return
	}
	line := lineOf(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "wildcard_import" {
			l.addImport(module, wildcardAlias, line)
			continue
		}
		if node.FieldNameForChild(i) != "name" {
			continue
		}
		name, alias := l.importName(child)
		if name == "" {
			continue
		}
		if alias == "" {
			alias = name
		}
		l.addImport(qualify(module, name), alias, line)
	}
}

// importName returns the imported path and the explicit alias, if any.
func (l *pyLowering) importName(node *sitter.Node) (string, string) {
	if node == nil {
		return "", ""
	}
	switch node.Type() {
	case "dotted_name", "identifier":
		return strings.TrimSpace(node.Content(l.src)), ""
	case "aliased_import":
		return strings.TrimSpace(l.fieldText(node, "name")), strings.TrimSpace(l.fieldText(node, "alias"))
	}
	return "", ""
}

func (l *pyLowering) addImport(path, alias string, line int) {
	l.module.Imports = append(l.module.Imports, &cpg.ImportCall{
		Filename:       l.rel,
		ImportedEntity: path,
		ImportedAs:     alias,
		LineNumber:     line,
	})
}

// qualify appends name to a module path that may be a bare relative prefix.
func qualify(module, name string) string {
	if strings.HasSuffix(module, ".") {
		return module + name
	}
	return module + "." + name
}
