package extractor

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
	"github.com/l3aro/go-import-resolver/pkg/imports"
)

// PythonFrontend lowers Python files using tree-sitter.
type PythonFrontend struct {
	conv imports.Conventions

	mu     sync.Mutex
	parser *sitter.Parser
}

// NewPythonFrontend creates a frontend that names scopes after conv.
func NewPythonFrontend(conv imports.Conventions) *PythonFrontend {
	return &PythonFrontend{conv: conv, parser: NewPythonParser()}
}

// NewPythonParser creates a tree-sitter parser for Python.
func NewPythonParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return parser
}

// Extensions returns the file extensions handled as Python sources.
func (f *PythonFrontend) Extensions() []string {
	return f.conv.SourceExtensions
}

// BuildGraph parses files under root into a graph.
func (f *PythonFrontend) BuildGraph(root string, files []string) (*cpg.Graph, error) {
	return BuildGraph(f, root, files)
}

// Parse lowers one Python file. rel is the file path relative to the graph root.
func (f *PythonFrontend) Parse(rel string, src []byte) (*cpg.Module, error) {
	f.mu.Lock()
	tree, err := f.parser.ParseCtx(context.Background(), nil, src)
	f.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	scope := rel + ":" + f.conv.ModuleMarker
	m := &cpg.Module{
		Type:       &cpg.TypeDecl{Name: f.conv.ModuleMarker, FullName: scope, Filename: rel, LineNumber: 1},
		EntryPoint: &cpg.Method{Name: f.conv.ModuleMarker, FullName: scope, Filename: rel, LineNumber: 1},
	}

	l := &pyLowering{src: src, rel: rel, scope: scope, module: m}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		l.topLevel(root.NamedChild(i))
	}
	l.walkImports(root)
	return m, nil
}

// pyLowering accumulates the declarations of one file.
type pyLowering struct {
	src    []byte
	rel    string
	scope  string
	module *cpg.Module
	seen   map[string]bool
}

func (l *pyLowering) topLevel(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "decorated_definition":
		l.topLevel(node.ChildByFieldName("definition"))
	case "function_definition":
		name := l.fieldText(node, "name")
		if name == "" {
			return
		}
		full := l.scope + "." + name
		line := lineOf(node)
		l.module.Methods = append(l.module.Methods, &cpg.Method{Name: name, FullName: full, Filename: l.rel, LineNumber: line})
		l.module.TypeDecls = append(l.module.TypeDecls, &cpg.TypeDecl{Name: name, FullName: full, Filename: l.rel, LineNumber: line})
	case "class_definition":
		name := l.fieldText(node, "name")
		if name == "" {
			return
		}
		l.module.TypeDecls = append(l.module.TypeDecls, &cpg.TypeDecl{
			Name:       name,
			FullName:   l.scope + "." + name,
			Filename:   l.rel,
			LineNumber: lineOf(node),
		})
	case "expression_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			l.assignment(node.NamedChild(i))
		}
	}
}

// assignment records the targets of "a = ...", "a: int = ...", "a, b = ..."
// and chained "a = b = ...".
func (l *pyLowering) assignment(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "assignment":
		l.target(node.ChildByFieldName("left"))
		if right := node.ChildByFieldName("right"); right != nil && right.Type() == "assignment" {
			l.assignment(right)
		}
	case "augmented_assignment":
		l.target(node.ChildByFieldName("left"))
	}
}

func (l *pyLowering) target(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "identifier":
		l.member(node.Content(l.src), lineOf(node))
	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list", "tuple", "list", "list_splat_pattern":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			l.target(node.NamedChild(i))
		}
	}
}

func (l *pyLowering) member(name string, line int) {
	if name == "" {
		return
	}
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	if l.seen[name] {
		return
	}
	l.seen[name] = true
	l.module.Members = append(l.module.Members, &cpg.Member{Name: name, LineNumber: line})
}

func (l *pyLowering) fieldText(node *sitter.Node, field string) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(l.src)
}

func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
