// Package cpg defines the read-only code property graph consumed by the import
// resolution stage. It covers module scopes, their direct declarations, module
// level data members and the unresolved import call sites found in each file.
package cpg

import "sort"

// Method is a function definition or a module entry point.
type Method struct {
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	Filename   string `json:"filename"`
	LineNumber int    `json:"line_number"`
}

// TypeDecl is a type declaration. Module scopes and function bodies get
// synthetic type declarations alongside user-defined classes.
type TypeDecl struct {
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	Filename   string `json:"filename"`
	IsExternal bool   `json:"is_external"`
	LineNumber int    `json:"line_number"`
}

// Member is a module-level variable or constant.
type Member struct {
	Name       string `json:"name"`
	LineNumber int    `json:"line_number"`
}

// Tag is an annotation attached to a graph node.
type Tag struct {
	Name  string `json:"name" yaml:"name" msgpack:"n"`
	Value string `json:"value" yaml:"value" msgpack:"v"`
}

// ImportCall is an import statement lowered to a call node that has not been
// resolved yet.
type ImportCall struct {
	ID int `json:"id"`
	// Filename is the containing file relative to the graph root.
	Filename string `json:"filename"`
	// ImportedEntity is the literal imported path, e.g. "pkg.mod.func" or ".sibling".
	ImportedEntity string `json:"imported_entity"`
	// ImportedAs is the local name the import binds.
	ImportedAs string `json:"imported_as"`
	LineNumber int    `json:"line_number"`
	Tags       []Tag  `json:"tags,omitempty"`
}

// Module is the top-level scope of one source file.
type Module struct {
	Type       *TypeDecl     `json:"type"`
	EntryPoint *Method       `json:"entry_point"`
	Methods    []*Method     `json:"methods,omitempty"`
	TypeDecls  []*TypeDecl   `json:"type_decls,omitempty"`
	Members    []*Member     `json:"members,omitempty"`
	Imports    []*ImportCall `json:"imports,omitempty"`
}

// Filename returns the source file of the module.
func (m *Module) Filename() string {
	if m.Type == nil {
		return ""
	}
	return m.Type.Filename
}

// IsExternal reports whether the module stands for code outside the analyzed set.
func (m *Module) IsExternal() bool {
	return m.Type == nil || m.Type.IsExternal
}

// Graph is the analyzed codebase.
type Graph struct {
	// Root is the analysis root; module filenames are relative to it.
	Root    string    `json:"root"`
	Modules []*Module `json:"modules"`
}

// New creates an empty graph rooted at root.
func New(root string) *Graph {
	return &Graph{Root: root}
}

// AddModule appends a module and returns it.
func (g *Graph) AddModule(m *Module) *Module {
	g.Modules = append(g.Modules, m)
	return m
}

// InternalModules returns the modules that are part of the analyzed codebase.
func (g *Graph) InternalModules() []*Module {
	out := make([]*Module, 0, len(g.Modules))
	for _, m := range g.Modules {
		if !m.IsExternal() {
			out = append(out, m)
		}
	}
	return out
}

// ImportCalls returns every import call site in the graph ordered by ID.
func (g *Graph) ImportCalls() []*ImportCall {
	var calls []*ImportCall
	for _, m := range g.Modules {
		calls = append(calls, m.Imports...)
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].ID < calls[j].ID })
	return calls
}
