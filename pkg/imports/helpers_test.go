package imports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

const testRoot = "/project"

type moduleDef struct {
	file    string
	funcs   []string
	classes []string
	members []string
}

// newModule builds a module shaped the way the Python front end lowers it:
// every function also gets a synthetic type with the same full name.
func newModule(def moduleDef) *cpg.Module {
	fullName := def.file + ":<module>"
	m := &cpg.Module{
		Type:       &cpg.TypeDecl{Name: "<module>", FullName: fullName, Filename: def.file},
		EntryPoint: &cpg.Method{Name: "<module>", FullName: fullName, Filename: def.file},
	}
	for _, fn := range def.funcs {
		m.Methods = append(m.Methods, &cpg.Method{Name: fn, FullName: fullName + "." + fn, Filename: def.file})
		m.TypeDecls = append(m.TypeDecls, &cpg.TypeDecl{Name: fn, FullName: fullName + "." + fn, Filename: def.file})
	}
	for _, cls := range def.classes {
		m.TypeDecls = append(m.TypeDecls, &cpg.TypeDecl{Name: cls, FullName: fullName + "." + cls, Filename: def.file})
	}
	for _, member := range def.members {
		m.Members = append(m.Members, &cpg.Member{Name: member})
	}
	return m
}

func newGraph(defs ...moduleDef) *cpg.Graph {
	g := cpg.New(testRoot)
	for _, s := range defs {
		g.AddModule(newModule(s))
	}
	return g
}

func newTestResolver(t *testing.T, defs ...moduleDef) *Resolver {
	t.Helper()
	idx, err := BuildIndex(context.Background(), newGraph(defs...), PythonConventions())
	require.NoError(t, err)
	return NewResolver(idx, testRoot, PythonConventions())
}
