package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesize(t *testing.T) {
	conv := PythonConventions()

	tests := []struct {
		name     string
		dir      string
		imported string
		alias    string
		want     []EvaluatedImport
	}{
		{
			name:     "bare module",
			dir:      "pkg",
			imported: "numpy",
			alias:    "np",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "numpy.py:<module>"}},
		},
		{
			name:     "dotted absolute import",
			dir:      "",
			imported: "os.path.join",
			alias:    "os.path.join",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "os.py:<module>.path.join"}},
		},
		{
			name:     "from import",
			dir:      "",
			imported: "django.db.models",
			alias:    "models",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "django/db.py:<module>.models"}},
		},
		{
			name:     "from import of a class",
			dir:      "app",
			imported: "flask.Flask",
			alias:    "Flask",
			want: []EvaluatedImport{
				UnknownMethod{PseudoFullName: "flask.py:<module>.Flask.__init__", LocalName: "Flask"},
				UnknownTypeDecl{PseudoFullName: "flask.py:<module>.Flask"},
			},
		},
		{
			name:     "relative sibling",
			dir:      "pkg",
			imported: ".helpers",
			alias:    "helpers",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "pkg.py:<module>.helpers"}},
		},
		{
			name:     "relative with namespace",
			dir:      "pkg.sub",
			imported: ".models.User",
			alias:    "User",
			want: []EvaluatedImport{
				UnknownMethod{PseudoFullName: "pkg/sub/models.py:<module>.User.__init__", LocalName: "User"},
				UnknownTypeDecl{PseudoFullName: "pkg/sub/models.py:<module>.User"},
			},
		},
		{
			name:     "relative parent",
			dir:      "pkg.sub",
			imported: "..config.load",
			alias:    "load",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "pkg/config.py:<module>.load"}},
		},
		{
			name:     "relative beyond root clamps",
			dir:      "pkg",
			imported: "...util",
			alias:    "util",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "util.py:<module>"}},
		},
		{
			name:     "relative at root",
			dir:      "",
			imported: ".Thing",
			alias:    "Thing",
			want: []EvaluatedImport{
				UnknownMethod{PseudoFullName: "Thing.py:<module>.__init__", LocalName: "Thing"},
				UnknownTypeDecl{PseudoFullName: "Thing.py:<module>"},
			},
		},
		{
			name:     "wildcard from the root package",
			dir:      "",
			imported: ".",
			alias:    "*",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "__init__.py:<module>"}},
		},
		{
			name:     "wildcard from the parent package",
			dir:      "pkg.sub",
			imported: "..",
			alias:    "*",
			want:     []EvaluatedImport{UnknownImport{PseudoPath: "pkg.py:<module>"}},
		},
		{
			name:     "aliased dotted import uses from shape",
			dir:      "",
			imported: "xml.etree.ElementTree",
			alias:    "ET",
			want: []EvaluatedImport{
				UnknownMethod{PseudoFullName: "xml/etree.py:<module>.ElementTree.__init__", LocalName: "ET"},
				UnknownTypeDecl{PseudoFullName: "xml/etree.py:<module>.ElementTree"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Synthesize(tt.dir, tt.imported, tt.alias, conv))
		})
	}
}

func TestSynthesize_Totality(t *testing.T) {
	inputs := []string{"", ".", "..", "...", "a", "a.", ".a.", "A", "a.B", "_private", "ünïcode.Ärger", "1abc"}
	for _, in := range inputs {
		got := Synthesize("pkg.sub", in, in, PythonConventions())
		assert.NotEmpty(t, got, "input %q", in)
	}
}

func TestSynthesize_CapitalizationRule(t *testing.T) {
	count := func(results []EvaluatedImport) (types, methods, imports int) {
		for _, r := range results {
			switch r.(type) {
			case UnknownTypeDecl:
				types++
			case UnknownMethod:
				methods++
			case UnknownImport:
				imports++
			}
		}
		return
	}

	for _, in := range []string{"Thing", "pkg.Thing", ".Thing", "a.b.Ärger"} {
		types, methods, imports := count(Synthesize("pkg", in, "x", PythonConventions()))
		assert.Equal(t, [3]int{1, 1, 0}, [3]int{types, methods, imports}, "input %q", in)
	}
	for _, in := range []string{"thing", "pkg.thing", ".thing", "pkg._Thing"} {
		types, methods, imports := count(Synthesize("pkg", in, "x", PythonConventions()))
		assert.Equal(t, [3]int{0, 0, 1}, [3]int{types, methods, imports}, "input %q", in)
	}
}
