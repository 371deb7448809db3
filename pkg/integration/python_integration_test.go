// Package integration provides end-to-end tests for the complete import
// resolution pipeline: Scan → Lower → Index → Resolve → Tag.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-import-resolver/internal/scanner"
	"github.com/l3aro/go-import-resolver/pkg/cpg"
	"github.com/l3aro/go-import-resolver/pkg/extractor"
	"github.com/l3aro/go-import-resolver/pkg/imports"
	"github.com/l3aro/go-import-resolver/pkg/pass"
)

// getTestProjectPath returns the path to the sample Python project.
func getTestProjectPath(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", "..", "testdata", "sample_project"))
	require.NoError(t, err)
	return root
}

func loadSampleGraph(t *testing.T) *cpg.Graph {
	t.Helper()
	root := getTestProjectPath(t)

	files, err := scanner.New(scanner.DefaultOptions()).Scan(context.Background(), root)
	require.NoError(t, err)

	fe := extractor.NewPythonFrontend(imports.PythonConventions())
	g, err := fe.BuildGraph(root, scanner.Paths(files))
	require.NoError(t, err)
	return g
}

func callTags(g *cpg.Graph) map[string][]cpg.Tag {
	out := make(map[string][]cpg.Tag)
	for _, c := range g.ImportCalls() {
		out[c.Filename+" "+c.ImportedEntity+" as "+c.ImportedAs] = c.Tags
	}
	return out
}

func TestFullPipeline(t *testing.T) {
	g := loadSampleGraph(t)

	t.Run("ScanProject", func(t *testing.T) {
		var files []string
		for _, m := range g.Modules {
			files = append(files, m.Filename())
		}
		assert.Equal(t, []string{
			"app/__init__.py",
			"app/config.py",
			"app/services/__init__.py",
			"app/services/api.py",
			"app/services/helpers.py",
			"app/shapes.py",
			"app/utils.py",
			"main.py",
		}, files)
	})

	t.Run("BuildIndex", func(t *testing.T) {
		idx, err := imports.BuildIndex(context.Background(), g, imports.PythonConventions())
		require.NoError(t, err)

		kinds := map[string]string{
			"app":                        "module",
			"app.services":               "module",
			"app.services.api":           "module",
			"main":                       "module",
			"app.utils.clamp":            "function",
			"app.services.helpers.retry": "function",
			"app.shapes.Circle":          "type",
			"app.config.Settings":        "type",
			"app.__version__":            "variable",
			"app.config.DEFAULT_TIMEOUT": "variable",
		}
		for key, kind := range kinds {
			entity, ok := idx.Lookup(key)
			if assert.True(t, ok, "missing index key %s", key) {
				assert.Equal(t, kind, entity.Kind(), key)
			}
		}
		assert.Equal(t, 18, idx.Len())
	})

	t.Run("ResolveImports", func(t *testing.T) {
		res, err := pass.Run(context.Background(), g, pass.Options{
			Conventions: imports.PythonConventions(),
			Workers:     4,
		})
		require.NoError(t, err)

		assert.Equal(t, 16, res.Calls)
		assert.Equal(t, 10, res.Resolved)
		assert.Equal(t, 6, res.Guessed)

		tags := callTags(g)
		tests := []struct {
			call string
			want []cpg.Tag
		}{
			{
				call: "main.py app.shapes.Circle as C",
				want: []cpg.Tag{
					{Name: imports.TagResolvedTypeDecl, Value: "app/shapes.py:<module>.Circle"},
					{Name: imports.TagResolvedMethod, Value: "app/shapes.py:<module>.Circle.__init__,C"},
				},
			},
			{
				call: "main.py app.__version__ as __version__",
				want: []cpg.Tag{{Name: imports.TagResolvedMember, Value: "app/__init__.py:<module>,__version__"}},
			},
			{
				call: "main.py app.services.api as api",
				want: []cpg.Tag{
					{Name: imports.TagResolvedTypeDecl, Value: "app/services/api.py:<module>"},
					{Name: imports.TagResolvedMethod, Value: "app/services/api.py:<module>,<module>"},
				},
			},
			{
				call: "app/services/api.py .helpers as helpers",
				want: []cpg.Tag{
					{Name: imports.TagResolvedTypeDecl, Value: "app/services/helpers.py:<module>"},
					{Name: imports.TagResolvedMethod, Value: "app/services/helpers.py:<module>,<module>"},
				},
			},
			{
				call: "app/shapes.py .utils.clamp as clamp",
				want: []cpg.Tag{{Name: imports.TagResolvedMethod, Value: "app/utils.py:<module>.clamp,clamp"}},
			},
			{
				call: "app/services/api.py requests as requests",
				want: []cpg.Tag{{Name: imports.TagUnknownImport, Value: "requests.py:<module>"}},
			},
			{
				call: "app/services/api.py ..missing.Thing as Thing",
				want: []cpg.Tag{
					{Name: imports.TagUnknownMethod, Value: "app/missing.py:<module>.Thing.__init__,Thing"},
					{Name: imports.TagUnknownTypeDecl, Value: "app/missing.py:<module>.Thing"},
				},
			},
			{
				call: "app/utils.py typing.Optional as Optional",
				want: []cpg.Tag{
					{Name: imports.TagUnknownMethod, Value: "typing.py:<module>.Optional.__init__,Optional"},
					{Name: imports.TagUnknownTypeDecl, Value: "typing.py:<module>.Optional"},
				},
			},
		}
		for _, tt := range tests {
			t.Run(tt.call, func(t *testing.T) {
				got, ok := tags[tt.call]
				require.True(t, ok, "call not found")
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestPipeline_IgnoredDirectoryIsNotScanned(t *testing.T) {
	g := loadSampleGraph(t)

	for _, c := range g.ImportCalls() {
		assert.NotEqual(t, "should_not_be_scanned", c.ImportedEntity)
	}
}

func TestPipeline_CacheReuse(t *testing.T) {
	opts := pass.Options{
		Conventions: imports.PythonConventions(),
		Workers:     2,
		CacheSize:   128,
		CacheFile:   filepath.Join(t.TempDir(), "resolutions.msgpack"),
	}

	first := loadSampleGraph(t)
	r1, err := pass.Run(context.Background(), first, opts)
	require.NoError(t, err)
	assert.Zero(t, r1.CacheHits)

	second := loadSampleGraph(t)
	r2, err := pass.Run(context.Background(), second, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(r2.Calls), r2.CacheHits)
	assert.Equal(t, callTags(first), callTags(second))
}
