package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-import-resolver/pkg/imports"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"main.py":         "import requests\nfrom pkg.util import helper\nfrom pkg import VERSION\n",
		"pkg/__init__.py": "VERSION = '1.0'\n",
		"pkg/util.py":     "def helper():\n    pass\n\nclass Widget:\n    pass\n",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.Execute())
	return out.Bytes()
}

func TestResolveCommand_JSON(t *testing.T) {
	root := writeProject(t)

	data := execute(t, "resolve", root, "--format", "json", "--no-cache", "--unresolved-only=false")

	var out ResolveOutput
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Imports, 3)
	assert.Equal(t, 3, out.Summary.Calls)
	assert.Equal(t, 2, out.Summary.Resolved)
	assert.Equal(t, 1, out.Summary.Guessed)

	byPath := map[string]ImportInfo{}
	for _, info := range out.Imports {
		byPath[info.Imported] = info
	}
	assert.False(t, byPath["requests"].Resolved)
	assert.Equal(t, imports.TagUnknownImport, byPath["requests"].Tags[0].Name)
	assert.True(t, byPath["pkg.util.helper"].Resolved)
	assert.Equal(t, imports.TagResolvedMember, byPath["pkg.VERSION"].Tags[0].Name)
	assert.Equal(t, "pkg/__init__.py:<module>,VERSION", byPath["pkg.VERSION"].Tags[0].Value)
}

func TestResolveCommand_UnresolvedOnly(t *testing.T) {
	root := writeProject(t)

	data := execute(t, "resolve", root, "--format", "yaml", "--no-cache", "--unresolved-only")

	var out ResolveOutput
	require.NoError(t, yaml.Unmarshal(data, &out))
	require.Len(t, out.Imports, 1)
	assert.Equal(t, "requests", out.Imports[0].Imported)
}

func TestResolveCommand_Text(t *testing.T) {
	root := writeProject(t)

	out := string(execute(t, "resolve", root, "--format", "text", "--no-cache", "--unresolved-only=false"))

	assert.Contains(t, out, "main.py:1  requests")
	assert.Contains(t, out, "RESOLVED_METHOD")
	assert.Contains(t, out, "3 imports: 2 resolved, 1 guessed")
}

func TestIndexCommand(t *testing.T) {
	root := writeProject(t)

	data := execute(t, "index", root, "--format", "json", "--kind", "")

	var out IndexOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotEmpty(t, out.Fingerprint)

	kinds := map[string]string{}
	for _, e := range out.Entries {
		kinds[e.Path] = e.Kind
	}
	assert.Equal(t, "module", kinds["pkg"])
	assert.Equal(t, "module", kinds["pkg.util"])
	assert.Equal(t, "function", kinds["pkg.util.helper"])
	assert.Equal(t, "type", kinds["pkg.util.Widget"])
	assert.Equal(t, "variable", kinds["pkg.VERSION"])
}

func TestIndexCommand_KindFilter(t *testing.T) {
	root := writeProject(t)

	data := execute(t, "index", root, "--format", "json", "--kind", "type")

	var out IndexOutput
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "pkg.util.Widget", out.Entries[0].Path)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := render(&bytes.Buffer{}, "xml", struct{}{}, nil)
	assert.Error(t, err)
}

func TestDoctorCommand(t *testing.T) {
	root := writeProject(t)

	data := execute(t, "doctor", root, "--format", "json")

	var out struct {
		Checks []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out.Checks)
	assert.Equal(t, "parser", out.Checks[0].Name)
	assert.Equal(t, "ready", out.Checks[0].Status)
}
