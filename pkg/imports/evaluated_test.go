package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

func TestTagRoundTrip(t *testing.T) {
	all := []EvaluatedImport{
		ResolvedTypeDecl{FullName: "pkg/a.py:<module>.Thing"},
		ResolvedMethod{FullName: "pkg/a.py:<module>.foo", LocalName: "f"},
		ResolvedMember{OwnerFullName: "pkg/__init__.py:<module>", MemberName: "VERSION"},
		UnknownImport{PseudoPath: "numpy.py:<module>"},
		UnknownMethod{PseudoFullName: "flask.py:<module>.Flask.__init__", LocalName: "Flask"},
		UnknownTypeDecl{PseudoFullName: "flask.py:<module>.Flask"},
	}

	for _, e := range all {
		got, err := FromTag(ToTag(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestFromTag_Errors(t *testing.T) {
	_, err := FromTag(cpg.Tag{Name: "SOMETHING_ELSE", Value: "x"})
	assert.Error(t, err)

	_, err = FromTag(cpg.Tag{Name: TagResolvedMethod, Value: "no-separator"})
	assert.Error(t, err)
}

func TestToTags_KeepsOrder(t *testing.T) {
	tags := ToTags([]EvaluatedImport{
		UnknownMethod{PseudoFullName: "m.py:<module>.C.__init__", LocalName: "C"},
		UnknownTypeDecl{PseudoFullName: "m.py:<module>.C"},
	})

	assert.Equal(t, []cpg.Tag{
		{Name: TagUnknownMethod, Value: "m.py:<module>.C.__init__,C"},
		{Name: TagUnknownTypeDecl, Value: "m.py:<module>.C"},
	}, tags)
}
