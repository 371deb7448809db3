package imports

import (
	"fmt"
	"strings"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

// EvaluatedImport is the outcome of resolving one import call site. The set of
// implementations is closed: ResolvedTypeDecl, ResolvedMethod, ResolvedMember,
// UnknownImport, UnknownMethod and UnknownTypeDecl.
type EvaluatedImport interface {
	isEvaluatedImport()
}

// ResolvedTypeDecl points at a type that exists in the graph.
type ResolvedTypeDecl struct {
	FullName string
}

// ResolvedMethod points at a function or constructor that exists in the graph.
type ResolvedMethod struct {
	FullName  string
	LocalName string
}

// ResolvedMember points at a module-level variable.
type ResolvedMember struct {
	OwnerFullName string
	MemberName    string
}

// UnknownImport is an opaque external module reachable at PseudoPath.
type UnknownImport struct {
	PseudoPath string
}

// UnknownMethod is a guessed constructor of an unresolved type.
type UnknownMethod struct {
	PseudoFullName string
	LocalName      string
}

// UnknownTypeDecl is a guessed unresolved type.
type UnknownTypeDecl struct {
	PseudoFullName string
}

func (ResolvedTypeDecl) isEvaluatedImport() {}
func (ResolvedMethod) isEvaluatedImport()   {}
func (ResolvedMember) isEvaluatedImport()   {}
func (UnknownImport) isEvaluatedImport()    {}
func (UnknownMethod) isEvaluatedImport()    {}
func (UnknownTypeDecl) isEvaluatedImport()  {}

// Tag names written to import call sites.
const (
	TagResolvedTypeDecl = "RESOLVED_TYPE_DECL"
	TagResolvedMethod   = "RESOLVED_METHOD"
	TagResolvedMember   = "RESOLVED_MEMBER"
	TagUnknownImport    = "UNKNOWN_IMPORT"
	TagUnknownMethod    = "UNKNOWN_METHOD"
	TagUnknownTypeDecl  = "UNKNOWN_TYPE_DECL"
)

const tagFieldSep = ","

// IsResolved reports whether e refers to an entity present in the graph.
func IsResolved(e EvaluatedImport) bool {
	switch e.(type) {
	case ResolvedTypeDecl, ResolvedMethod, ResolvedMember:
		return true
	default:
		return false
	}
}

// ToTag converts an evaluated import to the tag committed to the graph.
func ToTag(e EvaluatedImport) cpg.Tag {
	switch v := e.(type) {
	case ResolvedTypeDecl:
		return cpg.Tag{Name: TagResolvedTypeDecl, Value: v.FullName}
	case ResolvedMethod:
		return cpg.Tag{Name: TagResolvedMethod, Value: v.FullName + tagFieldSep + v.LocalName}
	case ResolvedMember:
		return cpg.Tag{Name: TagResolvedMember, Value: v.OwnerFullName + tagFieldSep + v.MemberName}
	case UnknownImport:
		return cpg.Tag{Name: TagUnknownImport, Value: v.PseudoPath}
	case UnknownMethod:
		return cpg.Tag{Name: TagUnknownMethod, Value: v.PseudoFullName + tagFieldSep + v.LocalName}
	case UnknownTypeDecl:
		return cpg.Tag{Name: TagUnknownTypeDecl, Value: v.PseudoFullName}
	default:
		panic(fmt.Sprintf("imports: unhandled evaluated import %T", e))
	}
}

// ToTags converts a result set to tags, preserving order.
func ToTags(results []EvaluatedImport) []cpg.Tag {
	tags := make([]cpg.Tag, 0, len(results))
	for _, r := range results {
		tags = append(tags, ToTag(r))
	}
	return tags
}

// FromTag parses a tag written by ToTag back into an evaluated import.
func FromTag(t cpg.Tag) (EvaluatedImport, error) {
	pair := func() (string, string, error) {
		i := strings.LastIndex(t.Value, tagFieldSep)
		if i < 0 {
			return "", "", fmt.Errorf("tag %s: missing field separator in %q", t.Name, t.Value)
		}
		return t.Value[:i], t.Value[i+1:], nil
	}

	switch t.Name {
	case TagResolvedTypeDecl:
		return ResolvedTypeDecl{FullName: t.Value}, nil
	case TagResolvedMethod:
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return ResolvedMethod{FullName: a, LocalName: b}, nil
	case TagResolvedMember:
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return ResolvedMember{OwnerFullName: a, MemberName: b}, nil
	case TagUnknownImport:
		return UnknownImport{PseudoPath: t.Value}, nil
	case TagUnknownMethod:
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return UnknownMethod{PseudoFullName: a, LocalName: b}, nil
	case TagUnknownTypeDecl:
		return UnknownTypeDecl{PseudoFullName: t.Value}, nil
	default:
		return nil, fmt.Errorf("unknown import tag %q", t.Name)
	}
}

// resultSet accumulates evaluated imports without duplicates, keeping the
// order in which they were first added.
type resultSet struct {
	seen  map[EvaluatedImport]struct{}
	items []EvaluatedImport
}

func newResultSet() *resultSet {
	return &resultSet{seen: make(map[EvaluatedImport]struct{})}
}

func (s *resultSet) add(results ...EvaluatedImport) {
	for _, r := range results {
		if _, ok := s.seen[r]; ok {
			continue
		}
		s.seen[r] = struct{}{}
		s.items = append(s.items, r)
	}
}
