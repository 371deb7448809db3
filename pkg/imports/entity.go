package imports

import "github.com/l3aro/go-import-resolver/pkg/cpg"

// ImportableEntity is what a dotted path in the ModuleIndex points to. The set
// of implementations is closed: Module, ModuleVariable, ImportableFunction and
// ImportableType.
type ImportableEntity interface {
	// ToResolvedImport produces the results for an import bound to alias.
	ToResolvedImport(alias string) []EvaluatedImport
	// Kind names the variant, for listings.
	Kind() string
	isImportableEntity()
}

// Module is a source file's top-level scope.
type Module struct {
	Type       *cpg.TypeDecl
	EntryPoint *cpg.Method
}

// ModuleVariable is a module-level variable or constant.
type ModuleVariable struct {
	OwnerFullName string
	MemberName    string
}

// ImportableFunction is a function defined directly in a module.
type ImportableFunction struct {
	Function *cpg.Method
}

// ImportableType is a class defined directly in a module.
type ImportableType struct {
	Type *cpg.TypeDecl
	// Constructor is the implicit constructor method name.
	Constructor string
}

// ToResolvedImport addresses the module by identity; the alias is not used.
func (m Module) ToResolvedImport(string) []EvaluatedImport {
	return []EvaluatedImport{
		ResolvedTypeDecl{FullName: m.Type.FullName},
		ResolvedMethod{FullName: m.EntryPoint.FullName, LocalName: m.EntryPoint.Name},
	}
}

func (v ModuleVariable) ToResolvedImport(string) []EvaluatedImport {
	return []EvaluatedImport{
		ResolvedMember{OwnerFullName: v.OwnerFullName, MemberName: v.MemberName},
	}
}

// ToResolvedImport labels the function with the alias call sites use.
func (f ImportableFunction) ToResolvedImport(alias string) []EvaluatedImport {
	return []EvaluatedImport{
		ResolvedMethod{FullName: f.Function.FullName, LocalName: alias},
	}
}

// ToResolvedImport yields the type identity and its implicit constructor.
func (t ImportableType) ToResolvedImport(alias string) []EvaluatedImport {
	return []EvaluatedImport{
		ResolvedTypeDecl{FullName: t.Type.FullName},
		ResolvedMethod{FullName: t.Type.FullName + pathSep + t.Constructor, LocalName: alias},
	}
}

func (Module) Kind() string             { return "module" }
func (ModuleVariable) Kind() string     { return "variable" }
func (ImportableFunction) Kind() string { return "function" }
func (ImportableType) Kind() string     { return "type" }

func (Module) isImportableEntity()             {}
func (ModuleVariable) isImportableEntity()     {}
func (ImportableFunction) isImportableEntity() {}
func (ImportableType) isImportableEntity()     {}
