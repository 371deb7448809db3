package imports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/l3aro/go-import-resolver/pkg/cpg"
)

var tracer = otel.Tracer("github.com/l3aro/go-import-resolver/pkg/imports")

// ModuleIndex maps dotted import paths to the entities reachable at them.
// It is only produced by BuildIndex and never changes afterwards, so any
// number of goroutines may read it.
type ModuleIndex struct {
	entries     map[string]ImportableEntity
	fingerprint string
}

// Lookup returns the entity registered at a dotted path.
func (idx *ModuleIndex) Lookup(dotted string) (ImportableEntity, bool) {
	e, ok := idx.entries[dotted]
	return e, ok
}

// Len returns the number of registered paths.
func (idx *ModuleIndex) Len() int {
	return len(idx.entries)
}

// Keys returns all registered paths in sorted order.
func (idx *ModuleIndex) Keys() []string {
	keys := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint identifies the index content. Two indexes binding the same keys
// to the same entities share a fingerprint.
func (idx *ModuleIndex) Fingerprint() string {
	return idx.fingerprint
}

// indexEntry is one registration computed for a module.
type indexEntry struct {
	key    string
	entity ImportableEntity
	// weak entries never replace an existing key
	weak bool
}

type moduleEntries struct {
	filename string
	entries  []indexEntry
}

// BuildIndex scans every non-external module of g and registers the module,
// its direct functions, its direct types and its module variables.
//
// Entries are computed per module in parallel and merged in lexicographic
// order of the module file path. Module, function and type registrations
// replace an existing key; module variables only fill keys that are absent.
// The only error returned is the context's.
func BuildIndex(ctx context.Context, g *cpg.Graph, conv Conventions) (*ModuleIndex, error) {
	ctx, span := tracer.Start(ctx, "imports.BuildIndex")
	defer span.End()

	modules := g.InternalModules()
	perModule := make([]moduleEntries, len(modules))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, m := range modules {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			perModule[i] = moduleEntries{
				filename: relativeSlashPath(g.Root, m.Filename()),
				entries:  collectEntries(g.Root, m, conv),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(perModule, func(i, j int) bool {
		return perModule[i].filename < perModule[j].filename
	})

	entries := make(map[string]ImportableEntity)
	for _, me := range perModule {
		for _, e := range me.entries {
			if _, exists := entries[e.key]; exists && e.weak {
				continue
			}
			entries[e.key] = e.entity
		}
	}

	idx := &ModuleIndex{entries: entries}
	idx.fingerprint = fingerprint(idx)

	span.SetAttributes(
		attribute.Int("modules", len(modules)),
		attribute.Int("keys", len(entries)),
	)
	return idx, nil
}

// collectEntries computes the registrations of a single module.
func collectEntries(root string, m *cpg.Module, conv Conventions) []indexEntry {
	if m.EntryPoint == nil {
		return nil
	}
	modulePath := conv.DottedPath(root, m.Filename())
	entries := []indexEntry{{
		key:    modulePath,
		entity: Module{Type: m.Type, EntryPoint: m.EntryPoint},
	}}

	// function bodies carry a synthetic type with the function's full name
	functionTypes := make(map[string]bool, len(m.Methods))
	for _, fn := range m.Methods {
		functionTypes[fn.FullName] = true
		entries = append(entries, indexEntry{
			key:    joinDotted(modulePath, fn.Name),
			entity: ImportableFunction{Function: fn},
		})
	}
	for _, td := range m.TypeDecls {
		if functionTypes[td.FullName] {
			continue
		}
		entries = append(entries, indexEntry{
			key:    joinDotted(modulePath, td.Name),
			entity: ImportableType{Type: td, Constructor: conv.Constructor},
		})
	}
	for _, member := range m.Members {
		entries = append(entries, indexEntry{
			key:    joinDotted(modulePath, member.Name),
			entity: ModuleVariable{OwnerFullName: m.Type.FullName, MemberName: member.Name},
			weak:   true,
		})
	}
	return entries
}

func fingerprint(idx *ModuleIndex) string {
	h := sha256.New()
	for _, k := range idx.Keys() {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(idx.entries[k].Kind()))
		for _, t := range ToTags(idx.entries[k].ToResolvedImport("")) {
			h.Write([]byte{0})
			h.Write([]byte(t.Value))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
