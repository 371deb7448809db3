// Package pass runs the import resolution stage over a whole graph: it builds
// the module index, resolves every import call concurrently and commits the
// resulting tags in one batch.
package pass

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/l3aro/go-import-resolver/internal/log"
	"github.com/l3aro/go-import-resolver/pkg/cache"
	"github.com/l3aro/go-import-resolver/pkg/cpg"
	"github.com/l3aro/go-import-resolver/pkg/imports"
)

var tracer = otel.Tracer("github.com/l3aro/go-import-resolver/pkg/pass")

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 8

// Options configures a run.
type Options struct {
	Conventions imports.Conventions
	// Workers bounds the number of call sites resolved at once.
	Workers int
	// CacheSize bounds the in-memory resolution cache. Zero disables caching.
	CacheSize int
	// CacheFile, if set, is loaded before and saved after the run.
	CacheFile string
	Logger    log.Logger
}

// Result summarizes a run.
type Result struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	Calls       int           `json:"calls" yaml:"calls"`
	Resolved    int           `json:"resolved" yaml:"resolved"`
	Guessed     int           `json:"guessed" yaml:"guessed"`
	CacheHits   int64         `json:"cache_hits" yaml:"cache_hits"`
	IndexKeys   int           `json:"index_keys" yaml:"index_keys"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// Run resolves every import call in g and attaches the results as tags.
// Calls are either all tagged or, on error, none are.
func Run(ctx context.Context, g *cpg.Graph, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	res := &Result{RunID: uuid.NewString()}
	ctx, span := tracer.Start(ctx, "pass.Run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", res.RunID))

	idx, err := imports.BuildIndex(ctx, g, opts.Conventions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "index build failed")
		return nil, fmt.Errorf("building module index: %w", err)
	}
	res.IndexKeys = idx.Len()
	res.Fingerprint = idx.Fingerprint()
	logger.Debug("module index built", "run", res.RunID, "keys", res.IndexKeys, "fingerprint", res.Fingerprint)

	rc := openCache(opts, idx.Fingerprint()+"-"+opts.Conventions.Fingerprint(), logger)
	resolver := imports.NewResolver(idx, g.Root, opts.Conventions)
	diff := cpg.NewDiffGraph()
	calls := g.ImportCalls()

	var resolved, guessed atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, call := range calls {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			tags := resolveCall(resolver, rc, g.Root, opts.Conventions, call)
			if hasResolved(tags) {
				resolved.Add(1)
			} else {
				guessed.Add(1)
			}
			diff.AddTags(call.ID, tags...)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution aborted")
		return nil, fmt.Errorf("resolving imports: %w", err)
	}

	diff.Apply(g)
	res.Calls = len(calls)
	res.Resolved = int(resolved.Load())
	res.Guessed = int(guessed.Load())
	if rc != nil {
		res.CacheHits = rc.Stats().Hits
		saveCache(rc, opts.CacheFile, logger)
	}
	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("calls", res.Calls),
		attribute.Int("resolved", res.Resolved),
		attribute.Int("guessed", res.Guessed),
	)
	logger.Info("import resolution finished",
		"run", res.RunID,
		"calls", res.Calls,
		"resolved", res.Resolved,
		"guessed", res.Guessed,
		"cache_hits", res.CacheHits,
		"duration", res.Duration,
	)
	return res, nil
}

func resolveCall(r *imports.Resolver, rc *cache.ResolutionCache, root string, conv imports.Conventions, call *cpg.ImportCall) []cpg.Tag {
	if rc == nil {
		return imports.ToTags(r.Resolve(call.Filename, call.ImportedEntity, call.ImportedAs))
	}
	key := cache.Key(conv.DirDottedPath(root, call.Filename), call.ImportedEntity, call.ImportedAs)
	if tags, ok := rc.Get(key); ok {
		return tags
	}
	tags := imports.ToTags(r.Resolve(call.Filename, call.ImportedEntity, call.ImportedAs))
	rc.Set(key, tags)
	return tags
}

func hasResolved(tags []cpg.Tag) bool {
	for _, t := range tags {
		switch t.Name {
		case imports.TagResolvedTypeDecl, imports.TagResolvedMethod, imports.TagResolvedMember:
			return true
		}
	}
	return false
}

func openCache(opts Options, fingerprint string, logger log.Logger) *cache.ResolutionCache {
	if opts.CacheSize <= 0 {
		return nil
	}
	rc := cache.New(cache.Options{MaxSize: opts.CacheSize, Fingerprint: fingerprint})
	if opts.CacheFile == "" {
		return rc
	}
	err := cache.LoadFromFile(rc, opts.CacheFile)
	switch {
	case errors.Is(err, cache.ErrStaleCache):
		logger.Info("discarding stale resolution cache", "path", opts.CacheFile)
	case err != nil:
		logger.Warn("failed to load resolution cache", "path", opts.CacheFile, "error", err)
	default:
		logger.Debug("resolution cache loaded", "path", opts.CacheFile, "entries", rc.Len())
	}
	return rc
}

func saveCache(rc *cache.ResolutionCache, path string, logger log.Logger) {
	if path == "" {
		return
	}
	if err := cache.PersistToFile(rc, path); err != nil {
		logger.Warn("failed to save resolution cache", "path", path, "error", err)
	}
}
