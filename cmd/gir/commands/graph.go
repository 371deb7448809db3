package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/l3aro/go-import-resolver/internal/config"
	"github.com/l3aro/go-import-resolver/internal/scanner"
	"github.com/l3aro/go-import-resolver/pkg/cpg"
	"github.com/l3aro/go-import-resolver/pkg/extractor"
)

// loadGraph scans root and lowers every source file into a graph.
func loadGraph(ctx context.Context, c *config.Config, path string) (*cpg.Graph, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	opts := scanner.DefaultOptions()
	opts.Extensions = c.Extensions
	opts.IgnoreFileName = c.IgnoreFile
	files, err := scanner.New(opts).Scan(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("scanning directory: %w", err)
	}
	logger.Debug("scanned source tree", "root", root, "files", len(files))

	fe := extractor.NewPythonFrontend(c.Conventions())
	g, err := fe.BuildGraph(root, scanner.Paths(files))
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	return g, nil
}

// cachePath resolves a relative cache file against the analysis root.
func cachePath(root, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(root, file)
}
