package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-import-resolver/internal/log"
	"github.com/l3aro/go-import-resolver/pkg/cpg"
	"github.com/l3aro/go-import-resolver/pkg/imports"
	"github.com/l3aro/go-import-resolver/pkg/pass"
)

// ResolveOutput is the machine-readable result of the resolve command.
type ResolveOutput struct {
	Summary *pass.Result `json:"summary" yaml:"summary"`
	Imports []ImportInfo `json:"imports" yaml:"imports"`
}

// ImportInfo is one import call site and its resolutions.
type ImportInfo struct {
	ID       int       `json:"id" yaml:"id"`
	File     string    `json:"file" yaml:"file"`
	Line     int       `json:"line" yaml:"line"`
	Imported string    `json:"imported" yaml:"imported"`
	As       string    `json:"as" yaml:"as"`
	Resolved bool      `json:"resolved" yaml:"resolved"`
	Tags     []cpg.Tag `json:"tags" yaml:"tags"`
}

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Resolve all imports under a directory",
	Long: `Scans the directory for Python sources, builds the module index and resolves
every import statement. Each import is reported with the tags committed to it:
RESOLVED_* tags for entities found in the codebase and UNKNOWN_* tags for
best-effort guesses about external code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		format, _ := cmd.Flags().GetString("format")
		unresolvedOnly, _ := cmd.Flags().GetBool("unresolved-only")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		g, err := loadGraph(cmd.Context(), cfg, path)
		if err != nil {
			return err
		}

		opts := pass.Options{
			Conventions: cfg.Conventions(),
			Workers:     cfg.Workers,
			CacheSize:   cfg.CacheSize,
			CacheFile:   cachePath(g.Root, cfg.CacheFile),
			Logger:      logger,
		}
		if noCache {
			opts.CacheSize, opts.CacheFile = 0, ""
		}

		spinner := log.NewProgressSpinner(fmt.Sprintf("Resolving imports in %d files...", len(g.Modules)))
		spinner.Start()
		res, err := pass.Run(cmd.Context(), g, opts)
		spinner.Stop()
		if err != nil {
			return err
		}

		out := ResolveOutput{Summary: res, Imports: collectImports(g, unresolvedOnly)}
		return render(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
			return printResolve(w, out)
		})
	},
}

func init() {
	resolveCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
	resolveCmd.Flags().Bool("unresolved-only", false, "Only report imports that were not found in the codebase")
	resolveCmd.Flags().Bool("no-cache", false, "Disable the resolution cache")
}

func collectImports(g *cpg.Graph, unresolvedOnly bool) []ImportInfo {
	infos := []ImportInfo{}
	for _, call := range g.ImportCalls() {
		resolved := false
		for _, t := range call.Tags {
			if e, err := imports.FromTag(t); err == nil && imports.IsResolved(e) {
				resolved = true
				break
			}
		}
		if unresolvedOnly && resolved {
			continue
		}
		infos = append(infos, ImportInfo{
			ID:       call.ID,
			File:     call.Filename,
			Line:     call.LineNumber,
			Imported: call.ImportedEntity,
			As:       call.ImportedAs,
			Resolved: resolved,
			Tags:     call.Tags,
		})
	}
	return infos
}

func printResolve(w io.Writer, out ResolveOutput) error {
	for _, info := range out.Imports {
		marker := "?"
		if info.Resolved {
			marker = "✓"
		}
		header := info.Imported
		if info.As != info.Imported {
			header += " as " + info.As
		}
		fmt.Fprintf(w, "%s %s:%d  %s\n", marker, info.File, info.Line, header)
		for _, t := range info.Tags {
			fmt.Fprintf(w, "    %-18s %s\n", t.Name, t.Value)
		}
	}

	s := out.Summary
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%d imports: %d resolved, %d guessed (%d cache hits, %d index keys)\n",
		s.Calls, s.Resolved, s.Guessed, s.CacheHits, s.IndexKeys)
	return nil
}
