package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-import-resolver/pkg/imports"
)

// IndexOutput is the machine-readable module index.
type IndexOutput struct {
	Fingerprint string       `json:"fingerprint" yaml:"fingerprint"`
	Entries     []IndexEntry `json:"entries" yaml:"entries"`
}

// IndexEntry is one dotted path and the entity registered under it.
type IndexEntry struct {
	Path    string   `json:"path" yaml:"path"`
	Kind    string   `json:"kind" yaml:"kind"`
	Targets []string `json:"targets" yaml:"targets"`
}

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Show the module index built for a directory",
	Long:  `Lists every dotted import path the codebase under the directory defines, with the kind of entity it names.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		format, _ := cmd.Flags().GetString("format")
		kind, _ := cmd.Flags().GetString("kind")

		g, err := loadGraph(cmd.Context(), cfg, path)
		if err != nil {
			return err
		}
		idx, err := imports.BuildIndex(cmd.Context(), g, cfg.Conventions())
		if err != nil {
			return fmt.Errorf("building module index: %w", err)
		}

		out := describeIndex(idx, kind)
		return render(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
			for _, e := range out.Entries {
				fmt.Fprintf(w, "%-40s %-9s %s\n", e.Path, e.Kind, e.Targets[0])
			}
			fmt.Fprintf(w, "%d entries (fingerprint %s)\n", len(out.Entries), out.Fingerprint)
			return nil
		})
	},
}

func init() {
	indexCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
	indexCmd.Flags().String("kind", "", "Only list entries of this kind: module, function, type or variable")
}

func describeIndex(idx *imports.ModuleIndex, kind string) IndexOutput {
	out := IndexOutput{Fingerprint: idx.Fingerprint(), Entries: []IndexEntry{}}
	for _, key := range idx.Keys() {
		entity, _ := idx.Lookup(key)
		if kind != "" && entity.Kind() != kind {
			continue
		}
		var targets []string
		for _, t := range imports.ToTags(entity.ToResolvedImport("")) {
			targets = append(targets, t.Value)
		}
		out.Entries = append(out.Entries, IndexEntry{Path: key, Kind: entity.Kind(), Targets: targets})
	}
	return out
}
