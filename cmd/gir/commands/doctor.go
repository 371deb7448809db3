package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-import-resolver/internal/config"
	"github.com/l3aro/go-import-resolver/internal/healthcheck"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [path]",
	Short: "Run health checks on configuration, parser and cache",
	Long: `Checks the configuration in effect, verifies that the Python parser works and
inspects the resolution cache and ignore file of the project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		root, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("getting absolute path: %w", err)
		}
		format, _ := cmd.Flags().GetString("format")

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.EffectivePath()
		}

		result, err := healthcheck.Check(cfg, configPath, root)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		if err := render(cmd.OutOrStdout(), format, result, func(w io.Writer) error {
			displayDoctorResult(w, result)
			return nil
		}); err != nil {
			return err
		}
		if result.Failed() {
			return fmt.Errorf("health check failed: one or more checks reported an error")
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
}

func displayDoctorResult(w io.Writer, result *healthcheck.HealthCheckResult) {
	fmt.Fprintln(w, "=== gir doctor ===")
	if result.ConfigPath != "" {
		fmt.Fprintf(w, "Config: %s (%s)\n", result.ConfigPath, result.ConfigScope)
	} else {
		fmt.Fprintln(w, "Config: built-in defaults")
	}
	fmt.Fprintln(w)

	for _, c := range result.Checks {
		icon := "✓"
		switch c.Status {
		case healthcheck.StatusMissing:
			icon = "-"
		case healthcheck.StatusError:
			icon = "✗"
		}
		line := fmt.Sprintf("%s %-12s %s", icon, c.Name, c.Status)
		if c.Detail != "" {
			line += "  " + c.Detail
		}
		fmt.Fprintln(w, line)
		if c.Error != "" {
			fmt.Fprintf(w, "    %s\n", c.Error)
		}
	}
}
