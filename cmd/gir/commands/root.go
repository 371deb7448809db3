package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-import-resolver/internal/config"
	"github.com/l3aro/go-import-resolver/internal/log"
	"github.com/l3aro/go-import-resolver/internal/telemetry"
)

var (
	cfg           *config.Config
	logger        = log.Default()
	shutdownTrace telemetry.ShutdownFunc
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gir",
	Short: "gir - Import resolution for Python code property graphs",
	Long: `gir resolves every import statement of a Python codebase to the functions,
classes, modules and variables it refers to. Imports that cannot be found in
the codebase are tagged with a best-effort guess of where they would live.

Commands:
  resolve     Resolve all imports under a directory
  index       Show the module index built for a directory
  init        Create a configuration file interactively
  doctor      Check configuration, parser and cache

Use "gir [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTrace == nil {
			return nil
		}
		err := shutdownTrace(cmd.Context())
		shutdownTrace = nil
		return err
	},
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON lines")
	RootCmd.PersistentFlags().Bool("trace", false, "Write OpenTelemetry spans to stderr")
	RootCmd.PersistentFlags().String("config", "", "Config file path (default: layered ~/.gir and ./.gir)")

	RootCmd.AddCommand(resolveCmd)
	RootCmd.AddCommand(indexCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
}

// setup loads the configuration and applies the logging flags.
func setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")

	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.SetLevel(cfg.Level())
	logger.SetJSONOutput(cfg.JSONLogs)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if cmd.Flags().Changed("json-logs") {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		logger.SetJSONOutput(jsonLogs)
	}

	if trace, _ := cmd.Flags().GetBool("trace"); trace && shutdownTrace == nil {
		shutdown, err := telemetry.Setup(os.Stderr, RootCmd.Version)
		if err != nil {
			return err
		}
		shutdownTrace = shutdown
	}
	return nil
}
