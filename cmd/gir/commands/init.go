package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-import-resolver/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a gir configuration file interactively",
	Long: `Guides you through the settings gir uses to scan and resolve a project and
writes them to a global or project config file.`,
	// init must work before any config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	c := config.DefaultConfig()

	extensions := append([]string(nil), c.Extensions...)
	workers := strconv.Itoa(c.Workers)
	useCache := c.CacheSize > 0
	logLevel := c.LogLevel

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Source files").
				Description("Which file extensions should be analyzed?").
				Options(
					huh.NewOption("Python sources (.py)", ".py"),
					huh.NewOption("Type stubs (.pyi)", ".pyi"),
					huh.NewOption("Windows scripts (.pyw)", ".pyw"),
				).
				Value(&extensions).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("select at least one extension")
					}
					return nil
				}),
			huh.NewInput().
				Title("Workers").
				Description("How many imports to resolve concurrently").
				Value(&workers).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Resolution cache").
				Description("Keep resolutions between runs in .gir/cache?").
				Affirmative("Yes").
				Negative("No").
				Value(&useCache),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&logLevel),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.gir/config.yaml)", "project"),
					huh.NewOption("Global (~/.gir/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := config.ProjectConfigFilePath()
	if saveLocationChoice == "global" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		configPath = filepath.Join(home, configPath)
	}

	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	c.Extensions = extensions
	c.Workers, _ = strconv.Atoi(workers)
	c.LogLevel = logLevel
	if !useCache {
		c.CacheSize = 0
		c.CacheFile = ""
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := c.Save(configPath); err != nil {
		return err
	}

	fmt.Println("\n=== Configuration Saved ===")
	fmt.Printf("Config path: %s\n", configPath)
	fmt.Printf("Extensions: %v\n", c.Extensions)
	fmt.Printf("Workers: %d\n", c.Workers)
	fmt.Printf("Cache: %v\n", useCache)
	fmt.Printf("Log level: %s\n", c.LogLevel)
	return nil
}
