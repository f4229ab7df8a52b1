package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jindracerny/gpx-plot-on-map/internal/config"
)

var (
	// Config init flags
	configInitPath      string
	configInitOverwrite bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Writes a commented sample configuration file with every setting at its
default value. Without --path the file goes to ~/.gpx-plot-on-map/config.toml.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitPath, "path", "p", "",
		"Destination for the configuration file")
	configInitCmd.Flags().BoolVar(&configInitOverwrite, "overwrite", false,
		"Overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	target := configInitPath
	if target == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("determine default config path: %w", err)
		}
		target = defaultPath
	} else {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		target = expanded
	}

	if !configInitOverwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("check config path: %w", err)
		}
	}

	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("create sample config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
	return nil
}
