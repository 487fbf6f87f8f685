package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/bundlekit/internal/config"
)

// annotationSkipConfigLoad marks commands that must run even when the
// configuration on disk does not load.
const annotationSkipConfigLoad = "bundlekit/skip-config-load"

// newConfigCmd groups the config subcommands.
func newConfigCmd(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the bundlekit configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd(rt))
	return cmd
}

// newConfigInitCmd creates the config init command, which writes a
// configuration file holding the default values.
func newConfigInitCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values for every command.

The file is written to ./bundlekit.yaml unless --path is given. An existing file
is only replaced when --force is set.`,
		Example: `  # Create ./bundlekit.yaml
  bundlekit config init

  # Create configuration, overwriting existing
  bundlekit config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			if err := config.Default().Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&path, "path", config.DefaultFileName, "where to write the configuration file")

	return cmd
}
