package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"typeahead/internal/config"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the typeahead config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default configuration to the config file.

Examples:
  # Create ~/.config/typeahead/config.toml
  typeahead config init

  # Write somewhere else, replacing an existing file
  typeahead config init --config ./typeahead.toml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func configService() config.ConfigService {
	if flags.configPath != "" {
		return config.NewConfigServiceAt(flags.configPath, nil)
	}
	return config.NewConfigService(nil)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	svc := configService()
	if _, err := os.Stat(svc.Path()); err == nil && !forceInit {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", svc.Path())
	}
	if err := svc.Save(config.DefaultConfig()); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", svc.Path())
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := configService().Load()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
