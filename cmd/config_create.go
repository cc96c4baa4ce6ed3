package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written. In both
cases the effective values of the file are printed.`,
	Example: `
  # Create default config at $HOME/.scoutdesk.yaml
  scoutdesk config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(cmd.OutOrStdout())
	},
}

func saveDefaultConfig(w io.Writer) error {
	configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "New config file created at: %s\n", configPath)
	} else {
		fmt.Fprintf(w, "Config file already exists at: %s\n", configPath)
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	printConfig(w, cfg)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
