package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by scoutdesk.

If no configuration file is active, the command returns an error.
Unless --yes is given, the deletion must be confirmed by typing exactly "Y".`,
	Example: `
  # Delete active config
  scoutdesk config delete

  # Delete config at a custom path without prompting
  scoutdesk --configFile ./custom-scoutdesk.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		if !configDeleteYes {
			confirmed, err := confirmPrompt(promptInput, promptOutput, fmt.Sprintf("Delete configuration file %q?", configPath))
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("config delete aborted: confirmation was not 'Y'")
			}
		}

		if err := removeConfigFile(configPath); err != nil {
			return err
		}

		fmt.Printf("Configuration file successfully deleted: %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
