package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage scoutdesk configuration file values.",
	Long: `Create, edit, display, and delete the scoutdesk configuration file.

The configuration stores application-wide values:
- storage.db_path
- import.max_file_size
- server.port
- logging.level / logging.format
- telemetry.enabled`,
	Example: `
  # Create default config in $HOME/.scoutdesk.yaml
  scoutdesk config create

  # Show active config and source file
  scoutdesk config show

  # Open active config in editor (creates example if missing)
  scoutdesk config edit

  # Delete active config file
  scoutdesk config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
