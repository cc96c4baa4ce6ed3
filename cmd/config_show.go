package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scoutdesk/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  scoutdesk config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		printConfig(os.Stdout, cfg)
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "%s: %s\n", config.KeyStorageDBPath, cfg.Storage.DBPath)
	fmt.Fprintf(w, "%s: %d\n", config.KeyImportMaxFileSize, cfg.Import.MaxFileSize)
	fmt.Fprintf(w, "%s: %d\n", config.KeyServerPort, cfg.Server.Port)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLoggingLevel, cfg.Logging.Level)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLoggingFormat, cfg.Logging.Format)
	fmt.Fprintf(w, "%s: %t\n", config.KeyTelemetryEnabled, cfg.Telemetry.Enabled)
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
