/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scoutdesk/config"
	"scoutdesk/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scoutdesk",
	Short: "Import, browse, and export scouted football players from CSV and Excel spreadsheets.",
	Long: `
**********************************************
*               SCOUT DESK                   *
**********************************************

This CLI imports player spreadsheets (CSV, Excel) into a local SQLite database,
reports every rejected or duplicate row, serves the same import over HTTP,
and exports stored players back into re-importable spreadsheets.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv

Header rows may use machine headers (firstName, dateOfBirth, tags) or
human headers (First Name, Date of Birth, Tags).
`,
	Example: `
  # Create configuration file
  scoutdesk config create

  # Download a blank template to fill in
  scoutdesk template -o players.xlsx

  # Import one or more spreadsheets
  scoutdesk import -i players.csv -i summer_window.xlsx

  # Serve the import API on the configured port
  scoutdesk serve

  # Export stored players
  scoutdesk export -o ./players.csv

  # Export a per-position squad summary
  scoutdesk export --mode summary -o ./squad.xlsx
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(viper.GetString(config.KeyLoggingLevel), viper.GetString(config.KeyLoggingFormat))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.scoutdesk.yaml, then ./.scoutdesk.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".scoutdesk" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".scoutdesk")
	}

	// SCOUTDESK_STORAGE_DB_PATH overrides storage.db_path and so on.
	viper.SetEnvPrefix("scoutdesk")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults are enough to run, so a missing file is only a hint.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: scoutdesk config create")
	}
}

// loadConfig validates the active configuration and applies a --db override.
func loadConfig(dbPathFlag string) (*config.Config, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	if path := strings.TrimSpace(dbPathFlag); path != "" {
		cfg.Storage.DBPath = path
	}
	return cfg, nil
}
