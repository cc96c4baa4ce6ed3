package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scoutdesk/config"
)

// editorEnvVars are consulted in order before falling back to vi.
var editorEnvVars = []string{"VISUAL", "EDITOR"}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active scoutdesk config file in your editor.

The editor is taken from $VISUAL, then $EDITOR, then vi.

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the content is validated and the effective values are printed.`,
	Example: `
  # Edit active config
  scoutdesk config edit

  # Edit with a specific editor
  VISUAL="code --wait" scoutdesk config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		cfg, err := editConfigFile(configPath, resolveEditor(os.Getenv), os.Stdin, out)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Configuration saved and validated: %s\n", configPath)
		printConfig(out, cfg)
		return nil
	},
}

// editConfigFile seeds path when missing, runs editor on it and validates
// what the editor left behind.
func editConfigFile(path, editor string, stdin io.Reader, stdout io.Writer) (*config.Config, error) {
	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Fprintf(stdout, "No config file found. Created example config at: %s\n", path)
	}

	command, err := editorCommand(editor, path)
	if err != nil {
		return nil, err
	}
	command.Stdin = stdin
	command.Stdout = stdout
	command.Stderr = os.Stderr
	if err := command.Run(); err != nil {
		return nil, fmt.Errorf("opening editor failed: %w", err)
	}

	return loadConfigFile(path)
}

func resolveEditor(getenv func(string) string) string {
	for _, name := range editorEnvVars {
		if value := strings.TrimSpace(getenv(name)); value != "" {
			return value
		}
	}
	return "vi"
}

func editorCommand(editor, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
