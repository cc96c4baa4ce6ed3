package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scoutdesk/output"
)

var (
	templateFormat string
	templateOutput string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a blank player import template",
	Long: `Write a template with every recognised header and one example row.

CSV templates use machine headers (firstName, dateOfBirth, ...), Excel
templates use human headers (First Name, Date of Birth, ...). Both import
without changes.`,
	Example: `
  # CSV template
  scoutdesk template -o ./players.csv

  # Excel template
  scoutdesk template -o ./players.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := templateFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(templateOutput)
		}

		if err := writeOutputFile(templateOutput, func(out io.Writer) error {
			return output.WriteTemplate(out, format)
		}); err != nil {
			return err
		}
		fmt.Printf("Template written. Format: %s, File: %s\n", format, templateOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateFormat, "format", "f", "", "Template format: csv|excel (optional, inferred from output extension)")
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Output file path")

	_ = templateCmd.MarkFlagRequired("output")
}
