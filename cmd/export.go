package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scoutdesk/output"
	"scoutdesk/storage"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored players from SQLite to CSV/Excel",
	Long: `Export stored players from SQLite.

Modes:
- raw: one row per player with human readable headers; the file can be imported again
- summary: per-position aggregates (player count, average age, total market value, goals, assists)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export players to CSV
  scoutdesk export --output ./players.csv

  # Export players to Excel
  scoutdesk export --output ./players.xlsx

  # Export the squad summary
  scoutdesk export --mode summary --output ./squad.csv

  # Force Excel format independent of extension
  scoutdesk export --mode summary --format excel --output ./squad.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		cfg, err := loadConfig(exportDBPath)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		players, err := store.ListPlayers(context.Background())
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := output.WriteFile(exportOutput, writer, players); err != nil {
				return err
			}
			fmt.Printf("Export completed. Players: %d, Mode: raw, Format: %s, File: %s\n", len(players), format, exportOutput)
		case "summary":
			summaries := output.BuildSquadSummaries(players, time.Now())
			err := writeOutputFile(exportOutput, func(out io.Writer) error {
				return output.WriteSquadSummaries(out, format, summaries)
			})
			if err != nil {
				return err
			}
			fmt.Printf("Export completed. Positions: %d, Mode: summary, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, summary)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

// writeOutputFile removes a partially written file when write fails.
func writeOutputFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default from storage.db_path)")

	_ = exportCmd.MarkFlagRequired("output")
}
