package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scoutdesk/config"
	"scoutdesk/importer"
	"scoutdesk/storage"
	"scoutdesk/telemetry"
)

var (
	importInputs []string
	importDBPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel player spreadsheets into the local SQLite database",
	Long: `Read each input file, detect whether it is CSV or Excel, map its headers,
validate every row and persist the players that pass.

Each file is its own batch: duplicates are detected within a file, while an
email already stored by an earlier import is reported as a failed row.
A file that cannot be parsed at all is reported and the remaining files are
still imported; the command then exits with an error.`,
	Example: `
  # Import a CSV export
  scoutdesk import -i players.csv

  # Import several files into a specific database
  scoutdesk import -i players.csv -i summer_window.xlsx --db ./scouting.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(importDBPath)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		service := &importer.Service{
			Store:     store,
			Telemetry: cliRecorder(*cfg, store),
			Logger:    slog.Default(),
		}

		var failed []string
		for _, input := range importInputs {
			if err := importFile(cmd.Context(), cmd.OutOrStdout(), service, input, cfg.Import.MaxFileSize); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", input, err)
				failed = append(failed, input)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files could not be imported", len(failed), len(importInputs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default from storage.db_path)")

	_ = importCmd.MarkFlagRequired("input")
}

func cliRecorder(cfg config.Config, store *storage.SQLiteStore) telemetry.Recorder {
	if !cfg.Telemetry.Enabled {
		return telemetry.Nop{}
	}
	return store
}

func importFile(ctx context.Context, out io.Writer, service *importer.Service, path string, maxSize int64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("file is %d bytes, larger than the %d byte limit", info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	report, err := service.Import(ctx, filepath.Base(path), data)
	if err != nil {
		var failure *importer.ImportFailure
		if errors.As(err, &failure) {
			printFailureReport(out, importer.NewFailureReport(failure))
		}
		return err
	}

	printReport(out, report)
	return nil
}

func printReport(w io.Writer, report *importer.Report) {
	fmt.Fprintf(w, "%s (%s, %s, %d rows)\n", report.Message, report.FileName, report.FileType, report.TotalRows)
	if len(report.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, message := range report.Errors {
			fmt.Fprintf(w, "  - %s\n", message)
		}
	}
	if len(report.Duplicates) > 0 {
		fmt.Fprintln(w, "Duplicates:")
		for _, message := range report.Duplicates {
			fmt.Fprintf(w, "  - %s\n", message)
		}
	}
}

func printFailureReport(w io.Writer, report importer.FailureReport) {
	fmt.Fprintf(w, "%s (%s, %s): %s\n", report.Message, report.FileName, report.FileType, report.Error)
}
