package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scoutdesk/storage"
)

var (
	deleteDBPath      string
	deletePlayersOnly bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the SQLite database file or all stored players",
	Long: `Destructive database cleanup command.

By default the complete SQLite database file is deleted. With --players-only
the file is kept and every stored player and its statistics are removed; the
import log stays intact.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  scoutdesk delete --db ./scoutdesk.db

  # Remove all players but keep the database
  scoutdesk delete --players-only
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(deleteDBPath)
		if err != nil {
			return err
		}
		dbPath := cfg.Storage.DBPath

		question := fmt.Sprintf("Delete database file %q?", dbPath)
		if deletePlayersOnly {
			question = fmt.Sprintf("Delete all players stored in %q?", dbPath)
		}
		confirmed, err := confirmPrompt(promptInput, promptOutput, question)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if deletePlayersOnly {
			deleted, err := deleteAllPlayers(context.Background(), dbPath)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d players from: %s\n", deleted, dbPath)
			return nil
		}

		if err := removeDatabaseFile(dbPath); err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite database (default from storage.db_path)")
	deleteCmd.Flags().BoolVar(&deletePlayersOnly, "players-only", false, "Remove stored players but keep the database file")
}

func deleteAllPlayers(ctx context.Context, path string) (int64, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("database file not found: %s", path)
		}
		return 0, fmt.Errorf("stat database file: %w", err)
	}

	store, err := storage.OpenSQLite(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.DeleteAllPlayers(ctx)
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
