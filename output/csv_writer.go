package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"scoutdesk/importer"
	"scoutdesk/player"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(out io.Writer, players []player.Player) error {
	return writeCSVRows(out, importer.TemplateHeaders(exportStyle), func(emit func([]string) error) error {
		for _, p := range players {
			if err := emit(playerRow(p, exportStyle)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSVRows(out io.Writer, headers []string, rows func(emit func([]string) error) error) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	err := rows(func(row []string) error {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
