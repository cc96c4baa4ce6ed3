package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"scoutdesk/importer"
	"scoutdesk/player"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(out io.Writer, players []player.Player) error {
	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerRow(p, exportStyle))
	}
	return writeExcelRows(out, "Players", importer.TemplateHeaders(exportStyle), rows)
}

func writeExcelRows(out io.Writer, sheetName string, headers []string, rows [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheetName != "" && sheetName != sheet {
		if err := file.SetSheetName(sheet, sheetName); err != nil {
			return fmt.Errorf("rename excel sheet: %w", err)
		}
		sheet = sheetName
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if _, err := file.WriteTo(out); err != nil {
		return fmt.Errorf("write excel output: %w", err)
	}

	return nil
}
