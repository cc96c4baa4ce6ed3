package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"scoutdesk/importer"
	"scoutdesk/player"
)

// Writer renders players into a spreadsheet that the importer accepts again.
type Writer interface {
	Write(w io.Writer, players []player.Player) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile creates path and writes players into it.
func WriteFile(path string, writer Writer, players []player.Player) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}

	if err := writer.Write(file, players); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

// exportStyle is used for every export so tags are comma separated.
const exportStyle = importer.StyleHuman

// playerRow lays out one player in importer.Fields order.
func playerRow(p player.Player, style importer.HeaderStyle) []string {
	record := p.Record
	stats := record.Stats
	if stats == nil {
		stats = &player.SeasonStats{}
	}

	marketValue := ""
	if record.MarketValue != nil {
		marketValue = record.MarketValue.Display
	}

	separator := style.TagSeparator()
	if separator == "," {
		separator = ", "
	}

	return []string{
		record.FirstName,
		record.LastName,
		record.DateOfBirth,
		record.Nationality,
		record.Position,
		formatInt(record.Height),
		formatInt(record.Weight),
		record.PreferredFoot,
		record.CurrentClub,
		record.Email,
		record.Phone,
		marketValue,
		record.ContractExpiry,
		strings.Join(record.Tags, separator),
		record.Notes,
		stats.Season,
		formatInt(stats.MatchesPlayed),
		formatInt(stats.Goals),
		formatInt(stats.Assists),
		formatInt(stats.YellowCards),
		formatInt(stats.RedCards),
		formatInt(stats.MinutesPlayed),
		formatDecimal(stats.AverageRating),
		formatDecimal(stats.PassAccuracy),
	}
}

func formatInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatDecimal(value *decimal.Decimal) string {
	if value == nil {
		return ""
	}
	return value.String()
}
