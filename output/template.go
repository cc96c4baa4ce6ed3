package output

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"scoutdesk/importer"
	"scoutdesk/player"
)

// TemplateStyle returns the header convention a template of format uses.
// CSV templates carry machine headers, Excel templates human ones.
func TemplateStyle(format string) (importer.HeaderStyle, error) {
	switch normalizeFormat(format) {
	case "csv":
		return importer.StyleMachine, nil
	case "excel", "xlsx":
		return importer.StyleHuman, nil
	default:
		return 0, fmt.Errorf("unsupported template format: %s", format)
	}
}

// WriteTemplate writes an import template with one example row.
func WriteTemplate(out io.Writer, format string) error {
	style, err := TemplateStyle(format)
	if err != nil {
		return err
	}

	headers := importer.TemplateHeaders(style)
	example := playerRow(examplePlayer(), style)

	if style == importer.StyleMachine {
		return writeCSVRows(out, headers, func(emit func([]string) error) error {
			return emit(example)
		})
	}
	return writeExcelRows(out, "Players", headers, [][]string{example})
}

func examplePlayer() player.Player {
	height, weight := 178, 72
	matches, goals, assists, yellow, red, minutes := 31, 9, 12, 4, 0, 2540
	rating := decimal.RequireFromString("7.3")
	accuracy := decimal.RequireFromString("84.5")
	value := decimal.NewFromInt(2500000)

	return player.Player{Record: player.Record{
		FirstName:      "Alex",
		LastName:       "Example",
		DateOfBirth:    "2001-04-12",
		Nationality:    "Portugal",
		Position:       "Winger",
		Height:         &height,
		Weight:         &weight,
		PreferredFoot:  "Left",
		CurrentClub:    "Example FC",
		Email:          "alex.example@example.com",
		Phone:          "+351 900 000 000",
		MarketValue:    &player.Money{Amount: value, Display: importer.FormatMarketValue(value)},
		ContractExpiry: "2028-06-30",
		Tags:           []string{"winger", "left footed"},
		Notes:          "Replace this row with your players",
		Stats: &player.SeasonStats{
			Season:        "2025/26",
			MatchesPlayed: &matches,
			Goals:         &goals,
			Assists:       &assists,
			YellowCards:   &yellow,
			RedCards:      &red,
			MinutesPlayed: &minutes,
			AverageRating: &rating,
			PassAccuracy:  &accuracy,
		},
	}}
}
