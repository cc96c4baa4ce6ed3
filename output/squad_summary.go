package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"scoutdesk/importer"
	"scoutdesk/internal/timeutil"
	"scoutdesk/player"
)

// SquadSummary aggregates the stored players of one position.
type SquadSummary struct {
	Position         string
	PlayerCount      int
	AverageAge       float64
	TotalMarketValue decimal.Decimal
	Goals            int
	Assists          int
}

var squadSummaryHeaders = []string{"Position", "Players", "Average Age", "Total Market Value", "Goals", "Assists"}

// BuildSquadSummaries groups players by position, sorted by position name.
// Positions are compared without regard to case; the first spelling seen is
// reported.
func BuildSquadSummaries(players []player.Player, today time.Time) []SquadSummary {
	if len(players) == 0 {
		return []SquadSummary{}
	}

	type bucket struct {
		summary SquadSummary
		ages    []int
	}

	byPosition := make(map[string]*bucket)
	for _, p := range players {
		key := strings.ToLower(strings.TrimSpace(p.Record.Position))
		b, ok := byPosition[key]
		if !ok {
			b = &bucket{summary: SquadSummary{Position: strings.TrimSpace(p.Record.Position)}}
			byPosition[key] = b
		}

		b.summary.PlayerCount++
		if birth, ok := timeutil.ParseISODate(p.Record.DateOfBirth); ok {
			b.ages = append(b.ages, timeutil.AgeOn(birth, today))
		}
		if p.Record.MarketValue != nil {
			b.summary.TotalMarketValue = b.summary.TotalMarketValue.Add(p.Record.MarketValue.Amount)
		}
		if stats := p.Record.Stats; stats != nil {
			b.summary.Goals += valueOrZero(stats.Goals)
			b.summary.Assists += valueOrZero(stats.Assists)
		}
	}

	keys := make([]string, 0, len(byPosition))
	for key := range byPosition {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]SquadSummary, 0, len(keys))
	for _, key := range keys {
		b := byPosition[key]
		b.summary.AverageAge = averageAge(b.ages)
		summaries = append(summaries, b.summary)
	}
	return summaries
}

func averageAge(ages []int) float64 {
	if len(ages) == 0 {
		return 0
	}
	total := 0
	for _, age := range ages {
		total += age
	}
	return math.Round(float64(total)/float64(len(ages))*10) / 10
}

func valueOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func WriteSquadSummaries(out io.Writer, format string, summaries []SquadSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			summary.Position,
			strconv.Itoa(summary.PlayerCount),
			strconv.FormatFloat(summary.AverageAge, 'f', 1, 64),
			importer.FormatMarketValue(summary.TotalMarketValue),
			strconv.Itoa(summary.Goals),
			strconv.Itoa(summary.Assists),
		})
	}

	switch normalizeFormat(format) {
	case "csv":
		return writeCSVRows(out, squadSummaryHeaders, func(emit func([]string) error) error {
			for _, row := range rows {
				if err := emit(row); err != nil {
					return err
				}
			}
			return nil
		})
	case "excel", "xlsx":
		return writeExcelRows(out, "Squad", squadSummaryHeaders, rows)
	default:
		return fmt.Errorf("unsupported output format for squad summaries: %s", format)
	}
}
