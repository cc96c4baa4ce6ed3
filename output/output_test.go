package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"scoutdesk/importer"
	"scoutdesk/player"
)

var fixedToday = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

type memoryStore struct {
	players []player.Player
	stats   []player.Stats
}

func (s *memoryStore) CreatePlayer(_ context.Context, p player.Player) (player.Player, error) {
	p.ID = int64(len(s.players) + 1)
	s.players = append(s.players, p)
	return p, nil
}

func (s *memoryStore) CreatePlayerStats(_ context.Context, playerID int64, stats player.SeasonStats) (player.Stats, error) {
	created := player.Stats{ID: int64(len(s.stats) + 1), PlayerID: playerID, SeasonStats: stats}
	s.stats = append(s.stats, created)
	return created, nil
}

func importBytes(t *testing.T, fileName string, data []byte) (*importer.Report, *memoryStore) {
	t.Helper()

	store := &memoryStore{}
	service := &importer.Service{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedToday },
	}
	report, err := service.Import(context.Background(), fileName, data)
	if err != nil {
		t.Fatalf("import %s: %v", fileName, err)
	}
	return report, store
}

func TestWriteTemplate_CSVUsesMachineHeaders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteTemplate(&buf, "csv"); err != nil {
		t.Fatalf("write template: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if !reflect.DeepEqual(rows[0], importer.TemplateHeaders(importer.StyleMachine)) {
		t.Fatalf("unexpected headers %v", rows[0])
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and example row, got %d rows", len(rows))
	}
}

func TestWriteTemplate_ImportsCleanly(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		format   string
		fileName string
	}{
		{format: "csv", fileName: "template.csv"},
		{format: "excel", fileName: "template.xlsx"},
	} {
		var buf bytes.Buffer
		if err := WriteTemplate(&buf, tc.format); err != nil {
			t.Fatalf("write %s template: %v", tc.format, err)
		}

		report, store := importBytes(t, tc.fileName, buf.Bytes())
		if report.Successful != 1 || report.Failed != 0 {
			t.Fatalf("%s template did not import cleanly: %+v", tc.format, report)
		}
		got := store.players[0].Record
		if !reflect.DeepEqual(got.Tags, []string{"winger", "left footed"}) {
			t.Fatalf("%s template tags: %#v", tc.format, got.Tags)
		}
		if got.MarketValue == nil || got.MarketValue.Display != "€2,500,000" {
			t.Fatalf("%s template market value: %+v", tc.format, got.MarketValue)
		}
		if len(store.stats) != 1 {
			t.Fatalf("%s template stats were not stored", tc.format)
		}
	}
}

func TestWriteTemplate_ExcelUsesHumanHeaders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteTemplate(&buf, "xlsx"); err != nil {
		t.Fatalf("write template: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if !reflect.DeepEqual(rows[0], importer.TemplateHeaders(importer.StyleHuman)) {
		t.Fatalf("unexpected headers %v", rows[0])
	}
}

func TestWriteTemplate_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := WriteTemplate(io.Discard, "pdf"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func exportedPlayers() []player.Player {
	height := 182
	goals := 12
	rating := decimal.RequireFromString("7.4")
	value := decimal.NewFromInt(1500000)

	return []player.Player{
		{ID: 1, Record: player.Record{
			FirstName:   "John",
			LastName:    "Smith",
			DateOfBirth: "1995-05-10",
			Nationality: "England",
			Position:    "Forward",
			Height:      &height,
			Email:       "john@example.com",
			MarketValue: &player.Money{Amount: value, Display: "€1,500,000"},
			Tags:        []string{"fast", "strong"},
			Notes:       "Plays, and scores",
			Stats:       &player.SeasonStats{Season: "2025/26", Goals: &goals, AverageRating: &rating},
		}},
		{ID: 2, Record: player.Record{
			FirstName:   "Ana",
			LastName:    "Lopez",
			DateOfBirth: "1999-09-09",
			Nationality: "Spain",
			Position:    "forward",
		}},
	}
}

func TestWriters_ExportIsReimportable(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		format   string
		fileName string
	}{
		{format: "csv", fileName: "players.csv"},
		{format: "excel", fileName: "players.xlsx"},
	} {
		writer, err := WriterForFormat(tc.format)
		if err != nil {
			t.Fatalf("writer for %s: %v", tc.format, err)
		}

		var buf bytes.Buffer
		if err := writer.Write(&buf, exportedPlayers()); err != nil {
			t.Fatalf("write %s: %v", tc.format, err)
		}

		report, store := importBytes(t, tc.fileName, buf.Bytes())
		if report.Successful != 2 || report.Failed != 0 {
			t.Fatalf("%s export did not reimport: %+v", tc.format, report)
		}

		got := store.players[0].Record
		if !reflect.DeepEqual(got.Tags, []string{"fast", "strong"}) {
			t.Fatalf("%s tags: %#v", tc.format, got.Tags)
		}
		if got.Notes != "Plays, and scores" || got.Height == nil || *got.Height != 182 {
			t.Fatalf("%s record: %+v", tc.format, got)
		}
		if got.MarketValue == nil || !got.MarketValue.Amount.Equal(decimal.NewFromInt(1500000)) {
			t.Fatalf("%s market value: %+v", tc.format, got.MarketValue)
		}
		if len(store.stats) != 1 || store.stats[0].AverageRating == nil || store.stats[0].AverageRating.String() != "7.4" {
			t.Fatalf("%s stats: %+v", tc.format, store.stats)
		}
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "players.csv")
	if err := WriteFile(path, &CSVWriter{}, exportedPlayers()); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "players.csv"), &CSVWriter{}, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestBuildSquadSummaries(t *testing.T) {
	t.Parallel()

	summaries := BuildSquadSummaries(exportedPlayers(), fixedToday)
	if len(summaries) != 1 {
		t.Fatalf("expected positions to group without case, got %d summaries", len(summaries))
	}

	summary := summaries[0]
	if summary.Position != "Forward" || summary.PlayerCount != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	// 31 and 26 years old.
	if summary.AverageAge != 28.5 {
		t.Fatalf("unexpected average age %v", summary.AverageAge)
	}
	if !summary.TotalMarketValue.Equal(decimal.NewFromInt(1500000)) || summary.Goals != 12 {
		t.Fatalf("unexpected totals %+v", summary)
	}

	if got := BuildSquadSummaries(nil, fixedToday); len(got) != 0 {
		t.Fatalf("expected empty summaries, got %v", got)
	}
}

func TestWriteSquadSummaries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteSquadSummaries(&buf, "csv", BuildSquadSummaries(exportedPlayers(), fixedToday)); err != nil {
		t.Fatalf("write summaries: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read summaries: %v", err)
	}
	want := [][]string{
		squadSummaryHeaders,
		{"Forward", "2", "28.5", "€1,500,000", "12", "0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected rows %v", rows)
	}

	if err := WriteSquadSummaries(io.Discard, "json", nil); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
