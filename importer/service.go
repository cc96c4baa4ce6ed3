package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"scoutdesk/internal/classify"
	"scoutdesk/internal/logging"
	"scoutdesk/player"
	"scoutdesk/telemetry"
)

// PlayerStore persists imported players. Implementations own every
// persistence rule, including uniqueness across batches.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, p player.Player) (player.Player, error)
	CreatePlayerStats(ctx context.Context, playerID int64, stats player.SeasonStats) (player.Stats, error)
}

// Result is the outcome of one batch.
type Result struct {
	Successful    int
	Failed        int
	Errors        []string
	Duplicates    []string
	StatsFailures int
}

// Source identifies where a batch came from.
type Source struct {
	FileType FileType
	FileName string
	BatchID  string
}

// Service runs import batches. It holds no per-batch state, so one Service
// may serve concurrent imports.
type Service struct {
	Store     PlayerStore
	Telemetry telemetry.Recorder
	Logger    *slog.Logger
	Now       func() time.Time
}

// Import parses one uploaded file and imports its rows. The returned error
// is an *ImportFailure when the file could not be parsed; row level problems
// are reported inside the Report.
func (s *Service) Import(ctx context.Context, fileName string, data []byte) (*Report, error) {
	fileType := DetectFileType(fileName, data)
	source := Source{FileType: fileType, FileName: fileName, BatchID: uuid.NewString()}
	logger := s.logger(ctx).With("batch_id", source.BatchID, "file_name", fileName, "file_type", fileType)

	rows, err := parseRows(fileType, data)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		return nil, &ImportFailure{FileType: fileType, FileName: fileName, Err: err}
	}

	records, style := buildRecords(rows)
	logger.Debug("import started", "rows", len(records), "header_style", style)

	result := s.Run(ctx, records, style, source)
	return s.report(ctx, source, len(records), result), nil
}

func parseRows(fileType FileType, data []byte) ([][]string, error) {
	reader, err := ReaderForFileType(fileType)
	if err != nil {
		return nil, &FormatError{FileType: fileType, Err: err}
	}
	return reader.Read(data)
}

// batch is the mutable state of exactly one Run call.
type batch struct {
	source  Source
	style   HeaderStyle
	today   time.Time
	tracker *classify.Tracker
	result  Result
}

// Run processes records strictly in order. Every record ends up persisted,
// failed or duplicate; no single row can stop the loop.
func (s *Service) Run(ctx context.Context, records []Record, style HeaderStyle, source Source) Result {
	b := &batch{
		source:  source,
		style:   style,
		today:   s.now(),
		tracker: classify.NewTracker(),
		result: Result{
			Errors:     make([]string, 0),
			Duplicates: make([]string, 0),
		},
	}

	for _, record := range records {
		s.processRow(ctx, b, record)
	}

	return b.result
}

func (s *Service) processRow(ctx context.Context, b *batch, record Record) {
	row := record.RowNumber
	canonical, coercionErrs := Coerce(record, b.style)

	violations := ValidateRow(canonical, row, b.today)
	if len(violations) > 0 || len(coercionErrs) > 0 {
		b.result.Failed++
		for _, violation := range violations {
			b.result.Errors = append(b.result.Errors, violation.Error())
		}
		for _, coercionErr := range coercionErrs {
			b.result.Errors = append(b.result.Errors, coercionErr.Error())
		}
		return
	}

	nameKey := classify.NewNameKey(canonical.FirstName, canonical.LastName)
	if firstRow, seen := b.tracker.NameSeen(nameKey); seen {
		b.duplicate(row, "Duplicate player name %q (also found in row %d)", canonical.FullName(), firstRow)
		return
	}

	emailKey, hasEmail := classify.NewEmailKey(canonical.Email)
	if hasEmail {
		if firstRow, seen := b.tracker.EmailSeen(emailKey); seen {
			b.duplicate(row, "Duplicate email %q (also found in row %d)", canonical.Email, firstRow)
			return
		}
	}

	b.tracker.Remember(row, nameKey, emailKey, hasEmail)

	created, err := s.Store.CreatePlayer(ctx, player.Player{
		Record:     canonical.Record,
		SourceFile: b.source.FileName,
		BatchID:    b.source.BatchID,
	})
	if err != nil {
		b.result.Failed++
		b.result.Errors = append(b.result.Errors, (&PersistenceError{Row: row, Err: err}).Error())
		return
	}
	b.result.Successful++

	if canonical.Stats == nil {
		return
	}
	// The player stays created when its statistics cannot be stored.
	if _, err := s.Store.CreatePlayerStats(ctx, created.ID, *canonical.Stats); err != nil {
		b.result.StatsFailures++
		s.logger(ctx).Warn("create player stats failed",
			"batch_id", b.source.BatchID,
			"row", row,
			"player_id", created.ID,
			"error", err,
		)
	}
}

func (b *batch) duplicate(row int, format string, args ...any) {
	entry := DuplicateEntry{Row: row, Message: fmt.Sprintf(format, args...)}
	b.result.Duplicates = append(b.result.Duplicates, entry.String())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger(ctx context.Context) *slog.Logger {
	return logging.With(ctx, s.Logger)
}
