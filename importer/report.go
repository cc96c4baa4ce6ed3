package importer

import (
	"context"
	"errors"
	"fmt"

	"scoutdesk/telemetry"
)

// Report is what an import returns to its caller.
type Report struct {
	Message    string   `json:"message"`
	FileType   FileType `json:"fileType"`
	FileName   string   `json:"fileName"`
	TotalRows  int      `json:"totalRows"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
	Duplicates []string `json:"duplicates"`
}

// FailureReport is returned to callers when a file could not be parsed.
type FailureReport struct {
	Message  string   `json:"message"`
	Error    string   `json:"error"`
	FileType FileType `json:"fileType"`
	FileName string   `json:"fileName"`
}

// NewFailureReport describes failure for the caller.
func NewFailureReport(failure *ImportFailure) FailureReport {
	message := "Failed to parse file"
	var structural *StructuralError
	if errors.As(failure.Err, &structural) {
		message = "File must contain a header row and at least one data row"
	}

	return FailureReport{
		Message:  message,
		Error:    failure.Err.Error(),
		FileType: failure.FileType,
		FileName: failure.FileName,
	}
}

func (s *Service) report(ctx context.Context, source Source, totalRows int, result Result) *Report {
	report := &Report{
		Message: fmt.Sprintf("Import completed: %d successful, %d failed, %d duplicates",
			result.Successful, result.Failed, len(result.Duplicates)),
		FileType:   source.FileType,
		FileName:   source.FileName,
		TotalRows:  totalRows,
		Successful: result.Successful,
		Failed:     result.Failed,
		Errors:     result.Errors,
		Duplicates: result.Duplicates,
	}

	s.logger(ctx).Info("import completed",
		"batch_id", source.BatchID,
		"file_name", source.FileName,
		"file_type", source.FileType,
		"total_rows", totalRows,
		"successful", result.Successful,
		"failed", result.Failed,
		"duplicates", len(result.Duplicates),
	)

	s.recordUsage(ctx, telemetry.Event{
		BatchID:       source.BatchID,
		FileType:      string(source.FileType),
		FileName:      source.FileName,
		TotalRows:     totalRows,
		Successful:    result.Successful,
		Failed:        result.Failed,
		Duplicates:    len(result.Duplicates),
		StatsFailures: result.StatsFailures,
	})

	return report
}

// recordUsage never lets a telemetry problem reach the caller.
func (s *Service) recordUsage(ctx context.Context, event telemetry.Event) {
	if s.Telemetry == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger(ctx).Error("telemetry recorder panicked", "batch_id", event.BatchID, "panic", r)
		}
	}()

	if err := s.Telemetry.RecordImport(ctx, event); err != nil {
		s.logger(ctx).Warn("record import telemetry", "batch_id", event.BatchID, "error", err)
	}
}
