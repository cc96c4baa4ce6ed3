// Package telemetry records usage of the player import pipeline. Recorders
// are best effort: callers log their errors and carry on.
package telemetry

import (
	"context"
	"errors"
)

// Event describes one finished import batch.
type Event struct {
	BatchID       string
	FileType      string
	FileName      string
	TotalRows     int
	Successful    int
	Failed        int
	Duplicates    int
	StatsFailures int
}

type Recorder interface {
	RecordImport(ctx context.Context, event Event) error
}

// Fanout forwards each event to every recorder and joins their errors.
type Fanout []Recorder

func (f Fanout) RecordImport(ctx context.Context, event Event) error {
	var errs []error
	for _, recorder := range f {
		if recorder == nil {
			continue
		}
		if err := recorder.RecordImport(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordImport(context.Context, Event) error { return nil }
