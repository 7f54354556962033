// Package ingest finds document files on disk and hands new ones to a
// submitter, skipping content it has already seen.
package ingest

import (
	"context"
	"time"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	Deduplicated bool
	HashHex      string
	FileExt      string
	SubmittedAt  time.Time
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// SubmitFunc hands one accepted file to the processing side.
type SubmitFunc func(ctx context.Context, path string) error

// Ingestor is the behavior the CLI depends on.
type Ingestor interface {
	// IngestPath submits a single path unless its content was seen before.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
