package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
)

var _ Ingestor = (*FSIngestor)(nil)

// FSIngestor reads from the local filesystem. Content hashes are kept for
// the lifetime of the ingestor.
type FSIngestor struct {
	submit      SubmitFunc
	logger      *slog.Logger
	allowedExts map[string]struct{}

	mu   sync.Mutex
	seen map[string]string // hash -> first path
}

// NewFSIngestor builds an ingestor. A nil or empty exts uses
// constants.AllowedExtensions.
func NewFSIngestor(submit SubmitFunc, exts []string, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{
		submit:      submit,
		logger:      logger,
		allowedExts: extSet(exts),
		seen:        map[string]string{},
	}
}

func extSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		return constants.AllowedExtensions
	}
	set := map[string]struct{}{}
	for _, e := range exts {
		if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

func (i *FSIngestor) allowed(path string) bool {
	return matchesExt(path, i.allowedExts)
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return IngestionResult{SourcePath: path}, fmt.Errorf("abs path: %w", err)
	}
	out := IngestionResult{SourcePath: abs, FileExt: constants.NormalizeExt(filepath.Ext(abs))}
	if out.FileExt == "" || !i.allowed(abs) {
		return out, common.NewAppError("UNSUPPORTED", fmt.Sprintf("unsupported or missing extension: %q", out.FileExt), common.ErrInvalidInput)
	}

	sum, err := hashFile(abs)
	if err != nil {
		i.logger.Error("ingest.hash.failed", "path", abs, "error", err)
		return out, err
	}
	out.HashHex = sum

	i.mu.Lock()
	first, dup := i.seen[sum]
	if !dup {
		i.seen[sum] = abs
	}
	i.mu.Unlock()
	if dup {
		i.logger.Info("ingest.dedup", "path", abs, "first", first)
		out.Deduplicated = true
		return out, nil
	}

	if err := i.submit(ctx, abs); err != nil {
		// Forget the hash so a retry can submit it.
		i.mu.Lock()
		delete(i.seen, sum)
		i.mu.Unlock()
		return out, fmt.Errorf("submit %s: %w", abs, err)
	}
	out.SubmittedAt = time.Now().UTC()
	i.logger.Debug("ingest.submit.ok", "path", abs, "hash", sum[:12])
	return out, nil
}

// IngestDirectory walks root, filters by extension, skips hidden entries if
// requested, and calls IngestPath for each file. Per-file failures are
// reported in the results and do not stop the walk.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, common.NewAppError("INGEST", "root path is required", common.ErrInvalidInput)
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !i.allowed(path) {
			return nil
		}
		stats.Matched++

		res, err := i.IngestPath(ctx, path)
		if err != nil {
			res.Err = err.Error()
			results = append(results, res)
			stats.Failed++
			return nil
		}
		results = append(results, res)
		stats.Succeeded++
		if res.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("ingest.directory.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, err
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
