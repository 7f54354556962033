package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/repository/migrations"
)

var _ HistoryStore = (*SQLiteHistory)(nil)

// SQLiteHistory persists the run log in a single SQLite file.
type SQLiteHistory struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteHistory opens (or creates) the database at path and applies
// pending migrations. Path ":memory:" gives a private in-memory database.
func NewSQLiteHistory(ctx context.Context, path string, logger *slog.Logger) (*SQLiteHistory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteHistory{db: db, path: path, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("history.sqlite.open", "path", path)
	return s, nil
}

func (s *SQLiteHistory) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	ms, err := loadMigrations(migrations.SQLite, "sqlite")
	if err != nil {
		return err
	}
	for _, m := range ms {
		if m.version <= current {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.name, err)
		}
	}
	return nil
}

func (s *SQLiteHistory) Append(ctx context.Context, entry entity.RunHistoryEntry) (entity.RunHistoryEntry, error) {
	enc, err := encodeEntry(entry)
	if err != nil {
		return entity.RunHistoryEntry{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "begin append", errors.Join(common.ErrDatabase, err))
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(entry_index) + 1, 0) FROM run_history").Scan(&next); err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "next index", errors.Join(common.ErrDatabase, err))
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO run_history (entry_index, id, created_at, input_method, extraction_quality, summary, feedback, reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		next,
		entry.ID.String(),
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		string(entry.InputMethod),
		string(entry.ExtractionQuality),
		string(enc.summary),
		nullableText(enc.feedback),
		entry.Reward,
	)
	if err != nil {
		s.logger.Error("history.append.failed", "backend", "sqlite", "error", err)
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "insert run_history", errors.Join(common.ErrDatabase, err))
	}
	if err := tx.Commit(); err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "commit append", errors.Join(common.ErrDatabase, err))
	}

	entry.Index = next
	s.logger.Debug("history.append.ok", "backend", "sqlite", "index", next, "id", entry.ID)
	return entry, nil
}

func (s *SQLiteHistory) UpdateFeedback(ctx context.Context, index int, fb entity.Feedback, reward float64) (entity.RunHistoryEntry, error) {
	if index < 0 {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	enc, err := encodeEntry(entity.RunHistoryEntry{Feedback: &fb})
	if err != nil {
		return entity.RunHistoryEntry{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE run_history SET feedback = ?, reward = ? WHERE entry_index = ?",
		string(enc.feedback), reward, index)
	if err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "update feedback", errors.Join(common.ErrDatabase, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	return s.Get(ctx, index)
}

const sqliteSelect = `SELECT entry_index, id, created_at, input_method, extraction_quality, summary, feedback, reward FROM run_history`

func (s *SQLiteHistory) Get(ctx context.Context, index int) (entity.RunHistoryEntry, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelect+" WHERE entry_index = ?", index)
	e, err := scanSQLiteEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.RunHistoryEntry{}, notFound(index)
	}
	return e, err
}

func (s *SQLiteHistory) List(ctx context.Context) ([]entity.RunHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelect+" ORDER BY entry_index")
	if err != nil {
		return nil, common.NewAppError("DB", "list run_history", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	out := []entity.RunHistoryEntry{}
	for rows.Next() {
		e, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteHistory) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_history").Scan(&n); err != nil {
		return 0, common.NewAppError("DB", "count run_history", errors.Join(common.ErrDatabase, err))
	}
	return n, nil
}

// Path returns the database file path.
func (s *SQLiteHistory) Path() string { return s.path }

func (s *SQLiteHistory) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteEntry(r rowScanner) (entity.RunHistoryEntry, error) {
	var (
		e         entity.RunHistoryEntry
		id        string
		createdAt string
		method    string
		quality   string
		summary   string
		feedback  sql.NullString
		reward    sql.NullFloat64
	)
	if err := r.Scan(&e.Index, &id, &createdAt, &method, &quality, &summary, &feedback, &reward); err != nil {
		return entity.RunHistoryEntry{}, err
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return entity.RunHistoryEntry{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return entity.RunHistoryEntry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	e.InputMethod = constants.InputMethod(method)
	e.ExtractionQuality = constants.ExtractionQuality(quality)
	if reward.Valid {
		r := reward.Float64
		e.Reward = &r
	}
	var fb []byte
	if feedback.Valid && strings.TrimSpace(feedback.String) != "" {
		fb = []byte(feedback.String)
	}
	if err := decodeEntry(&e, []byte(summary), fb); err != nil {
		return entity.RunHistoryEntry{}, err
	}
	return e, nil
}

func nullableText(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
