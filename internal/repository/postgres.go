package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/repository/migrations"
)

var _ HistoryStore = (*PostgresHistory)(nil)

type PostgresConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// PostgresHistory persists the run log in a Postgres table.
type PostgresHistory struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPool creates a pgx pool from cfg.
func OpenPool(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("connecting to database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database dsn", "error", err)
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "health-summary"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		logger.Error("database ping failed", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return pool, nil
}

// NewPostgresHistory opens a pool and applies pending migrations.
func NewPostgresHistory(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresHistory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := OpenPool(ctx, cfg, logger)
	if err != nil {
		return nil, common.NewAppError("DB", "open postgres", errors.Join(common.ErrDatabase, err))
	}
	h := &PostgresHistory{pool: pool, logger: logger}
	if err := h.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return h, nil
}

func (h *PostgresHistory) migrate(ctx context.Context) error {
	_, err := h.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}
	var current int
	if err := h.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}
	ms, err := loadMigrations(migrations.Postgres, "postgres")
	if err != nil {
		return err
	}
	for _, m := range ms {
		if m.version <= current {
			continue
		}
		if _, err := h.pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.name, err)
		}
		if _, err := h.pool.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.name, err)
		}
	}
	return nil
}

// HealthCheck pings the pool to catch DSN issues early.
func (h *PostgresHistory) HealthCheck(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()
	h.logger.Debug("pinging database")
	return h.pool.Ping(ctx)
}

func (h *PostgresHistory) Append(ctx context.Context, entry entity.RunHistoryEntry) (entity.RunHistoryEntry, error) {
	enc, err := encodeEntry(entry)
	if err != nil {
		return entity.RunHistoryEntry{}, err
	}

	var next int
	err = pgx.BeginFunc(ctx, h.pool, func(tx pgx.Tx) error {
		// Positions must stay dense, so appends are serialized on the table.
		if _, err := tx.Exec(ctx, "LOCK TABLE run_history IN EXCLUSIVE MODE"); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, "SELECT COALESCE(MAX(entry_index) + 1, 0) FROM run_history").Scan(&next); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO run_history (entry_index, id, created_at, input_method, extraction_quality, summary, feedback, reward)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			next, entry.ID, entry.Timestamp.UTC(), string(entry.InputMethod), string(entry.ExtractionQuality),
			enc.summary, enc.feedback, entry.Reward)
		return err
	})
	if err != nil {
		h.logger.Error("history.append.failed", "backend", "postgres", "error", err)
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "insert run_history", errors.Join(common.ErrDatabase, err))
	}

	entry.Index = next
	h.logger.Debug("history.append.ok", "backend", "postgres", "index", next, "id", entry.ID)
	return entry, nil
}

func (h *PostgresHistory) UpdateFeedback(ctx context.Context, index int, fb entity.Feedback, reward float64) (entity.RunHistoryEntry, error) {
	if index < 0 {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	enc, err := encodeEntry(entity.RunHistoryEntry{Feedback: &fb})
	if err != nil {
		return entity.RunHistoryEntry{}, err
	}
	tag, err := h.pool.Exec(ctx,
		"UPDATE run_history SET feedback = $1, reward = $2 WHERE entry_index = $3",
		enc.feedback, reward, index)
	if err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "update feedback", errors.Join(common.ErrDatabase, err))
	}
	if tag.RowsAffected() == 0 {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	return h.Get(ctx, index)
}

const postgresSelect = `SELECT entry_index, id, created_at, input_method, extraction_quality, summary, feedback, reward FROM run_history`

func (h *PostgresHistory) Get(ctx context.Context, index int) (entity.RunHistoryEntry, error) {
	e, err := scanPostgresEntry(h.pool.QueryRow(ctx, postgresSelect+" WHERE entry_index = $1", index))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.RunHistoryEntry{}, notFound(index)
	}
	return e, err
}

func (h *PostgresHistory) List(ctx context.Context) ([]entity.RunHistoryEntry, error) {
	rows, err := h.pool.Query(ctx, postgresSelect+" ORDER BY entry_index")
	if err != nil {
		return nil, common.NewAppError("DB", "list run_history", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	out := []entity.RunHistoryEntry{}
	for rows.Next() {
		e, err := scanPostgresEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (h *PostgresHistory) Len(ctx context.Context) (int, error) {
	var n int
	if err := h.pool.QueryRow(ctx, "SELECT COUNT(*) FROM run_history").Scan(&n); err != nil {
		return 0, common.NewAppError("DB", "count run_history", errors.Join(common.ErrDatabase, err))
	}
	return n, nil
}

func (h *PostgresHistory) Close() error {
	h.logger.Info("closing database connections")
	h.pool.Close()
	return nil
}

func scanPostgresEntry(r pgx.Row) (entity.RunHistoryEntry, error) {
	var (
		e        entity.RunHistoryEntry
		method   string
		quality  string
		summary  []byte
		feedback []byte
	)
	if err := r.Scan(&e.Index, &e.ID, &e.Timestamp, &method, &quality, &summary, &feedback, &e.Reward); err != nil {
		return entity.RunHistoryEntry{}, err
	}
	e.InputMethod = constants.InputMethod(method)
	e.ExtractionQuality = constants.ExtractionQuality(quality)
	if err := decodeEntry(&e, summary, feedback); err != nil {
		return entity.RunHistoryEntry{}, err
	}
	return e, nil
}
