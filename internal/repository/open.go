package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/health-summary/internal/common"
)

// Open builds the history store selected by cfg.Backend.
func Open(ctx context.Context, cfg common.HistoryConfig, logger *slog.Logger) (HistoryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case common.BackendMemory, "":
		return NewMemoryHistory(logger), nil
	case common.BackendSQLite:
		return NewSQLiteHistory(ctx, cfg.SQLitePath, logger)
	case common.BackendPostgres:
		return NewPostgresHistory(ctx, PostgresConfig{
			DSN:         cfg.PostgresDSN,
			MaxConns:    10,
			DialTimeout: cfg.DialTimeout.Duration,
		}, logger)
	case common.BackendMongo:
		return NewMongoHistory(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.DialTimeout.Duration, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown history backend %q", cfg.Backend), common.ErrInvalidInput)
	}
}
