package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	cfg := LoadConfig()

	assert.Equal(t, "v1.0", cfg.App.AgentVersion)
	assert.Equal(t, BackendMemory, cfg.History.Backend)
	assert.Equal(t, ExtractorRules, cfg.Extractor.Kind)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout.Duration)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", BackendSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/h.db")
	t.Setenv("BATCH_WORKERS", "9")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("BATCH_QUEUE_SIZE", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, BackendSQLite, cfg.History.Backend)
	assert.Equal(t, "/tmp/h.db", cfg.History.SQLitePath)
	assert.Equal(t, 9, cfg.Batch.Workers)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout.Duration)
	assert.Equal(t, 256, cfg.Batch.QueueSize, "unparsable values keep the default")
}

func TestLoad_TOMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
agent_version = "v2.3"
output_dir = "/var/summaries"

[history]
backend = "postgres"
postgres_dsn = "postgres://localhost/health"

[batch]
workers = 2
process_timeout = "90s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("OUTPUT_DIR", "/override")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "v2.3", cfg.App.AgentVersion)
	assert.Equal(t, "/override", cfg.App.OutputDir)
	assert.Equal(t, BackendPostgres, cfg.History.Backend)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 90*time.Second, cfg.Batch.ProcessTimeout.Duration)
	assert.Equal(t, "eng", cfg.OCR.TesseractLang, "unset keys keep defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.History.Backend = "redis" }},
		{"postgres without dsn", func(c *Config) { c.History.Backend = BackendPostgres }},
		{"mongo without uri", func(c *Config) { c.History.Backend = BackendMongo }},
		{"openai without key", func(c *Config) { c.Extractor.Kind = ExtractorOpenAI }},
		{"unknown extractor", func(c *Config) { c.Extractor.Kind = "magic" }},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"empty version", func(c *Config) { c.App.AgentVersion = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidator_IntRange(t *testing.T) {
	v := NewValidator().
		Field("clarity", 5, IntRange(0, 5)).
		Field("helpfulness", 6, IntRange(0, 5)).
		Field("completeness", -1, IntRange(0, 5))

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 2)
	assert.ErrorIs(t, v.Error(), ErrValidation)
	assert.Contains(t, v.ErrorMessage(), "helpfulness")
}

func TestValidator_RequiredAndOneOf(t *testing.T) {
	v := NewValidator().
		Field("text", "  ", Required).
		Field("input_method", "fax", OneOf("photo_ocr", "free_text"))
	assert.Len(t, v.Errors(), 2)

	ok := NewValidator().Field("text", "hello", Required, MaxLength(10))
	assert.NoError(t, ok.Error())
}

func TestToGRPCError(t *testing.T) {
	assert.Nil(t, ToGRPCError(nil))

	st, _ := status.FromError(ToGRPCError(fmt.Errorf("feedback: %w", ErrInvalidFeedbackIndex)))
	assert.Equal(t, codes.InvalidArgument, st.Code())

	st, _ = status.FromError(ToGRPCError(ErrNotFound))
	assert.Equal(t, codes.NotFound, st.Code())

	st, _ = status.FromError(ToGRPCError(errors.New("disk full")))
	assert.Equal(t, codes.Internal, st.Code())
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewAppError("DB", "append failed", ErrDatabase)
	assert.ErrorIs(t, err, ErrDatabase)
	assert.Equal(t, "DB: append failed: database error", err.Error())
}

func TestValidationError_TruncatesLongValues(t *testing.T) {
	long := strings.Repeat("a", 500)
	err := NewValidator().Field("text", long, MaxLength(10)).Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at most 10 characters")
	assert.NotContains(t, err.Error(), strings.Repeat("a", 41))
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(t.Context(), " ")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	ctx, id = EnsureRequestID(t.Context(), "req-7")
	assert.Equal(t, "req-7", id)
	assert.Equal(t, "req-7", RequestIDFromContext(ctx))
}

func TestWithTimeout_NonPositiveHasNoDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(t.Context(), 0)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}
