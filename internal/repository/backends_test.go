package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Postgres and mongo run only when a server is provided.
const (
	envTestPostgresDSN = "HEALTH_SUMMARY_TEST_PG_DSN"
	envTestMongoURI    = "HEALTH_SUMMARY_TEST_MONGO_URI"
)

// exerciseConcurrentAppends checks that parallel appends get dense, distinct
// indexes starting at the store's current length.
func exerciseConcurrentAppends(t *testing.T, s HistoryStore) {
	t.Helper()
	ctx := t.Context()
	start, err := s.Len(ctx)
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, sampleEntry(fmt.Sprintf("P%d", i)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, start+writers)
	idx := make([]int, 0, len(entries))
	for _, e := range entries {
		idx = append(idx, e.Index)
	}
	sort.Ints(idx)
	for i, n := range idx {
		assert.Equal(t, i, n)
	}
}

func TestMemoryHistory_ConcurrentAppends(t *testing.T) {
	exerciseConcurrentAppends(t, NewMemoryHistory(nil))
}

func TestSQLiteHistory_ConcurrentAppends(t *testing.T) {
	s, err := NewSQLiteHistory(t.Context(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseConcurrentAppends(t, s)
}

func newTestPostgres(t *testing.T) *PostgresHistory {
	t.Helper()
	dsn := os.Getenv(envTestPostgresDSN)
	if dsn == "" {
		t.Skipf("%s not set", envTestPostgresDSN)
	}
	s, err := NewPostgresHistory(t.Context(), PostgresConfig{DSN: dsn, MaxConns: 8, DialTimeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	_, err = s.pool.Exec(t.Context(), "TRUNCATE run_history")
	require.NoError(t, err)
	return s
}

func TestPostgresHistory(t *testing.T) {
	s := newTestPostgres(t)
	exerciseStore(t, s)
	require.NoError(t, s.HealthCheck(t.Context(), 2*time.Second))
}

func TestPostgresHistory_ConcurrentAppends(t *testing.T) {
	exerciseConcurrentAppends(t, newTestPostgres(t))
}

func newTestMongo(t *testing.T) *MongoHistory {
	t.Helper()
	uri := os.Getenv(envTestMongoURI)
	if uri == "" {
		t.Skipf("%s not set", envTestMongoURI)
	}
	db := "health_summary_test_" + uuid.NewString()[:8]
	s, err := NewMongoHistory(t.Context(), uri, db, 5*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close()
	})
	return s
}

func TestMongoHistory(t *testing.T) {
	exerciseStore(t, newTestMongo(t))
}

func TestMongoHistory_ConcurrentAppends(t *testing.T) {
	exerciseConcurrentAppends(t, newTestMongo(t))
}
