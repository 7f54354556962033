package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

func sampleEntry(patient string) entity.RunHistoryEntry {
	return entity.RunHistoryEntry{
		ID:                uuid.New(),
		Timestamp:         time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC),
		InputMethod:       constants.FreeText,
		ExtractionQuality: constants.QualityHigh,
		Summary: entity.Summary{
			PatientName:   patient,
			GeneratedDate: "March 04, 2025",
			GeneratedTime: "10:30 AM",
			Metadata: entity.SummaryMetadata{
				InputMethod:       constants.FreeText,
				ExtractionQuality: constants.QualityHigh,
				AgentVersions:     "v1.0",
			},
		},
	}
}

// exerciseStore runs the shared HistoryStore contract against s.
func exerciseStore(t *testing.T, s HistoryStore) {
	t.Helper()
	ctx := t.Context()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	first, err := s.Append(ctx, sampleEntry("Ada"))
	require.NoError(t, err)
	assert.Equal(t, 0, first.Index)
	second, err := s.Append(ctx, sampleEntry("Grace"))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Index)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "Grace", got.Summary.PatientName)
	assert.True(t, got.Timestamp.Equal(second.Timestamp))
	assert.Nil(t, got.Feedback)
	assert.Nil(t, got.Reward)

	updated, err := s.UpdateFeedback(ctx, 0, entity.Feedback{Clarity: 5, Helpfulness: 5, Completeness: 4}, 4.8)
	require.NoError(t, err)
	require.NotNil(t, updated.Feedback)
	require.NotNil(t, updated.Reward)
	assert.Equal(t, 4, updated.Feedback.Completeness)
	assert.InDelta(t, 4.8, *updated.Reward, 1e-9)

	_, err = s.UpdateFeedback(ctx, 2, entity.Feedback{}, 0)
	assert.ErrorIs(t, err, common.ErrInvalidFeedbackIndex)
	_, err = s.UpdateFeedback(ctx, -1, entity.Feedback{}, 0)
	assert.ErrorIs(t, err, common.ErrInvalidFeedbackIndex)

	_, err = s.Get(ctx, 7)
	assert.ErrorIs(t, err, common.ErrNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].Summary.PatientName)
	assert.NotNil(t, all[0].Reward)
	assert.Nil(t, all[1].Reward)
}

func TestMemoryHistory(t *testing.T) {
	exerciseStore(t, NewMemoryHistory(nil))
}

func TestSQLiteHistory_InMemory(t *testing.T) {
	s, err := NewSQLiteHistory(t.Context(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteHistory_ReopenKeepsEntriesAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "history.db")
	ctx := context.Background()

	s, err := NewSQLiteHistory(ctx, path, nil)
	require.NoError(t, err)
	_, err = s.Append(ctx, sampleEntry("Ada"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteHistory(ctx, path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	next, err := s.Append(ctx, sampleEntry("Grace"))
	require.NoError(t, err)
	assert.Equal(t, 1, next.Index)
}

func TestMemoryHistory_ListIsACopy(t *testing.T) {
	s := NewMemoryHistory(nil)
	_, err := s.Append(t.Context(), sampleEntry("Ada"))
	require.NoError(t, err)

	list, _ := s.List(t.Context())
	list[0].Summary.PatientName = "changed"

	got, err := s.Get(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Summary.PatientName)
}

func TestOpen(t *testing.T) {
	s, err := Open(t.Context(), common.HistoryConfig{Backend: common.BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryHistory{}, s)

	s, err = Open(t.Context(), common.HistoryConfig{Backend: common.BackendSQLite, SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteHistory{}, s)
	require.NoError(t, s.Close())

	_, err = Open(t.Context(), common.HistoryConfig{Backend: "redis"}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
