package repository

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

// HistoryStore is the append-only run log owned by one pipeline. Entries are
// addressed by position; the store assigns Index on Append.
type HistoryStore interface {
	Append(ctx context.Context, entry entity.RunHistoryEntry) (entity.RunHistoryEntry, error)
	// UpdateFeedback attaches feedback and reward to the entry at index.
	// An out-of-range index returns common.ErrInvalidFeedbackIndex and
	// leaves the store unchanged.
	UpdateFeedback(ctx context.Context, index int, fb entity.Feedback, reward float64) (entity.RunHistoryEntry, error)
	Get(ctx context.Context, index int) (entity.RunHistoryEntry, error)
	List(ctx context.Context) ([]entity.RunHistoryEntry, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

func invalidIndex(index int) error {
	return fmt.Errorf("%w: %d", common.ErrInvalidFeedbackIndex, index)
}

func notFound(index int) error {
	return fmt.Errorf("history entry %d: %w", index, common.ErrNotFound)
}
