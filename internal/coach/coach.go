// Package coach builds a patient action plan from explained findings.
package coach

import (
	"context"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

// Coach is stage 3 of the summary pipeline. The returned plan always has all
// six lists present, possibly empty.
type Coach interface {
	GenerateActionPlan(ctx context.Context, explained entity.ExplainedData) (entity.ActionPlan, error)
}
