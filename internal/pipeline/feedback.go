package pipeline

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

const maxRating = 5

// Reward weights one feedback record into a single 0..5 score.
func Reward(fb entity.Feedback) float64 {
	return float64(fb.Clarity)*0.4 + float64(fb.Helpfulness)*0.4 + float64(fb.Completeness)*0.2
}

// CollectFeedback scores fb and stores it with the reward on the history
// entry at index. A missing entry returns common.ErrInvalidFeedbackIndex and
// invalid ratings return common.ErrValidation; history is unchanged in both
// cases. The score is only recorded; nothing else reads it.
func (p *Pipeline) CollectFeedback(ctx context.Context, index int, fb entity.Feedback) (float64, error) {
	err := common.NewValidator().
		Field("clarity", fb.Clarity, common.IntRange(0, maxRating)).
		Field("helpfulness", fb.Helpfulness, common.IntRange(0, maxRating)).
		Field("completeness", fb.Completeness, common.IntRange(0, maxRating)).
		Error()
	if err != nil {
		return 0, err
	}

	reward := Reward(fb)
	if _, err := p.history.UpdateFeedback(ctx, index, fb, reward); err != nil {
		p.logger.Warn("pipeline.feedback.rejected", "index", index, "error", err)
		return 0, fmt.Errorf("feedback: %w", err)
	}
	p.logger.Info("pipeline.feedback.ok", "index", index, "reward", reward)
	return reward, nil
}
