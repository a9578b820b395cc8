package worker

import (
	"context"
	"fmt"

	"github.com/ayo6706/payment-batch/internal/models"
	"github.com/ayo6706/payment-batch/internal/observability"
	"github.com/ayo6706/payment-batch/internal/queue"
	"go.uber.org/zap"
)

// RejectedDrainWorker empties the rejected queue into the rejected sink, one
// payment per write.
type RejectedDrainWorker struct{}

func NewRejectedDrainWorker() *RejectedDrainWorker {
	return &RejectedDrainWorker{}
}

// Run consumes rejected. A nil queue means validate-and-route never
// completed.
func (w *RejectedDrainWorker) Run(ctx context.Context, rejected *queue.Rejected, sink PaymentSink) (StageResult, error) {
	result := StageResult{Stage: StageRejectedDrain}
	if rejected == nil {
		return result, ErrStageOrder
	}

	zap.L().Info("draining rejected payments", zap.Int("queued", rejected.Len()))
	for p := range rejected.Drain(ctx) {
		result.Read++
		if err := sink.Write([]*models.Payment{p}); err != nil {
			return result, fmt.Errorf("write rejected payment %d: %w", p.ID, err)
		}
		result.Invalid++
		result.Written++
		observability.AddRecords(StageRejectedDrain, "rejected", 1)
		observability.SetRejectedQueueSize(rejected.Len())
	}
	if rejected.Len() > 0 {
		return result, ctx.Err()
	}

	return result, nil
}
