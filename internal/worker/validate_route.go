package worker

import (
	"context"
	"fmt"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
	"github.com/ayo6706/payment-batch/internal/observability"
	"github.com/ayo6706/payment-batch/internal/queue"
	"github.com/ayo6706/payment-batch/internal/service"
	"go.uber.org/zap"
)

// ValidateRouteWorker validates the whole source chunk by chunk, writing
// processed payments to a sink and queueing rejected ones.
type ValidateRouteWorker struct {
	processor *service.PaymentProcessor
	chunkSize int
}

// NewValidateRouteWorker creates a worker with the default chunk size.
func NewValidateRouteWorker(processor *service.PaymentProcessor) *ValidateRouteWorker {
	return &ValidateRouteWorker{
		processor: processor,
		chunkSize: DefaultChunkSize,
	}
}

// WithChunkSize sets the chunk size; non-positive values keep the default.
func (w *ValidateRouteWorker) WithChunkSize(size int) *ValidateRouteWorker {
	w.chunkSize = normalizeChunkSize(size)
	return w
}

// Run returns the rejected queue, which the caller then owns. On error the
// queue is nil.
func (w *ValidateRouteWorker) Run(ctx context.Context, src PaymentSource, valid PaymentSink) (*queue.Rejected, StageResult, error) {
	rejected := queue.NewRejected()
	result := StageResult{Stage: StageValidateRoute}

	for {
		chunk, err := readChunk(ctx, src, w.chunkSize)
		if err != nil {
			return nil, result, err
		}
		if len(chunk) == 0 {
			break
		}
		result.Read += len(chunk)
		result.Chunks++

		processed := make([]*models.Payment, 0, len(chunk))
		for _, p := range chunk {
			if err := w.processor.Process(ctx, p); err != nil {
				return nil, result, err
			}
			if p.Status == domain.PaymentStatusProcessed {
				processed = append(processed, p)
				continue
			}
			if err := rejected.Push(p); err != nil {
				return nil, result, err
			}
			result.Invalid++
		}

		if len(processed) > 0 {
			zap.L().Info("writing processed payments", zap.String("stage", StageValidateRoute), zap.Int("count", len(processed)))
			if err := valid.Write(processed); err != nil {
				return nil, result, fmt.Errorf("write validated chunk: %w", err)
			}
		}
		result.Valid += len(processed)
		result.Written += len(processed)

		observability.ObserveChunk(StageValidateRoute, len(chunk))
		observability.AddRecords(StageValidateRoute, "valid", len(processed))
		observability.AddRecords(StageValidateRoute, "invalid", len(chunk)-len(processed))
		observability.SetRejectedQueueSize(rejected.Len())

		if len(chunk) < w.chunkSize {
			break
		}
	}

	return rejected, result, nil
}
