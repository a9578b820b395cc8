package worker

import (
	"context"
	"fmt"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/observability"
	"github.com/ayo6706/payment-batch/internal/service"
	"go.uber.org/zap"
)

// ReportWorker re-validates the whole source on its own and writes every
// payment, whatever its outcome, to the report sink.
type ReportWorker struct {
	processor *service.PaymentProcessor
	chunkSize int
}

func NewReportWorker(processor *service.PaymentProcessor) *ReportWorker {
	return &ReportWorker{
		processor: processor,
		chunkSize: DefaultChunkSize,
	}
}

func (w *ReportWorker) WithChunkSize(size int) *ReportWorker {
	w.chunkSize = normalizeChunkSize(size)
	return w
}

func (w *ReportWorker) Run(ctx context.Context, src PaymentSource, report PaymentSink) (StageResult, error) {
	result := StageResult{Stage: StageReport}

	for {
		chunk, err := readChunk(ctx, src, w.chunkSize)
		if err != nil {
			return result, err
		}
		if len(chunk) == 0 {
			break
		}
		result.Read += len(chunk)
		result.Chunks++

		valid := 0
		for _, p := range chunk {
			if err := w.processor.Process(ctx, p); err != nil {
				return result, err
			}
			if p.Status == domain.PaymentStatusProcessed {
				valid++
			}
		}

		zap.L().Debug("writing report lines", zap.Int("count", len(chunk)))
		if err := report.Write(chunk); err != nil {
			return result, fmt.Errorf("write report chunk: %w", err)
		}
		result.Valid += valid
		result.Invalid += len(chunk) - valid
		result.Written += len(chunk)

		observability.ObserveChunk(StageReport, len(chunk))
		observability.AddRecords(StageReport, "valid", valid)
		observability.AddRecords(StageReport, "invalid", len(chunk)-valid)

		if len(chunk) < w.chunkSize {
			break
		}
	}

	return result, nil
}
