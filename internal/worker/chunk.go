package worker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ayo6706/payment-batch/internal/models"
)

// DefaultChunkSize is the number of records read, processed and written as
// one unit.
const DefaultChunkSize = 10

const (
	StageValidateRoute = "validate-and-route"
	StageReport        = "report"
	StageRejectedDrain = "rejected-drain"
)

var ErrStageOrder = errors.New("rejected drain requires a completed validate-and-route stage")

// PaymentSource yields payments in input order and io.EOF at the end.
type PaymentSource interface {
	Next() (*models.Payment, error)
}

// PaymentSink persists a batch of payments.
type PaymentSink interface {
	Write(payments []*models.Payment) error
}

// StageResult summarizes one stage run.
type StageResult struct {
	Stage   string
	Read    int
	Valid   int
	Invalid int
	Written int
	Chunks  int
}

// readChunk reads up to size payments. A short or empty chunk means the
// source is exhausted.
func readChunk(ctx context.Context, src PaymentSource, size int) ([]*models.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chunk := make([]*models.Payment, 0, size)
	for len(chunk) < size {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		chunk = append(chunk, p)
	}
	return chunk, nil
}

func normalizeChunkSize(size int) int {
	if size <= 0 {
		return DefaultChunkSize
	}
	return size
}
