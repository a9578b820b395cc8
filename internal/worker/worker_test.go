package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
	"github.com/ayo6706/payment-batch/internal/queue"
	"github.com/ayo6706/payment-batch/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	payments []*models.Payment
	next     int
	err      error
	failAt   int
}

func (s *sliceSource) Next() (*models.Payment, error) {
	if s.err != nil && s.next == s.failAt {
		return nil, s.err
	}
	if s.next >= len(s.payments) {
		return nil, io.EOF
	}
	p := s.payments[s.next]
	s.next++
	return p, nil
}

type recordingSink struct {
	batches [][]int64
	err     error
}

func (s *recordingSink) Write(payments []*models.Payment) error {
	if s.err != nil {
		return s.err
	}
	ids := make([]int64, len(payments))
	for i, p := range payments {
		ids[i] = p.ID
	}
	s.batches = append(s.batches, ids)
	return nil
}

func (s *recordingSink) ids() []int64 {
	var out []int64
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func newProcessor() *service.PaymentProcessor {
	return service.NewPaymentProcessor(
		service.NewValidator(service.Rules{
			MinAmount:           decimal.NewFromInt(10),
			MaxAmount:           decimal.NewFromInt(10000),
			SupportedCurrencies: []string{"USD", "EUR", "GBP", "JPY"},
		}),
		service.NewCalculator(decimal.RequireFromString("0.02"), service.NewIdentityConverter()),
	)
}

// payment builds a payment that is valid unless currency is unsupported.
func payment(id int64, currency string) *models.Payment {
	date := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	pt := domain.PaymentTypeCreditCard
	return &models.Payment{
		ID:            id,
		Amount:        decimal.RequireFromString("100.00"),
		Currency:      currency,
		Status:        domain.PaymentStatusPending,
		PaymentDate:   &date,
		PaymentType:   &pt,
		CustomerName:  "Customer",
		CustomerEmail: "customer@example.com",
	}
}

// mixed returns n payments where every id divisible by 3 is invalid.
func mixed(n int) []*models.Payment {
	out := make([]*models.Payment, 0, n)
	for i := 1; i <= n; i++ {
		currency := "USD"
		if i%3 == 0 {
			currency = "MXN"
		}
		out = append(out, payment(int64(i), currency))
	}
	return out
}

func TestValidateRouteWorkerRoutesByChunk(t *testing.T) {
	src := &sliceSource{payments: mixed(25)}
	sink := &recordingSink{}

	rejected, result, err := NewValidateRouteWorker(newProcessor()).Run(context.Background(), src, sink)
	require.NoError(t, err)

	assert.Equal(t, 25, result.Read)
	assert.Equal(t, 3, result.Chunks)
	assert.Equal(t, 17, result.Valid)
	assert.Equal(t, 8, result.Invalid)

	// one write per chunk, each holding that chunk's processed payments
	require.Len(t, sink.batches, 3)
	assert.Equal(t, []int64{1, 2, 4, 5, 7, 8, 10}, sink.batches[0])
	assert.Equal(t, []int64{11, 13, 14, 16, 17, 19, 20}, sink.batches[1])
	assert.Equal(t, []int64{22, 23, 25}, sink.batches[2])

	require.NotNil(t, rejected)
	var rejectedIDs []int64
	for p := range rejected.Drain(context.Background()) {
		assert.Equal(t, domain.PaymentStatusInvalid, p.Status)
		rejectedIDs = append(rejectedIDs, p.ID)
	}
	assert.Equal(t, []int64{3, 6, 9, 12, 15, 18, 21, 24}, rejectedIDs)
}

func TestValidateRouteWorkerSkipsWriteForAllInvalidChunk(t *testing.T) {
	src := &sliceSource{payments: []*models.Payment{payment(1, "MXN"), payment(2, "CAD")}}
	sink := &recordingSink{}

	rejected, result, err := NewValidateRouteWorker(newProcessor()).Run(context.Background(), src, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.batches)
	assert.Equal(t, 2, rejected.Len())
	assert.Equal(t, 0, result.Written)
}

func TestValidateRouteWorkerCustomChunkSize(t *testing.T) {
	src := &sliceSource{payments: mixed(5)}
	sink := &recordingSink{}

	_, result, err := NewValidateRouteWorker(newProcessor()).WithChunkSize(2).Run(context.Background(), src, sink)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Chunks)
	assert.Equal(t, [][]int64{{1, 2}, {4}, {5}}, sink.batches)

	w := NewValidateRouteWorker(newProcessor()).WithChunkSize(0)
	assert.Equal(t, DefaultChunkSize, w.chunkSize)
}

func TestValidateRouteWorkerStopsOnSinkError(t *testing.T) {
	src := &sliceSource{payments: mixed(25)}
	sink := &recordingSink{err: errors.New("disk full")}

	rejected, _, err := NewValidateRouteWorker(newProcessor()).Run(context.Background(), src, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, rejected)
	assert.Equal(t, 10, src.next)
}

func TestValidateRouteWorkerStopsOnSourceError(t *testing.T) {
	src := &sliceSource{payments: mixed(25), err: errors.New("bad line"), failAt: 12}
	sink := &recordingSink{}

	_, result, err := NewValidateRouteWorker(newProcessor()).Run(context.Background(), src, sink)
	require.Error(t, err)
	assert.Len(t, sink.batches, 1)
	assert.Equal(t, 10, result.Read)
}

func TestValidateRouteWorkerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewValidateRouteWorker(newProcessor()).Run(ctx, &sliceSource{payments: mixed(3)}, &recordingSink{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestReportWorkerWritesEveryPayment(t *testing.T) {
	src := &sliceSource{payments: mixed(12)}
	sink := &recordingSink{}

	result, err := NewReportWorker(newProcessor()).Run(context.Background(), src, sink)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, sink.ids())
	assert.Len(t, sink.batches, 2)
	assert.Equal(t, 12, result.Written)
	assert.Equal(t, 8, result.Valid)
	assert.Equal(t, 4, result.Invalid)

	for _, p := range src.payments {
		assert.True(t, p.Finalized())
		assert.Equal(t, p.Status == domain.PaymentStatusProcessed, p.Commission.Valid)
	}
}

func TestReportWorkerRefusesAlreadyProcessedPayments(t *testing.T) {
	payments := mixed(2)
	require.NoError(t, newProcessor().Process(context.Background(), payments[0]))

	_, err := NewReportWorker(newProcessor()).Run(context.Background(), &sliceSource{payments: payments}, &recordingSink{})
	require.ErrorIs(t, err, service.ErrPaymentFinalized)
}

func TestRejectedDrainWorkerKeepsInsertionOrder(t *testing.T) {
	rejected := queue.NewRejected()
	for _, id := range []int64{9, 3, 6} {
		p := payment(id, "MXN")
		require.NoError(t, newProcessor().Process(context.Background(), p))
		require.NoError(t, rejected.Push(p))
	}
	sink := &recordingSink{}

	result, err := NewRejectedDrainWorker().Run(context.Background(), rejected, sink)
	require.NoError(t, err)

	assert.Equal(t, [][]int64{{9}, {3}, {6}}, sink.batches)
	assert.Equal(t, 3, result.Written)
	assert.Equal(t, 0, rejected.Len())
}

func TestRejectedDrainWorkerRequiresQueue(t *testing.T) {
	_, err := NewRejectedDrainWorker().Run(context.Background(), nil, &recordingSink{})
	require.ErrorIs(t, err, ErrStageOrder)
}

type cancellingSink struct {
	recordingSink
	cancel context.CancelFunc
}

func (s *cancellingSink) Write(payments []*models.Payment) error {
	s.cancel()
	return s.recordingSink.Write(payments)
}

func TestRejectedDrainWorkerKeepsUnwrittenPaymentsOnCancel(t *testing.T) {
	rejected := queue.NewRejected()
	for _, id := range []int64{1, 2, 3} {
		p := payment(id, "MXN")
		require.NoError(t, newProcessor().Process(context.Background(), p))
		require.NoError(t, rejected.Push(p))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &cancellingSink{cancel: cancel}

	result, err := NewRejectedDrainWorker().Run(ctx, rejected, sink)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, [][]int64{{1}}, sink.batches)
	assert.Equal(t, 1, result.Written)

	// nothing popped without being written
	assert.Equal(t, 2, rejected.Len())
	next, ok := rejected.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(2), next.ID)
}

func TestRejectedDrainWorkerStopsOnSinkError(t *testing.T) {
	rejected := queue.NewRejected()
	for _, id := range []int64{1, 2} {
		p := payment(id, "MXN")
		require.NoError(t, newProcessor().Process(context.Background(), p))
		require.NoError(t, rejected.Push(p))
	}

	_, err := NewRejectedDrainWorker().Run(context.Background(), rejected, &recordingSink{err: errors.New("closed")})
	require.Error(t, err)
	assert.Equal(t, 1, rejected.Len())
}
