package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ayo6706/payment-batch/internal/flatfile"
	"github.com/ayo6706/payment-batch/internal/observability"
	"github.com/ayo6706/payment-batch/internal/queue"
	"github.com/ayo6706/payment-batch/internal/service"
	"github.com/ayo6706/payment-batch/internal/worker"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Paths locates the input file and the three output files of a run.
type Paths struct {
	Input     string
	Validated string
	Report    string
	Rejected  string
}

// Summary reports what a completed run did.
type Summary struct {
	RunID     string
	Validated int
	Invalid   int
	Reported  int
	Rejected  int
	Duration  time.Duration
}

// Job runs the three stages strictly in sequence: validate-and-route,
// report, rejected-drain. The rejected queue produced by the first stage is
// handed to the third; nothing else crosses stage boundaries.
type Job struct {
	paths     Paths
	processor *service.PaymentProcessor
	chunkSize int
	runID     string
	logger    *zap.Logger
}

type Option func(*Job)

func WithChunkSize(size int) Option {
	return func(j *Job) { j.chunkSize = size }
}

func WithRunID(id string) Option {
	return func(j *Job) { j.runID = id }
}

func WithLogger(logger *zap.Logger) Option {
	return func(j *Job) { j.logger = logger }
}

func NewJob(paths Paths, processor *service.PaymentProcessor, opts ...Option) *Job {
	j := &Job{
		paths:     paths,
		processor: processor,
		chunkSize: worker.DefaultChunkSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.runID == "" {
		j.runID = uuid.NewString()
	}
	j.logger = j.logger.With(zap.String("run_id", j.runID))
	return j
}

func (j *Job) RunID() string {
	return j.runID
}

// Run executes every stage. The first fatal error stops the job; stages after
// it do not run.
func (j *Job) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: j.runID}
	j.logger.Info("payment job starting",
		zap.String("input", j.paths.Input),
		zap.Int("chunk_size", j.chunkSize),
	)

	var rejected *queue.Rejected
	err := j.stage(worker.StageValidateRoute, func() (worker.StageResult, error) {
		var (
			res worker.StageResult
			err error
		)
		rejected, res, err = j.validateAndRoute(ctx)
		summary.Validated, summary.Invalid = res.Valid, res.Invalid
		return res, err
	})
	if err != nil {
		return nil, err
	}

	err = j.stage(worker.StageReport, func() (worker.StageResult, error) {
		res, err := j.report(ctx)
		summary.Reported = res.Written
		return res, err
	})
	if err != nil {
		return nil, err
	}

	err = j.stage(worker.StageRejectedDrain, func() (worker.StageResult, error) {
		res, err := j.drainRejected(ctx, rejected)
		summary.Rejected = res.Written
		return res, err
	})
	rejected = nil
	if err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	observability.MarkJobSuccess(time.Now())
	j.logger.Info("payment job completed",
		zap.Int("validated", summary.Validated),
		zap.Int("invalid", summary.Invalid),
		zap.Int("reported", summary.Reported),
		zap.Int("rejected", summary.Rejected),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (j *Job) stage(name string, run func() (worker.StageResult, error)) error {
	start := time.Now()
	j.logger.Info("stage starting", zap.String("stage", name))

	res, err := run()
	observability.ObserveStage(name, time.Since(start))
	if err != nil {
		observability.IncrementStageRun(name, "failed")
		j.logger.Error("stage failed", zap.String("stage", name), zap.Int("read", res.Read), zap.Error(err))
		return fmt.Errorf("stage %s: %w", name, err)
	}

	observability.IncrementStageRun(name, "success")
	j.logger.Info("stage completed",
		zap.String("stage", name),
		zap.Int("read", res.Read),
		zap.Int("written", res.Written),
		zap.Int("chunks", res.Chunks),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// validateAndRoute owns the source and the validated sink for the length of
// the stage; both are closed before it returns.
func (j *Job) validateAndRoute(ctx context.Context) (rejected *queue.Rejected, res worker.StageResult, err error) {
	src, err := flatfile.OpenSource(j.paths.Input)
	if err != nil {
		return nil, res, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(src))

	sink, err := flatfile.CreateSink(j.paths.Validated, flatfile.ValidatedSchema)
	if err != nil {
		return nil, res, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(sink))

	return worker.NewValidateRouteWorker(j.processor).
		WithChunkSize(j.chunkSize).
		Run(ctx, src, sink)
}

func (j *Job) report(ctx context.Context) (res worker.StageResult, err error) {
	src, err := flatfile.OpenSource(j.paths.Input)
	if err != nil {
		return res, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(src))

	sink, err := flatfile.CreateSink(j.paths.Report, flatfile.ReportSchema)
	if err != nil {
		return res, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(sink))

	return worker.NewReportWorker(j.processor).
		WithChunkSize(j.chunkSize).
		Run(ctx, src, sink)
}

func (j *Job) drainRejected(ctx context.Context, rejected *queue.Rejected) (res worker.StageResult, err error) {
	if rejected == nil {
		return res, worker.ErrStageOrder
	}
	sink, err := flatfile.CreateSink(j.paths.Rejected, flatfile.RejectedSchema)
	if err != nil {
		return res, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(sink))

	return worker.NewRejectedDrainWorker().Run(ctx, rejected, sink)
}
