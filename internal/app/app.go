package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayo6706/payment-batch/internal/config"
	"github.com/ayo6706/payment-batch/internal/observability"
	"github.com/ayo6706/payment-batch/internal/pipeline"
	"github.com/ayo6706/payment-batch/internal/service"
	"go.uber.org/zap"
)

// Run wires the payment job from cfg, executes it and publishes run metrics.
// Metric export failures are logged but never fail a completed run.
func Run(ctx context.Context, cfg *config.Config) (*pipeline.Summary, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()
	observability.Init()

	job := NewJob(cfg, logger)
	summary, runErr := job.Run(ctx)
	publishMetrics(ctx, cfg, job.RunID(), logger)
	if runErr != nil {
		return nil, runErr
	}
	return summary, nil
}

// NewJob builds the processor and job described by cfg.
func NewJob(cfg *config.Config, logger *zap.Logger) *pipeline.Job {
	validator := service.NewValidator(service.Rules{
		MinAmount:           cfg.MinAmount,
		MaxAmount:           cfg.MaxAmount,
		SupportedCurrencies: cfg.SupportedCurrencies,
	})
	calculator := service.NewCalculator(cfg.CommissionRate, service.NewIdentityConverter())
	processor := service.NewPaymentProcessor(validator, calculator)

	paths := pipeline.Paths{
		Input:     cfg.InputPath,
		Validated: cfg.ValidatedOutputPath,
		Report:    cfg.ReportOutputPath,
		Rejected:  cfg.RejectedOutputPath,
	}
	return pipeline.NewJob(paths, processor,
		pipeline.WithChunkSize(cfg.ChunkSize),
		pipeline.WithLogger(logger),
	)
}

func publishMetrics(ctx context.Context, cfg *config.Config, runID string, logger *zap.Logger) {
	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics textfile export failed", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}
	if cfg.PushgatewayURL != "" {
		if err := observability.Push(ctx, cfg.PushgatewayURL, runID); err != nil {
			logger.Warn("metrics push failed", zap.String("url", cfg.PushgatewayURL), zap.Error(err))
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
