package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	recordsCounter       *prometheus.CounterVec
	stageDurationHisto   *prometheus.HistogramVec
	chunkSizeHistogram   *prometheus.HistogramVec
	rejectedQueueGauge   prometheus.Gauge
	stageRunCounter      *prometheus.CounterVec
	lastSuccessTimeGauge prometheus.Gauge
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		recordsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_batch_records_total",
			Help: "Payment records handled per stage and outcome",
		}, []string{"stage", "outcome"})

		stageDurationHisto = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payment_batch_stage_duration_seconds",
			Help:    "Wall time of each pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"})

		chunkSizeHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payment_batch_chunk_records",
			Help:    "Number of records committed per chunk",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}, []string{"stage"})

		rejectedQueueGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "payment_batch_rejected_queue_size",
			Help: "Rejected payments waiting to be drained",
		})

		stageRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_batch_stage_runs_total",
			Help: "Pipeline stage run outcomes",
		}, []string{"stage", "result"})

		lastSuccessTimeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "payment_batch_last_success_timestamp_seconds",
			Help: "Unix time of the last job that completed every stage",
		})

		prometheus.MustRegister(
			recordsCounter,
			stageDurationHisto,
			chunkSizeHistogram,
			rejectedQueueGauge,
			stageRunCounter,
			lastSuccessTimeGauge,
		)
	})
}

func AddRecords(stage, outcome string, n int) {
	if recordsCounter == nil || n == 0 {
		return
	}
	recordsCounter.WithLabelValues(stage, outcome).Add(float64(n))
}

func ObserveStage(stage string, duration time.Duration) {
	if stageDurationHisto == nil {
		return
	}
	stageDurationHisto.WithLabelValues(stage).Observe(duration.Seconds())
}

func ObserveChunk(stage string, size int) {
	if chunkSizeHistogram == nil {
		return
	}
	chunkSizeHistogram.WithLabelValues(stage).Observe(float64(size))
}

func SetRejectedQueueSize(size int) {
	if rejectedQueueGauge == nil {
		return
	}
	rejectedQueueGauge.Set(float64(size))
}

func IncrementStageRun(stage, result string) {
	if stageRunCounter == nil {
		return
	}
	stageRunCounter.WithLabelValues(stage, result).Inc()
}

func MarkJobSuccess(at time.Time) {
	if lastSuccessTimeGauge == nil {
		return
	}
	lastSuccessTimeGauge.Set(float64(at.Unix()))
}
