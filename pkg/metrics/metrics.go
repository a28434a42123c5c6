// Package metrics keeps a small local time series store for gauges and
// operation latencies.
package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	MetricsCatalogLatency = "catalog_op_latency_ms"
	MetricsCatalogErrors  = "catalog_op_errors"
)

var ErrNotInitialized = errors.New("metrics storage not initialized")

var (
	mu      sync.RWMutex
	storage tstorage.Storage
	// lastTimestamp keeps inserts strictly increasing; tstorage hides
	// points that are not newer than the last one it accepted.
	lastTimestamp int64
)

// Summary aggregates the data points of one series over a time window.
type Summary struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	Mean   float64 `json:"mean"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// InitMetrics opens the storage under workdir/data/metrics. An empty
// workdir keeps everything in memory.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}

	opts := []tstorage.Option{
		tstorage.WithTimestampPrecision(tstorage.Nanoseconds),
		tstorage.WithPartitionDuration(time.Hour),
		tstorage.WithRetention(7 * 24 * time.Hour),
	}
	if workdir != "" {
		dataPath := filepath.Join(workdir, "data", "metrics")
		if err := os.MkdirAll(dataPath, 0o755); err != nil {
			return errors.Wrap(err, "create metrics dir")
		}
		opts = append(opts, tstorage.WithDataPath(dataPath))
	}

	s, err := tstorage.NewStorage(opts...)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = s
	lastTimestamp = 0
	return nil
}

// Close flushes and closes the storage.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}

// nextTimestamp returns a nanosecond timestamp greater than any handed out
// before. Callers hold mu.
func nextTimestamp() int64 {
	ts := time.Now().UnixNano()
	if ts <= lastTimestamp {
		ts = lastTimestamp + 1
	}
	lastTimestamp = ts
	return ts
}

func insert(metric string, labels []tstorage.Label, value float64) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{{
		Metric: metric,
		Labels: labels,
		DataPoint: tstorage.DataPoint{
			Timestamp: nextTimestamp(),
			Value:     value,
		},
	}})
	if err != nil {
		zap.L().Warn("insert metrics error", zap.String("metric", metric), zap.Error(err))
	}
}

func selectPoints(metric string, labels []tstorage.Label, window time.Duration) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil, ErrNotInitialized
	}
	end := time.Now().Add(time.Second).UnixNano()
	if end <= lastTimestamp {
		end = lastTimestamp + 1
	}
	start := time.Now().Add(-window).UnixNano()
	points, err := storage.Select(metric, labels, start, end)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return nil, nil
	}
	return points, err
}

// SetGauge records the current value of a gauge.
func SetGauge(name string, value int64) {
	insert(name, nil, float64(value))
}

// GetGauge returns the most recent gauge value within the last hour.
func GetGauge(name string) (int64, bool) {
	points, err := selectPoints(name, nil, time.Hour)
	if err != nil || len(points) == 0 {
		return 0, false
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Timestamp >= latest.Timestamp {
			latest = p
		}
	}
	return int64(latest.Value), true
}

// ObserveOperation records the duration of one catalog operation and, when
// failed is set, one error point for it.
func ObserveOperation(op string, elapsed time.Duration, failed bool) {
	labels := []tstorage.Label{{Name: "op", Value: op}}
	insert(MetricsCatalogLatency, labels, float64(elapsed.Microseconds())/1000)
	if failed {
		insert(MetricsCatalogErrors, labels, 1)
	}
}

// SummarizeOperation aggregates the latencies of op recorded within window.
func SummarizeOperation(op string, window time.Duration) (Summary, error) {
	labels := []tstorage.Label{{Name: "op", Value: op}}
	points, err := selectPoints(MetricsCatalogLatency, labels, window)
	if err != nil {
		return Summary{}, err
	}
	failures, err := selectPoints(MetricsCatalogErrors, labels, window)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Count: len(points), Errors: len(failures)}
	if len(points) == 0 {
		return summary, nil
	}
	data := make(stats.Float64Data, 0, len(points))
	for _, p := range points {
		data = append(data, p.Value)
	}
	summary.Mean, _ = stats.Mean(data)
	summary.P50, _ = stats.Percentile(data, 50)
	summary.P95, _ = stats.Percentile(data, 95)
	summary.Max, _ = stats.Max(data)
	return summary, nil
}

// CatalogRecorder feeds catalog service observations into the store.
type CatalogRecorder struct{}

func (CatalogRecorder) Observe(op string, elapsed time.Duration, err error) {
	ObserveOperation(op, elapsed, err != nil)
}
