package blob

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/aula/core"
)

var (
	opDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aula",
			Subsystem: "blob",
			Name:      "op_duration_seconds",
			Help:      "Duration of blob store operations.",
			Buckets:   prometheus.ExponentialBuckets(.0005, 4, 8),
		},
		[]string{"engine", "op"},
	)
	opErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aula",
			Subsystem: "blob",
			Name:      "op_errors_total",
			Help:      "Failed blob store operations; a missing key is not a failure.",
		},
		[]string{"engine", "op"},
	)
)

func init() {
	prometheus.MustRegister(opDuration, opErrors)
}

type instrumented struct {
	engine string
	next   core.BlobStore
}

// Instrument wraps store so that every operation is observed under the given engine label.
func Instrument(engine string, store core.BlobStore) core.BlobStore {
	return &instrumented{engine: engine, next: store}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	opDuration.WithLabelValues(s.engine, op).Observe(time.Since(start).Seconds())
	if err != nil && err != core.ErrBlobNotFound {
		opErrors.WithLabelValues(s.engine, op).Inc()
	}
}

func (s *instrumented) Get(ctx context.Context, key string) (data []byte, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	data, err = s.next.Get(ctx, key)
	return data, err
}

func (s *instrumented) Put(ctx context.Context, key string, data []byte) (err error) {
	defer func(start time.Time) { s.observe("put", start, err) }(time.Now())
	err = s.next.Put(ctx, key, data)
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	err = s.next.Delete(ctx, key)
	return err
}

func (s *instrumented) Close() error { return s.next.Close() }
