package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(WithCompression("lz4"))
	require.Error(t, err)
}

func TestNewProducerAppliesOptions(t *testing.T) {
	p, err := NewProducer(
		WithBrokers([]string{"localhost:9092"}),
		WithCompression("zstd"),
		WithRequiredAcks(1),
		WithMaxAttempts(5),
		WithTimeouts(2*time.Second, 3*time.Second),
		WithHashByKey(true),
	)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, kafka.RequiredAcks(1), p.writer.RequiredAcks)
	assert.Equal(t, kafka.Zstd, p.writer.Compression)
	assert.Equal(t, 5, p.writer.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.writer.WriteTimeout)
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
	assert.Nil(t, p.metrics)
}

func TestEncode(t *testing.T) {
	b, err := encode(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	b, err = encode("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	_, err = encode(func() {})
	assert.Error(t, err)
}

func TestProducerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newProducerMetrics(reg)

	m.observe("fx.signals", "gzip", 120, time.Millisecond, nil)
	m.observe("fx.signals", "gzip", 80, time.Millisecond, errors.New("leader not available"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.msgs.WithLabelValues("fx.signals", "gzip", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errs.WithLabelValues("fx.signals")))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.bytes.WithLabelValues("fx.signals", "gzip")))

	var nilMetrics *producerMetrics
	nilMetrics.observe("t", "gzip", 1, 0, nil)
}
