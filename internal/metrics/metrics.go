// Package metrics provides Prometheus metrics for the filter payload codec.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rowfilter"

// Operation and status label values.
const (
	OpEncode = "encode"
	OpDecode = "decode"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Payload holds the codec collectors. A nil *Payload records nothing.
type Payload struct {
	// Bytes tracks payload sizes on the wire.
	Bytes *prometheus.HistogramVec

	// Total tracks codec operations.
	Total *prometheus.CounterVec
}

// NewPayload registers the codec collectors on reg. A nil reg returns nil.
func NewPayload(reg prometheus.Registerer) *Payload {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)

	return &Payload{
		Bytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payload_bytes",
				Help:      "Size of encoded filter payloads in bytes",
				// 64 B .. 32 KiB; the store rejects filters above 20 KiB.
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
			[]string{"compressed"},
		),
		Total: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payloads_total",
				Help:      "Total filter payload operations",
			},
			[]string{"operation", "status"}, // operation: encode/decode, status: success/error
		),
	}
}

// ObserveSize records the size of a payload.
func (p *Payload) ObserveSize(size int, compressed bool) {
	if p == nil {
		return
	}
	p.Bytes.WithLabelValues(strconv.FormatBool(compressed)).Observe(float64(size))
}

// Inc counts one codec operation.
func (p *Payload) Inc(op string, err error) {
	if p == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	p.Total.WithLabelValues(op, status).Inc()
}
