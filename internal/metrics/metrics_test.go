package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRegistererRecordsNothing(t *testing.T) {
	p := NewPayload(nil)
	if p != nil {
		t.Fatalf("expected nil collectors, got %+v", p)
	}

	// Must not panic.
	p.ObserveSize(100, true)
	p.Inc(OpEncode, nil)
}

func TestPayloadCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPayload(reg)

	p.Inc(OpEncode, nil)
	p.Inc(OpEncode, nil)
	p.Inc(OpEncode, errors.New("boom"))
	p.Inc(OpDecode, nil)

	tests := []struct {
		op, status string
		want       float64
	}{
		{OpEncode, StatusSuccess, 2},
		{OpEncode, StatusError, 1},
		{OpDecode, StatusSuccess, 1},
		{OpDecode, StatusError, 0},
	}
	for _, tt := range tests {
		val := testutil.ToFloat64(p.Total.WithLabelValues(tt.op, tt.status))
		if val != tt.want {
			t.Errorf("%s/%s: expected %v, got %v", tt.op, tt.status, tt.want, val)
		}
	}
}

func TestPayloadSizeHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPayload(reg)

	p.ObserveSize(100, false)
	p.ObserveSize(5000, true)
	p.ObserveSize(6000, true)

	if n := testutil.CollectAndCount(p.Bytes, "rowfilter_payload_bytes"); n != 2 {
		t.Errorf("expected 2 label combinations, got %d", n)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPayload(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected registering twice on the same registry to panic")
		}
	}()
	NewPayload(reg)
}
