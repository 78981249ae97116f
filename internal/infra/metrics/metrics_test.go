package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSweep(3, 10*time.Millisecond, nil)
	m.ObserveSweep(2, 5*time.Millisecond, nil)
	m.ObserveSweep(0, time.Millisecond, errors.New("boom"))
	m.ObserveSweep(4, time.Millisecond, errors.New("after count failed"))

	if got := testutil.ToFloat64(m.sweeps.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok sweeps = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.sweeps.WithLabelValues("error")); got != 2 {
		t.Errorf("error sweeps = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.deleted); got != 9 {
		t.Errorf("deleted = %v, want 9", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("duration collectors = %d, want 1", n)
	}
}
