package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contiene los colectores de los sweeps. Implementa service.Recorder.
type Metrics struct {
	sweeps   *prometheus.CounterVec
	deleted  prometheus.Counter
	duration prometheus.Histogram
}

// New registra los colectores en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sweeps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signals_sweeps_total",
				Help: "Total number of signal sweeps by result",
			},
			[]string{"result"},
		),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signals_deleted_total",
			Help: "Total number of signals deleted by sweeps",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signals_sweep_duration_seconds",
			Help:    "Duration of signal sweeps",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.sweeps, m.deleted, m.duration)
	return m
}

func (m *Metrics) ObserveSweep(deleted int, took time.Duration, err error) {
	m.duration.Observe(took.Seconds())
	// deleted cuenta aunque falle el COUNT posterior: las filas ya no están
	m.deleted.Add(float64(deleted))
	if err != nil {
		m.sweeps.WithLabelValues("error").Inc()
		return
	}
	m.sweeps.WithLabelValues("ok").Inc()
}
