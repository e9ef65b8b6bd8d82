package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/csim/mem/cache"
	"github.com/sarchlab/csim/sim/hooking"
)

// Metric names exported on /metrics.
const (
	MetricAccesses   = "csim_accesses_total"
	MetricCycles     = "csim_cycles_total"
	MetricEvictions  = "csim_evictions_total"
	MetricWritebacks = "csim_writebacks_total"
)

type metrics struct {
	accesses   *prometheus.CounterVec
	cycles     prometheus.Counter
	evictions  prometheus.Counter
	writebacks prometheus.Counter
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		accesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAccesses,
			Help: "Cache accesses by operation and outcome.",
		}, []string{"op", "outcome"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCycles,
			Help: "Cycles spent by all accesses.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricEvictions,
			Help: "Valid lines replaced by a new block.",
		}),
		writebacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricWritebacks,
			Help: "Dirty lines written back to memory on eviction.",
		}),
	}

	registry.MustRegister(m.accesses, m.cycles, m.evictions, m.writebacks)

	return m
}

// MetricsHook returns a hook that counts cache accesses into the monitor's
// Prometheus registry.
func (m *Monitor) MetricsHook() hooking.Hook {
	return &metricsHook{metrics: m.metrics}
}

type metricsHook struct {
	metrics *metrics
}

func (h *metricsHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	info, ok := ctx.Item.(cache.AccessInfo)
	if !ok {
		return
	}

	outcome := "miss"
	if info.Hit {
		outcome = "hit"
	}

	h.metrics.accesses.WithLabelValues(info.Op.String(), outcome).Inc()
	h.metrics.cycles.Add(float64(info.Cycles))

	if info.Evicted {
		h.metrics.evictions.Inc()
	}

	if info.WriteBack {
		h.metrics.writebacks.Inc()
	}
}
