package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alarmclock"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	ticks         prom.Counter
	telemetry     prom.Counter
	syncs         *prom.CounterVec
	overflows     prom.Counter
	buttons       *prom.CounterVec
	displayCycles prom.Counter
	hwErrors      *prom.CounterVec
	serialDropped prom.Gauge
}

// NewPrometheusRecorder constructs and registers the clock metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		ticks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Tick task firings",
		}),
		telemetry: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_lines_total",
			Help:      "Telemetry lines written to the host",
		}),
		syncs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sync_lines_total",
			Help:      "Sync lines received by result",
		}, []string{"result"}),
		overflows: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "line_overflows_total",
			Help:      "Received lines longer than the line buffer",
		}),
		buttons: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "button_presses_total",
			Help:      "Reported button presses",
		}, []string{"button"}),
		displayCycles: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "display_cycles_total",
			Help:      "Complete multiplexed display refresh cycles",
		}),
		hwErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "hardware_errors_total",
			Help:      "Failed GPIO operations by kind",
		}, []string{"kind"}),
		serialDropped: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "serial_dropped_bytes",
			Help:      "Received bytes lost to a full receive buffer",
		}),
	}
	reg.MustRegister(pr.ticks, pr.telemetry, pr.syncs, pr.overflows, pr.buttons,
		pr.displayCycles, pr.hwErrors, pr.serialDropped)
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return pr
}

func (p *PrometheusRecorder) Tick() { p.ticks.Inc() }
func (p *PrometheusRecorder) Telemetry() { p.telemetry.Inc() }
func (p *PrometheusRecorder) SyncAccepted() { p.syncs.WithLabelValues("accepted").Inc() }
func (p *PrometheusRecorder) SyncRejected(reason string) { p.syncs.WithLabelValues(reason).Inc() }
func (p *PrometheusRecorder) LineOverflow() { p.overflows.Inc() }
func (p *PrometheusRecorder) ButtonPress(button string) { p.buttons.WithLabelValues(button).Inc() }
func (p *PrometheusRecorder) DisplayCycle() { p.displayCycles.Inc() }
func (p *PrometheusRecorder) HardwareError(kind string) { p.hwErrors.WithLabelValues(kind).Inc() }
func (p *PrometheusRecorder) SerialDropped(total int64) { p.serialDropped.Set(float64(total)) }

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// HTTPHandler returns an http.Handler that serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
