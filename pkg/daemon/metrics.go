package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
)

const metricsNamespace = "battery_daemon"

type loopMetrics struct {
	samples      prometheus.Counter
	sampleErrors prometheus.Counter
	alertsFired  prometheus.Counter
	alertErrors  prometheus.Counter
	capacity     prometheus.Gauge
	state        *prometheus.GaugeVec
	alerted      prometheus.Gauge
	threshold    prometheus.Gauge
}

// newLoopMetrics creates the loop collectors and registers them with reg.
// A nil reg leaves them unregistered.
func newLoopMetrics(reg prometheus.Registerer) *loopMetrics {
	factory := promauto.With(reg)

	return &loopMetrics{
		samples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "samples_total",
			Help:      "Number of successful battery samples.",
		}),
		sampleErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sample_errors_total",
			Help:      "Number of failed battery samples.",
		}),
		alertsFired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "alerts_fired_total",
			Help:      "Number of low battery alerts fired, delivered or not.",
		}),
		alertErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "alert_errors_total",
			Help:      "Number of low battery alerts that could not be delivered.",
		}),
		capacity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "battery_capacity_percent",
			Help:      "Battery charge of the last successful sample.",
		}),
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "battery_state",
			Help:      "1 for the charge state of the last successful sample, 0 otherwise.",
		}, []string{"state"}),
		alerted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "alerted",
			Help:      "1 while an alert has fired for the current low battery episode.",
		}),
		threshold: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "threshold_percent",
			Help:      "Configured low battery threshold.",
		}),
	}
}

func (m *loopMetrics) observeSample(s powerinfo.Sample, alerted bool) {
	m.samples.Inc()
	m.capacity.Set(float64(s.Capacity))
	for _, st := range []powerinfo.ChargeState{powerinfo.Charging, powerinfo.Discharging, powerinfo.Full, powerinfo.Unknown} {
		v := 0.0
		if st == s.State {
			v = 1
		}
		m.state.WithLabelValues(st.String()).Set(v)
	}
	m.alerted.Set(boolToFloat(alerted))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
