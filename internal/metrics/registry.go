package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry Prometheus metrics.
var (
	ExperimentsRegisteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expreg",
			Name:      "experiments_registered_total",
			Help:      "Total number of registered experiments",
		},
		[]string{"preset"},
	)

	DefinitionReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expreg",
			Name:      "definition_reloads_total",
			Help:      "Experiment definition file loads by result",
		},
		[]string{"result"}, // "ok" / "error"
	)

	RunsFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expreg",
			Name:      "runs_finished_total",
			Help:      "Finished training runs by status",
		},
		[]string{"status"},
	)

	EpochsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "expreg",
			Name:      "epochs_recorded_total",
			Help:      "Total training epochs reported by harnesses",
		},
	)
)

var registryMetricsRegistered bool

// RegisterRegistryMetrics registers Prometheus registry metrics. Must be called once from main.
func RegisterRegistryMetrics() {
	if registryMetricsRegistered {
		return
	}
	prometheus.MustRegister(ExperimentsRegisteredTotal)
	prometheus.MustRegister(DefinitionReloadsTotal)
	prometheus.MustRegister(RunsFinishedTotal)
	prometheus.MustRegister(EpochsRecordedTotal)
	registryMetricsRegistered = true
}
