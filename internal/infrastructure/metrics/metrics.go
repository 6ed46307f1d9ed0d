package metrics

import (
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

type Metrics struct {
	importRuns    *prometheus.CounterVec
	importRecords *prometheus.CounterVec
	signIns       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		importRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Finished import runs by report kind.",
		}, []string{"report"}),
		importRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Processed import records by outcome.",
		}, []string{"outcome"}),
		signIns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_ins_total",
			Help:      "Sign-in attempts by method and result.",
		}, []string{"method", "result"}),
	}
}

func (m *Metrics) RecordOutcome(status domain.OutcomeStatus) {
	m.importRecords.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) RunFinished(kind domain.ReportKind) {
	m.importRuns.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) SignIn(method domain.ProviderID, result string) {
	m.signIns.WithLabelValues(string(method), result).Inc()
}
