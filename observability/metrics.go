package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/treasury"
)

// Metrics holds the Prometheus registry and the prize pool meters.
type Metrics struct {
	Registry          *prometheus.Registry
	OperationDuration *prometheus.HistogramVec
	OperationTotal    *prometheus.CounterVec
	DistributedTotal  *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
}

// Compile-time interface check.
var _ treasury.Observer = (*Metrics)(nil)

// NewMetrics creates a custom registry with the prize pool metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prizepool_operation_duration_seconds",
		Help:    "Duration of pool operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	opTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prizepool_operation_total",
		Help: "Total number of pool operations.",
	}, []string{"operation", "status"})

	distributed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prizepool_distributed_total",
		Help: "Total token units paid out by distributions.",
	}, []string{"mint"})

	errorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prizepool_errors_total",
		Help: "Total number of failed pool operations by error kind.",
	}, []string{"operation", "kind"})

	reg.MustRegister(opDuration, opTotal, distributed, errorsTotal)

	return &Metrics{
		Registry:          reg,
		OperationDuration: opDuration,
		OperationTotal:    opTotal,
		DistributedTotal:  distributed,
		ErrorsTotal:       errorsTotal,
	}
}

// OperationDone records one engine operation.
func (m *Metrics) OperationDone(op string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		m.ErrorsTotal.WithLabelValues(op, treasury.KindOf(err).String()).Inc()
	}
	m.OperationTotal.WithLabelValues(op, status).Inc()
	m.OperationDuration.WithLabelValues(op, status).Observe(elapsed.Seconds())
}

// Distributed adds a successful distribution total.
func (m *Metrics) Distributed(mint identity.Identity, total uint64) {
	m.DistributedTotal.WithLabelValues(mint.String()).Add(float64(total))
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("observability: write metrics: %w", err)
	}
	return nil
}
