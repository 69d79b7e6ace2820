package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores Prometheus del motor de kardex. Los métodos
// toleran receptor nil para que los tests construyan el motor sin métricas.
type Metrics struct {
	MovementsRegistered *prometheus.CounterVec
	InsufficientStock   prometheus.Counter
	TxRetries           prometheus.Counter
	IntegrityFailures   prometheus.Counter
}

// New crea y registra los contadores en el registry por defecto.
func New() *Metrics {
	return &Metrics{
		MovementsRegistered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kardex_movements_registered_total",
			Help: "Movimientos de kardex registrados, por tipo",
		}, []string{"type"}),
		InsufficientStock: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kardex_insufficient_stock_total",
			Help: "Operaciones rechazadas por saldo insuficiente",
		}),
		TxRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kardex_tx_retries_total",
			Help: "Reintentos de transacción por conflicto de concurrencia",
		}),
		IntegrityFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kardex_integrity_failures_total",
			Help: "Verificaciones de traslado que detectaron violaciones",
		}),
	}
}

// IncMovement cuenta un movimiento registrado del tipo indicado.
func (m *Metrics) IncMovement(movementType string) {
	if m != nil {
		m.MovementsRegistered.WithLabelValues(movementType).Inc()
	}
}

// IncInsufficientStock cuenta un rechazo por saldo insuficiente.
func (m *Metrics) IncInsufficientStock() {
	if m != nil {
		m.InsufficientStock.Inc()
	}
}

// IncTxRetry cuenta un reintento por conflicto de concurrencia.
func (m *Metrics) IncTxRetry() {
	if m != nil {
		m.TxRetries.Inc()
	}
}

// IncIntegrityFailure cuenta una verificación de traslado fallida.
func (m *Metrics) IncIntegrityFailure() {
	if m != nil {
		m.IntegrityFailures.Inc()
	}
}
