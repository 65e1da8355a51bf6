package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics are the server's Prometheus collectors, registered on a private
// registry so multiple servers (and tests) never collide.
type metrics struct {
	requestsTotal       *prometheus.CounterVec
	transactionsCreated prometheus.Counter
	debtsCreated        *prometheus.CounterVec
	debtsSettled        *prometheus.CounterVec
	recordsDeleted      *prometheus.CounterVec
	storageWriteErrors  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cashbook",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by path and status code",
			},
			[]string{"path", "status"},
		),
		transactionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cashbook",
				Name:      "transactions_created_total",
				Help:      "Total number of transactions recorded, including debt-generated ones",
			},
		),
		debtsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cashbook",
				Name:      "debts_created_total",
				Help:      "Total number of liability/receivable records created",
			},
			[]string{"kind"},
		),
		debtsSettled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cashbook",
				Name:      "debts_settled_total",
				Help:      "Total number of liability/receivable records settled",
			},
			[]string{"kind"},
		),
		recordsDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cashbook",
				Name:      "records_deleted_total",
				Help:      "Total number of deleted records by entity",
			},
			[]string{"entity"},
		),
		storageWriteErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cashbook",
				Name:      "storage_write_errors_total",
				Help:      "Total number of failed persistence writes by document key",
			},
			[]string{"key"},
		),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.transactionsCreated,
		m.debtsCreated,
		m.debtsSettled,
		m.recordsDeleted,
		m.storageWriteErrors,
	)
	return m
}
