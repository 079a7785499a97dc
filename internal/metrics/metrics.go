// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branchdesk_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "branchdesk_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// StockAdjustments counts ledger adjustments by the record that caused them
	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branchdesk_stock_adjustments_total",
		Help: "Stock ledger adjustments by source",
	}, []string{"source"})

	EnquiriesConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "branchdesk_enquiries_confirmed_total",
		Help: "Enquiries converted into orders",
	})

	PaymentsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "branchdesk_payments_merged_total",
		Help: "Payments absorbed into another payment",
	})

	PaymentsUnmerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "branchdesk_payments_unmerged_total",
		Help: "Merged payments detached again",
	})

	// ImportRows counts workbook rows by outcome: inserted or skipped
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "branchdesk_payment_import_rows_total",
		Help: "Payment import rows by outcome",
	}, []string{"outcome"})
)

// Stock adjustment sources
const (
	SourceReturn   = "return"
	SourceDispatch = "dispatch"
	SourceAddStock = "add_stock"
	SourceLoss     = "loss"
)
