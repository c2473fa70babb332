package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AccountsCreated  prometheus.Counter
	WalletTopUps     prometheus.Counter
	GiftCardsIssued  prometheus.Counter
	PurchasesTotal   *prometheus.CounterVec
	PurchaseFailures *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopstream_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		WalletTopUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopstream_wallet_topups_total",
			Help: "Total number of wallet top-up operations",
		}),
		GiftCardsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopstream_giftcards_issued_total",
			Help: "Total number of gift cards issued",
		}),
		PurchasesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopstream_purchases_total",
			Help: "Completed purchase line items by flow (direct or checkout)",
		}, []string{"flow"}),
		PurchaseFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopstream_purchase_failures_total",
			Help: "Rejected purchases by reason",
		}, []string{"reason"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopstream_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementAccountsCreated increments the accounts created counter by 1.
func (m *Metrics) IncrementAccountsCreated() {
	if m != nil {
		m.AccountsCreated.Inc()
	}
}

// RecordPurchase counts committed purchase lines for the given flow.
func (m *Metrics) RecordPurchase(flow string, lines int) {
	if m != nil {
		m.PurchasesTotal.WithLabelValues(flow).Add(float64(lines))
	}
}

// RecordPurchaseFailure counts a rejected purchase by reason code.
func (m *Metrics) RecordPurchaseFailure(reason string) {
	if m != nil {
		m.PurchaseFailures.WithLabelValues(reason).Inc()
	}
}
