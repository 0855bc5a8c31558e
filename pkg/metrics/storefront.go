package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// StorefrontMetrics records counters for the shopping flow.
type StorefrontMetrics struct {
	cartAdds      *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
	orderAmount   prometheus.Histogram
	walletTopUps  prometheus.Counter
	registrations prometheus.Counter
	loginOutcomes *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartAdds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Goods added to carts, by outcome.",
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts, by outcome.",
	}, []string{"outcome"})
	orderAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_amount",
		Help:    "Paid order totals.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	walletTopUps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallet_top_ups_total",
		Help: "Successful wallet top ups.",
	})
	registrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Successful account registrations.",
	})
	loginOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Login attempts, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(cartAdds, checkouts, orderAmount, walletTopUps, registrations, loginOutcomes)
	return &StorefrontMetrics{
		cartAdds:      cartAdds,
		checkouts:     checkouts,
		orderAmount:   orderAmount,
		walletTopUps:  walletTopUps,
		registrations: registrations,
		loginOutcomes: loginOutcomes,
	}
}

// IncCartAdd increments the cart add counter for the given outcome.
func (s *StorefrontMetrics) IncCartAdd(outcome string) {
	if s == nil || s.cartAdds == nil {
		return
	}
	s.cartAdds.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCheckout increments the checkout counter for the given outcome.
func (s *StorefrontMetrics) IncCheckout(outcome string) {
	if s == nil || s.checkouts == nil {
		return
	}
	s.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveOrderAmount records the total of a paid order.
func (s *StorefrontMetrics) ObserveOrderAmount(amount decimal.Decimal) {
	if s == nil || s.orderAmount == nil {
		return
	}
	value, _ := amount.Float64()
	s.orderAmount.Observe(value)
}

// IncWalletTopUp increments the wallet top up counter.
func (s *StorefrontMetrics) IncWalletTopUp() {
	if s == nil || s.walletTopUps == nil {
		return
	}
	s.walletTopUps.Inc()
}

// IncRegistration increments the registration counter.
func (s *StorefrontMetrics) IncRegistration() {
	if s == nil || s.registrations == nil {
		return
	}
	s.registrations.Inc()
}

// IncLogin increments the login counter for the given outcome.
func (s *StorefrontMetrics) IncLogin(outcome string) {
	if s == nil || s.loginOutcomes == nil {
		return
	}
	s.loginOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
