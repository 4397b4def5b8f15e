package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookResults counts gateway callback outcomes by result label.
var WebhookResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "foodcourt",
	Subsystem: "webhooks",
	Name:      "momo_results_total",
	Help:      "MoMo webhook callbacks by processing outcome.",
}, []string{"outcome"})

// NotificationSends counts follower email delivery attempts by outcome.
var NotificationSends = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "foodcourt",
	Subsystem: "notifications",
	Name:      "email_sends_total",
	Help:      "Follower notification emails by delivery outcome.",
}, []string{"outcome"})

// GatewayRequests counts outbound payment-creation calls by outcome.
var GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "foodcourt",
	Subsystem: "payments",
	Name:      "gateway_requests_total",
	Help:      "Outbound gateway payment-creation requests by outcome.",
}, []string{"gateway", "outcome"})
