// Package metrics exposes Prometheus counters for registry activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Item actions.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionPurchase = "purchase"
	ActionClaim    = "claim"
)

// Registry records registry activity. A nil *Registry is valid and records
// nothing.
type Registry struct {
	itemActions *prometheus.CounterVec
	logins      *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// New registers the registry metrics on reg. A nil reg yields a Registry that
// records nothing.
func New(reg prometheus.Registerer) *Registry {
	if reg == nil {
		return &Registry{}
	}
	itemActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_item_actions_total",
		Help: "Item mutations by action.",
	}, []string{"action"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_admin_logins_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "registry_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "code"})
	reg.MustRegister(itemActions, logins, requests)
	return &Registry{
		itemActions: itemActions,
		logins:      logins,
		requests:    requests,
	}
}

// ItemAction counts one successful item mutation.
func (r *Registry) ItemAction(action string) {
	if r == nil || r.itemActions == nil {
		return
	}
	r.itemActions.WithLabelValues(normalizeLabel(action)).Inc()
}

// Login counts an admin login attempt.
func (r *Registry) Login(ok bool) {
	if r == nil || r.logins == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	r.logins.WithLabelValues(result).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (r *Registry) ObserveRequest(method string, status int, d time.Duration) {
	if r == nil || r.requests == nil {
		return
	}
	r.requests.WithLabelValues(normalizeLabel(method), strconv.Itoa(status)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
