package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	votesTotal        prometheus.Counter
	pollsCreatedTotal prometheus.Counter
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the poll maker.",
		}, []string{"method", "path", "status"})

		votesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "votes_total",
			Help:      "Votes recorded since startup.",
		})

		pollsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "polls_created_total",
			Help:      "Polls created since startup.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncVote() {
	if votesTotal == nil {
		return
	}
	votesTotal.Inc()
}

func IncPollCreated() {
	if pollsCreatedTotal == nil {
		return
	}
	pollsCreatedTotal.Inc()
}
