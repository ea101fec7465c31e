package quest

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts request outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	redirects *prometheus.CounterVec
	dropped   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quest_requests_total",
			Help: "Total number of classified requests",
		}, []string{"outcome", "kind", "code"}), // outcome: resolved, rejected
		redirects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quest_redirects_total",
			Help: "Total number of redirects that were followed",
		}, []string{"status"}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "quest_suppressed_errors_total",
			Help: "Total number of errors that arrived after the consumer destroyed its stream",
		}),
	}
}

func (m *Metrics) observe(res *Response, err error) {
	if m == nil {
		return
	}

	if res != nil {
		m.requests.WithLabelValues("resolved", "", strconv.Itoa(res.StatusCode)).Inc()
		return
	}

	qerr, ok := asError(err)
	if !ok {
		return // usage errors are not requests
	}

	code := qerr.TransportCode()
	if code == "" {
		code = strconv.Itoa(int(qerr.Code()))
	}
	m.requests.WithLabelValues("rejected", qerr.Kind().String(), code).Inc()
}

func (m *Metrics) redirected(status int) {
	if m == nil {
		return
	}
	m.redirects.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) suppressed() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}
