// Package metrics exposes Prometheus collectors over the session counters
// spec §4.4 defines (requests, replies, errors) — the `[ADDED]`
// request/reply metrics surface SPEC_FULL.md's domain-stack expansion
// calls for, grounded on the teacher's own direct dependency on
// github.com/prometheus/client_golang (MiraiMindz-watt bolt/go.mod).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the counters a Registry exposes; Observe is called
// once per completed message exchange with how much each of the session's
// monotone counters grew during that exchange.
type Collectors struct {
	Requests prometheus.Counter
	Replies  prometheus.Counter
	Errors   prometheus.Counter
}

// New returns a fresh, unregistered set of counters under namespace; call
// MustRegister to expose them.
func New(namespace string) *Collectors {
	return &Collectors{
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "requests_total", Help: "Total requests dispatched.",
		}),
		Replies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "replies_total", Help: "Total replies sent.",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "errors_total", Help: "Total error replies sent.",
		}),
	}
}

// MustRegister registers every collector with reg, panicking on a
// duplicate-registration error — the standard prometheus idiom for
// process-lifetime collectors registered once at startup.
func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.Requests, c.Replies, c.Errors)
}

// Observe records one message exchange's worth of counters. requests,
// replies, and errors are deltas (usually 0 or 1), not the session's
// running totals — callers pass `session.Requests - previous` etc.
func (c *Collectors) Observe(requests, replies, errors int) {
	if requests > 0 {
		c.Requests.Add(float64(requests))
	}
	if replies > 0 {
		c.Replies.Add(float64(replies))
	}
	if errors > 0 {
		c.Errors.Add(float64(errors))
	}
}
