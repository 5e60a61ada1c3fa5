// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/contractvm/contractvm"
)

type metrics struct {
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	messages *prometheus.CounterVec
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls",
			Help:      "Number of entry point calls",
		}, []string{"entry"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "call_failures",
			Help:      "Number of failed entry point calls by error kind",
		}, []string{"entry", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Time spent in a call, including dispatch and replies",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entry"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatched_messages",
			Help:      "Number of emitted messages by type and result",
		}, []string{"type", "result"}),
	}
	if registerer == nil {
		return m, nil
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.calls),
		registerer.Register(m.failures),
		registerer.Register(m.duration),
		registerer.Register(m.messages),
	)
	return m, errs.Err
}

func (m *metrics) observe(entry string, start time.Time, err error) {
	m.calls.WithLabelValues(entry).Inc()
	m.duration.WithLabelValues(entry).Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(entry, contractvm.ErrorKind(err)).Inc()
	}
}

func (m *metrics) dispatched(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.messages.WithLabelValues(kind, result).Inc()
}
