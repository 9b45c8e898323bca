// Package metrics exports membership activity as Prometheus metrics. Every
// series is labeled with the address of the node it belongs to, so a single
// collector can serve a whole simulated group.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxpoletaev/hbgossip/membership"
)

const namespace = "hbgossip"

// Collector implements both membership.EventLog and membership.TickObserver.
type Collector struct {
	registry *prometheus.Registry

	members   *prometheus.GaugeVec
	heartbeat *prometheus.GaugeVec
	added     *prometheus.CounterVec
	removed   *prometheus.CounterVec
	ticks     *prometheus.CounterVec
	received  *prometheus.CounterVec
	malformed *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	sent      *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

var (
	_ membership.EventLog     = (*Collector)(nil)
	_ membership.TickObserver = (*Collector)(nil)
)

func NewCollector() *Collector {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"node"})
	}

	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"node"})
	}

	c := &Collector{
		registry:  prometheus.NewRegistry(),
		members:   gauge("members", "Number of live members in the membership table."),
		heartbeat: gauge("heartbeat", "Current value of the own heartbeat counter."),
		added:     counter("members_added_total", "Total number of members added to the table."),
		removed:   counter("members_removed_total", "Total number of members evicted as failed."),
		ticks:     counter("ticks_total", "Total number of completed protocol rounds."),
		received:  counter("messages_received_total", "Total number of messages dispatched."),
		malformed: counter("messages_malformed_total", "Total number of messages dropped as malformed."),
		dropped:   counter("messages_dropped_total", "Total number of messages dropped due to inbox overflow."),
		sent:      counter("messages_sent_total", "Total number of messages handed to the transport."),
		failed:    counter("messages_send_failures_total", "Total number of messages the transport failed to send."),
	}

	c.registry.MustRegister(
		c.members,
		c.heartbeat,
		c.added,
		c.removed,
		c.ticks,
		c.received,
		c.malformed,
		c.dropped,
		c.sent,
		c.failed,
	)

	return c
}

// Registry returns the registry the metrics are registered with, so that the
// caller can add process-wide collectors next to the membership ones.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) MemberAdded(self, _ membership.Address) {
	c.added.WithLabelValues(self.String()).Inc()
}

func (c *Collector) MemberRemoved(self, _ membership.Address) {
	c.removed.WithLabelValues(self.String()).Inc()
}

func (c *Collector) TickCompleted(self membership.Address, stats membership.TickStats) {
	node := self.String()

	c.ticks.WithLabelValues(node).Inc()
	c.members.WithLabelValues(node).Set(float64(stats.Members))
	c.heartbeat.WithLabelValues(node).Set(float64(stats.Heartbeat))
	c.received.WithLabelValues(node).Add(float64(stats.Received))
	c.malformed.WithLabelValues(node).Add(float64(stats.Malformed))
	c.dropped.WithLabelValues(node).Add(float64(stats.Dropped))
	c.sent.WithLabelValues(node).Add(float64(stats.Sent))
	c.failed.WithLabelValues(node).Add(float64(stats.SendFailed))
}
