package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/hbgossip/membership"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	node1 := membership.Address{ID: 1}
	node2 := membership.Address{ID: 2}

	c.MemberAdded(node1, node2)
	c.MemberAdded(node1, membership.Address{ID: 3})
	c.MemberRemoved(node1, node2)

	c.TickCompleted(node1, membership.TickStats{Received: 4, Malformed: 1, Dropped: 3, Sent: 6, SendFailed: 2, Members: 1, Heartbeat: 7})
	c.TickCompleted(node1, membership.TickStats{Received: 2, Sent: 2, Members: 1, Heartbeat: 8})
	c.TickCompleted(node2, membership.TickStats{Heartbeat: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.added.WithLabelValues("1:0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.removed.WithLabelValues("1:0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticks.WithLabelValues("1:0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ticks.WithLabelValues("2:0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.members.WithLabelValues("1:0")))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.heartbeat.WithLabelValues("1:0")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.received.WithLabelValues("1:0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.malformed.WithLabelValues("1:0")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.dropped.WithLabelValues("1:0")))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.sent.WithLabelValues("1:0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.failed.WithLabelValues("1:0")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.Registry().MustRegister(collectors.NewGoCollector())
	c.TickCompleted(membership.Address{ID: 1}, membership.TickStats{Members: 3, Heartbeat: 5})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `hbgossip_members{node="1:0"} 3`)
	assert.Contains(t, string(body), `hbgossip_heartbeat{node="1:0"} 5`)
	assert.Contains(t, string(body), "go_goroutines")
}
