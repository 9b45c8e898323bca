package eventlog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/hbgossip/clock"
	"github.com/maxpoletaev/hbgossip/membership"
)

var (
	node1 = membership.Address{ID: 1}
	node2 = membership.Address{ID: 2}
	node3 = membership.Address{ID: 3}
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "joined", KindAdded.String())
	assert.Equal(t, "removed", KindRemoved.String())
	assert.Equal(t, "", Kind(0).String())
}

func TestRecorder(t *testing.T) {
	epoch := time.Unix(0, 0)
	clk := clock.NewManual(epoch)
	out := &bytes.Buffer{}

	rec := NewRecorder(Config{
		Clock:  clk,
		Epoch:  epoch,
		Output: out,
	})

	clk.Advance(5 * time.Second)
	rec.MemberAdded(node1, node2)
	rec.MemberAdded(node1, node3)
	rec.MemberAdded(node2, node1)

	clk.Advance(55 * time.Second)
	rec.MemberRemoved(node1, node3)

	events := rec.Events()
	require.Len(t, events, 4)
	assert.Equal(t, Event{
		Kind:    KindRemoved,
		Self:    node1,
		Subject: node3,
		Time:    epoch.Add(60 * time.Second),
	}, events[3])

	assert.Equal(t, []membership.Address{node2, node3}, rec.Added(node1))
	assert.Equal(t, []membership.Address{node1}, rec.Added(node2))
	assert.Equal(t, []membership.Address{node3}, rec.Removed(node1))
	assert.Empty(t, rec.Removed(node2))

	assert.Equal(t, 1, rec.Count(KindAdded, node1, node3))
	assert.Equal(t, 1, rec.Count(KindRemoved, node1, node3))
	assert.Equal(t, 0, rec.Count(KindRemoved, node2, node3))

	wantOutput := "" +
		"1:0: Node 2:0 joined at time 5\n" +
		"1:0: Node 3:0 joined at time 5\n" +
		"2:0: Node 1:0 joined at time 5\n" +
		"1:0: Node 3:0 removed at time 60\n"

	assert.Equal(t, wantOutput, out.String())
}

func TestRecorder_EventsIsCopy(t *testing.T) {
	rec := NewRecorder(Config{})
	rec.MemberAdded(node1, node2)

	events := rec.Events()
	events[0].Subject = node3

	assert.Equal(t, node2, rec.Events()[0].Subject)
}

func TestTee(t *testing.T) {
	a := NewRecorder(Config{})
	b := NewRecorder(Config{})

	log := Tee(a, nil, b)
	log.MemberAdded(node1, node2)
	log.MemberRemoved(node1, node2)

	for _, rec := range []*Recorder{a, b} {
		assert.Equal(t, 1, rec.Count(KindAdded, node1, node2))
		assert.Equal(t, 1, rec.Count(KindRemoved, node1, node2))
	}
}
