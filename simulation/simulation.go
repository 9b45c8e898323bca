// Package simulation runs a whole group of nodes in a single process over the
// emulated network and grades the outcome. Nodes are started one after
// another, some of them are crashed at a scheduled tick, and the network may
// lose messages during a configured window. Everything is driven by a manual
// clock, so a run with the same config always produces the same result.
package simulation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/clock"
	"github.com/maxpoletaev/hbgossip/eventlog"
	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/transport/emulnet"
)

// Options are the outputs of a run. All of them are optional.
type Options struct {
	Logger kitlog.Logger

	// EventOutput receives a line for every membership change.
	EventOutput io.Writer

	// EventLog and Observer are attached to every node in addition to the
	// built-in event recorder, e.g. to export metrics.
	EventLog membership.EventLog
	Observer membership.TickObserver
}

var epoch = time.Unix(0, 0)

type runner struct {
	conf    Config
	logger  kitlog.Logger
	clock   *clock.Manual
	net     *emulnet.Network
	events  *eventlog.Recorder
	nodes   []*membership.Node
	started []bool
	failing map[membership.NodeID]bool
}

// Run executes the simulation described by conf and returns its report. An
// error means the run could not be carried out, not that the protocol has
// misbehaved: use Report.Check for that.
func Run(ctx context.Context, conf Config, opts Options) (*Report, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = kitlog.NewNopLogger()
	}

	r, err := newRunner(conf, opts)
	if err != nil {
		return nil, err
	}

	defer r.net.Close()

	for tick := 0; tick < conf.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation interrupted at tick %d: %w", tick, err)
		}

		if err := r.step(tick); err != nil {
			return nil, fmt.Errorf("tick %d: %w", tick, err)
		}
	}

	return r.report(), nil
}

func newRunner(conf Config, opts Options) (*runner, error) {
	netConf := emulnet.DefaultConfig()
	netConf.Seed = conf.Seed
	netConf.Logger = opts.Logger

	clk := clock.NewManual(epoch)

	r := &runner{
		conf:    conf,
		logger:  opts.Logger,
		clock:   clk,
		net:     emulnet.New(netConf),
		started: make([]bool, conf.Nodes),
		events: eventlog.NewRecorder(eventlog.Config{
			Clock:  clk,
			Epoch:  epoch,
			Output: opts.EventOutput,
			Logger: opts.Logger,
		}),
	}

	for i := 0; i < conf.Nodes; i++ {
		nodeConf := membership.DefaultConfig()
		nodeConf.Address = membership.Address{ID: membership.NodeID(i + 1)}
		nodeConf.Transport = r.net
		nodeConf.Clock = clk
		nodeConf.EventLog = eventlog.Tee(r.events, opts.EventLog)
		nodeConf.Observer = opts.Observer
		nodeConf.Logger = opts.Logger
		nodeConf.FailTimeout = conf.FailTimeout
		nodeConf.GossipFanout = conf.GossipFanout
		nodeConf.JoinRetryTicks = conf.JoinRetryTicks

		node, err := membership.NewNode(nodeConf)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %d: %w", i+1, err)
		}

		r.nodes = append(r.nodes, node)
	}

	r.failing = pickFailing(conf)

	return r, nil
}

// pickFailing selects the nodes to crash: one random node, or a run of half
// the group starting at a random position.
func pickFailing(conf Config) map[membership.NodeID]bool {
	failing := make(map[membership.NodeID]bool)
	rnd := rand.New(rand.NewSource(conf.Seed))

	switch conf.Failure {
	case FailureSingle:
		failing[membership.NodeID(rnd.Intn(conf.Nodes)+1)] = true
	case FailureMulti:
		first := rnd.Intn(conf.Nodes)
		for i := 0; i < conf.Nodes/2; i++ {
			failing[membership.NodeID((first+i)%conf.Nodes+1)] = true
		}
	}

	return failing
}

func (r *runner) step(tick int) error {
	for i, node := range r.nodes {
		if r.started[i] || tick < i*r.conf.StartEvery {
			continue
		}

		if err := node.Start(membership.IntroducerAddress); err != nil {
			return fmt.Errorf("failed to start node %s: %w", node.Self(), err)
		}

		r.started[i] = true
	}

	if r.conf.Drop.Enabled {
		switch tick {
		case r.conf.Drop.From:
			level.Info(r.logger).Log("msg", "message drops enabled", "tick", tick, "probability", r.conf.Drop.Probability)
			r.net.SetDropRate(r.conf.Drop.Probability)
		case r.conf.Drop.Until:
			level.Info(r.logger).Log("msg", "message drops disabled", "tick", tick)
			r.net.SetDropRate(0)
		}
	}

	if r.conf.Failure != FailureNone && tick == r.conf.FailAt {
		for _, node := range r.nodes {
			if r.failing[node.Self().ID] {
				level.Info(r.logger).Log("msg", "crashing node", "node", node.Self(), "tick", tick)
				node.Fail()
			}
		}
	}

	for i, node := range r.nodes {
		if !r.started[i] {
			continue
		}

		if _, err := node.Receive(); err != nil {
			return err
		}
	}

	for i, node := range r.nodes {
		if !r.started[i] {
			continue
		}

		if err := node.Tick(); err != nil {
			return err
		}
	}

	r.clock.Advance(time.Second)

	return nil
}
