package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/hbgossip/simulation"
)

func TestLoadConfig_Overrides(t *testing.T) {
	seed := int64(42)
	nodes := 5

	opts.Config = ""
	opts.Seed = &seed
	opts.Nodes = &nodes
	opts.Failure = "multi"

	defer func() {
		opts.Seed, opts.Nodes, opts.Failure = nil, nil, ""
	}()

	conf, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, int64(42), conf.Seed)
	assert.Equal(t, 5, conf.Nodes)
	assert.Equal(t, simulation.FailureMulti, conf.Failure)
}

func TestPrintReport(t *testing.T) {
	conf := simulation.DefaultConfig()
	conf.Nodes = 3
	conf.Ticks = 20
	conf.Failure = simulation.FailureNone

	rep, err := simulation.Run(context.Background(), conf, simulation.Options{})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	printReport(out, rep)

	assert.Contains(t, out.String(), "NODE")
	assert.Contains(t, out.String(), "converged: true")
}
