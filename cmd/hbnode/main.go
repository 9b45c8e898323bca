package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/metrics"
)

// run drives the node until the context is cancelled or the node fails.
// Receiving and ticking happen on the same goroutine, one round per interval.
func run(ctx context.Context, node *membership.Node, healthServer *health.Server, logger kitlog.Logger) {
	ticker := time.NewTicker(time.Duration(opts.Protocol.TickInterval) * time.Millisecond)
	defer ticker.Stop()

	serving := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := node.Receive(); err != nil {
			level.Error(logger).Log("msg", "failed to receive messages", "err", err)
		}

		if err := node.Tick(); err != nil {
			level.Error(logger).Log("msg", "protocol round failed", "err", err)
		}

		if ok := node.InGroup() && !node.Failed(); ok != serving {
			status := healthpb.HealthCheckResponse_NOT_SERVING
			if ok {
				status = healthpb.HealthCheckResponse_SERVING
			}

			healthServer.SetServingStatus("", status)
			serving = ok
		}

		if node.Failed() {
			level.Error(logger).Log("msg", "node has failed, stopping")
			return
		}
	}
}

func main() {
	p := flags.NewParser(&opts, flags.Default)

	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			fmt.Println("cli error:", err)
		}

		os.Exit(2)
	}

	appctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	self := membership.Address{
		ID:   membership.NodeID(opts.Node.ID),
		Port: opts.Node.Port,
	}

	introducer := membership.Address{
		ID: membership.NodeID(opts.Node.Introducer),
	}

	wg := sync.WaitGroup{}
	collector := metrics.NewCollector()
	collector.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize all components.
	logger, closeLogger := setupLogger()
	tr, closeTransport := setupTransport(self, logger)
	node, closeNode := setupNode(self, tr, collector, logger)
	healthServer, closeGRPCServer := setupGRPCServer(&wg, logger)
	closeMetricsServer := setupMetricsServer(&wg, collector, logger)

	// Components must be shut down in a particular order.
	shutdownOrder := []shutdownFunc{
		closeGRPCServer,
		closeMetricsServer,
		closeNode,
		closeTransport,
		closeLogger,
	}

	if err := node.Start(introducer); err != nil {
		level.Error(logger).Log("msg", "failed to join the group", "introducer", introducer, "err", err)
		os.Exit(1)
	}

	// Block until we receive a signal to shut down.
	run(appctx, node, healthServer, logger)
	level.Info(logger).Log("msg", "shutting down", "members", len(node.Members()))

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	// Shutdown all components.
	for _, f := range shutdownOrder {
		if err := f(ctx); err != nil {
			level.Error(logger).Log("msg", "failed to shutdown component", "err", err)
		}
	}

	// Wait for all components to finish background tasks.
	wg.Wait()
}
