package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jessevdk/go-flags"

	"github.com/maxpoletaev/hbgossip/metrics"
	"github.com/maxpoletaev/hbgossip/simulation"
)

func loadConfig() (simulation.Config, error) {
	conf := simulation.DefaultConfig()

	if opts.Config != "" {
		var err error
		if conf, err = simulation.LoadConfig(opts.Config); err != nil {
			return conf, err
		}
	}

	if opts.Seed != nil {
		conf.Seed = *opts.Seed
	}

	if opts.Nodes != nil {
		conf.Nodes = *opts.Nodes
	}

	if opts.Failure != "" {
		conf.Failure = simulation.FailureMode(opts.Failure)
	}

	return conf, conf.Validate()
}

func openEvents() (io.Writer, func() error, error) {
	switch opts.EventsFile {
	case "":
		return nil, func() error { return nil }, nil
	case "-":
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(opts.EventsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create events file: %w", err)
	}

	return f, f.Close, nil
}

func printReport(w io.Writer, rep *simulation.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "NODE\tSTATUS\tHEARTBEAT\tMEMBERS\tDEAD\tSENT\tRECEIVED")

	for _, n := range rep.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%v\t%d\t%d\n",
			n.Address, n.Status, n.Heartbeat, len(n.Members), n.Dead, n.Stats.Sent, n.Stats.Received)
	}

	fmt.Fprintf(tw, "\nfailed: %v, converged: %t, events: %d\n", rep.Failed, rep.Converged, len(rep.Events))
}

func serveMetrics(ctx context.Context, collector *metrics.Collector, logger kitlog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:              opts.MetricsBindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			level.Error(logger).Log("msg", "failed to shutdown metrics server", "err", err)
		}
	}()

	level.Info(logger).Log("msg", "serving metrics until interrupted", "addr", opts.MetricsBindAddr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		level.Error(logger).Log("msg", "metrics server stopped", "err", err)
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

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	if !opts.Verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	conf, err := loadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "failed to load scenario", "err", err)
		os.Exit(2)
	}

	events, closeEvents, err := openEvents()
	if err != nil {
		level.Error(logger).Log("msg", "failed to open events output", "err", err)
		os.Exit(2)
	}

	collector := metrics.NewCollector()

	rep, err := simulation.Run(appctx, conf, simulation.Options{
		Logger:      logger,
		EventOutput: events,
		EventLog:    collector,
		Observer:    collector,
	})

	if err := closeEvents(); err != nil {
		level.Error(logger).Log("msg", "failed to close events output", "err", err)
	}

	if err != nil {
		level.Error(logger).Log("msg", "simulation failed", "err", err)
		os.Exit(1)
	}

	printReport(os.Stdout, rep)

	checkErr := rep.Check()
	if checkErr != nil {
		level.Error(logger).Log("msg", "membership check failed", "err", checkErr)
	} else {
		level.Info(logger).Log("msg", "membership check passed", "nodes", conf.Nodes, "failed", len(rep.Failed))
	}

	if opts.MetricsBindAddr != "" {
		serveMetrics(appctx, collector, logger)
	}

	if checkErr != nil {
		os.Exit(1)
	}
}
