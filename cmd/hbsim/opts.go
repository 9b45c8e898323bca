package main

var opts struct {
	Config string `long:"config" short:"c" env:"CONFIG" description:"path to the scenario file (built-in defaults when empty)"`

	Seed    *int64 `long:"seed" env:"SEED" description:"override the random seed of the scenario"`
	Nodes   *int   `long:"nodes" env:"NODES" description:"override the number of nodes"`
	Failure string `long:"failure" env:"FAILURE" choice:"none" choice:"single" choice:"multi" description:"override the failure mode"`

	EventsFile      string `long:"events-file" env:"EVENTS_FILE" description:"write membership events to the file, '-' for stdout"`
	MetricsBindAddr string `long:"metrics-bind-addr" env:"METRICS_BIND_ADDR" description:"serve prometheus metrics until interrupted after the run"`

	Verbose bool `long:"verbose" description:"verbose mode" env:"VERBOSE"`
}
