package simulation

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

type FailureMode string

const (
	FailureNone   FailureMode = "none"
	FailureSingle FailureMode = "single"
	FailureMulti  FailureMode = "multi"
)

// Config describes a single simulated run. Times are measured in global
// ticks, each tick being one second of simulated time.
type Config struct {
	Nodes int `yaml:"nodes"`
	Ticks int `yaml:"ticks"`

	// StartEvery is the number of ticks between two consecutive node starts.
	// Zero starts all nodes at once. A node joins with its heartbeat at zero,
	// so the last one must start before the introducer's own heartbeat gets
	// FailTimeout ahead, or it is evicted as soon as it is added.
	StartEvery int `yaml:"start_every"`

	// Failure selects how many nodes crash at FailAt: none, a single random
	// node, or half of the group.
	Failure FailureMode `yaml:"failure"`
	FailAt  int         `yaml:"fail_at"`

	Drop DropConfig `yaml:"drop"`

	FailTimeout    int64 `yaml:"fail_timeout"`
	GossipFanout   int   `yaml:"gossip_fanout"`
	JoinRetryTicks int   `yaml:"join_retry_ticks"`

	Seed int64 `yaml:"seed"`
}

// DropConfig makes the network lose messages with the given probability
// between the From and Until ticks.
type DropConfig struct {
	Enabled     bool    `yaml:"enabled"`
	From        int     `yaml:"from"`
	Until       int     `yaml:"until"`
	Probability float64 `yaml:"probability"`
}

func DefaultConfig() Config {
	return Config{
		Nodes:       10,
		Ticks:       700,
		StartEvery:  1,
		Failure:     FailureSingle,
		FailAt:      100,
		FailTimeout: 40,
		Seed:        1,
		Drop: DropConfig{
			From:        50,
			Until:       300,
			Probability: 0.1,
		},
	}
}

// LoadConfig reads a YAML file. Fields missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (c Config) Validate() error {
	lastStart := (c.Nodes - 1) * c.StartEvery

	switch {
	case c.Nodes < 1:
		return fmt.Errorf("%w: nodes must be positive", ErrInvalidConfig)
	case c.Ticks <= 0:
		return fmt.Errorf("%w: ticks must be positive", ErrInvalidConfig)
	case c.StartEvery < 0:
		return fmt.Errorf("%w: start_every must not be negative", ErrInvalidConfig)
	case c.FailTimeout <= 0:
		return fmt.Errorf("%w: fail_timeout must be positive", ErrInvalidConfig)
	case c.GossipFanout < 0:
		return fmt.Errorf("%w: gossip_fanout must not be negative", ErrInvalidConfig)
	case c.JoinRetryTicks < 0:
		return fmt.Errorf("%w: join_retry_ticks must not be negative", ErrInvalidConfig)
	case int64(lastStart) >= c.FailTimeout:
		return fmt.Errorf("%w: last node starts at tick %d, which is not before fail_timeout (%d)", ErrInvalidConfig, lastStart, c.FailTimeout)
	}

	switch c.Failure {
	case FailureNone:
	case FailureSingle, FailureMulti:
		if c.FailAt <= lastStart || c.FailAt >= c.Ticks {
			return fmt.Errorf("%w: fail_at must be after the last node start (%d) and before the end", ErrInvalidConfig, lastStart)
		}

		if c.Failure == FailureMulti && c.Nodes < 2 {
			return fmt.Errorf("%w: multi failure needs at least two nodes", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown failure mode %q", ErrInvalidConfig, c.Failure)
	}

	if c.Drop.Enabled {
		switch {
		case c.Drop.Probability < 0 || c.Drop.Probability > 1:
			return fmt.Errorf("%w: drop probability must be within [0, 1]", ErrInvalidConfig)
		case c.Drop.From < 0 || c.Drop.Until < c.Drop.From:
			return fmt.Errorf("%w: invalid drop window", ErrInvalidConfig)
		}
	}

	return nil
}
