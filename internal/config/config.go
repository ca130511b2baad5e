// Package config parses process configuration from flags, the way the
// teacher's cmd/client/client.go does for its own flag set — generalized
// here into a reusable Config for both the server and the bench binary.
package config

import (
	"flag"
	"fmt"
)

// ServerConfig holds the settings cmd/server needs to stand up a
// listener and a metrics endpoint. Workers is parsed and validated only:
// transport.New does not take it and always starts a pool of 10 workers.
type ServerConfig struct {
	ListenAddress string
	ListenPort    int
	MetricsAddr   string
	Workers       int
}

// ParseServerFlags parses args (normally os.Args[1:]) into a ServerConfig.
func ParseServerFlags(args []string) (ServerConfig, error) {
	fs := flag.NewFlagSet("lobcore-server", flag.ContinueOnError)
	cfg := ServerConfig{}

	fs.StringVar(&cfg.ListenAddress, "address", "0.0.0.0", "TCP listen address")
	fs.IntVar(&cfg.ListenPort, "port", 9001, "TCP listen port")
	fs.StringVar(&cfg.MetricsAddr, "metrics-address", ":2112", "Prometheus metrics listen address")
	fs.IntVar(&cfg.Workers, "workers", 10, "connection worker pool size (validated only; the server always runs 10 workers)")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}
	if cfg.Workers <= 0 {
		return ServerConfig{}, fmt.Errorf("-workers must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}

// BenchConfig holds the settings cmd/bench needs to drive a synthetic
// load against the matching core directly, bypassing transport.
type BenchConfig struct {
	Symbol       string
	Events       int
	Seed         int64
	CancelChance float64
}

// ParseBenchFlags parses args into a BenchConfig.
func ParseBenchFlags(args []string) (BenchConfig, error) {
	fs := flag.NewFlagSet("lobcore-bench", flag.ContinueOnError)
	cfg := BenchConfig{}

	fs.StringVar(&cfg.Symbol, "symbol", "REL", "symbol to generate synthetic orders for")
	fs.IntVar(&cfg.Events, "events", 100000, "number of synthetic events to generate")
	fs.Int64Var(&cfg.Seed, "seed", 1, "PRNG seed, for reproducible runs")
	fs.Float64Var(&cfg.CancelChance, "cancel-chance", 0.1, "probability a generated event is a cancel of a prior order")

	if err := fs.Parse(args); err != nil {
		return BenchConfig{}, err
	}
	if cfg.Events <= 0 {
		return BenchConfig{}, fmt.Errorf("-events must be positive, got %d", cfg.Events)
	}
	if cfg.CancelChance < 0 || cfg.CancelChance >= 1 {
		return BenchConfig{}, fmt.Errorf("-cancel-chance must be in [0, 1), got %f", cfg.CancelChance)
	}
	return cfg, nil
}
