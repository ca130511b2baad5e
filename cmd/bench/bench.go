package main

import (
	"fmt"
	"os"

	"lobcore/internal/bench"
	"lobcore/internal/config"
	"lobcore/internal/engine"
)

func main() {
	cfg, err := config.ParseBenchFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	eng := engine.New()
	gen := bench.NewGenerator(cfg.Symbol, cfg.Seed, cfg.CancelChance)

	elapsed := bench.Run(eng, gen, cfg.Events)
	fmt.Printf("processed %d events in %s (%.0f events/sec)\n",
		cfg.Events, elapsed, bench.EventsPerSecond(cfg.Events, elapsed))
}
