package bench

import (
	"time"

	"lobcore/internal/engine"
)

// Run drives n synthetic events from a Generator through eng via
// engine.ProcessEvent and returns how long it took. It never touches a
// database or the network — the matching core is the only thing being
// measured, in the spirit of quantcup's in-memory benchmark harness
// rather than its Postgres-backed one.
func Run(eng *engine.Engine, gen *Generator, n int) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		order, isCancel := gen.Next()
		kind := engine.NewEvent
		if isCancel {
			kind = engine.CancelEvent
		}
		if _, err := engine.ProcessEvent(kind, &order, eng); err != nil {
			continue
		}
	}
	return time.Since(start)
}

// EventsPerSecond is a small convenience for reporting Run's result.
func EventsPerSecond(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}
