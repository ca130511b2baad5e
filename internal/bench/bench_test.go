package bench

import (
	"testing"

	"lobcore/internal/engine"
)

func BenchmarkProcessEvent(b *testing.B) {
	eng := engine.New()
	gen := NewGenerator("REL", 1, 0.1)

	b.ResetTimer()
	Run(eng, gen, b.N)
}

func TestGeneratorProducesDistinctIDs(t *testing.T) {
	gen := NewGenerator("REL", 42, 0)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		order, isCancel := gen.Next()
		if isCancel {
			t.Fatalf("unexpected cancel with cancelChance 0")
		}
		if seen[order.ID] {
			t.Fatalf("duplicate id %s", order.ID)
		}
		seen[order.ID] = true
		if order.Symbol != "REL" {
			t.Fatalf("wrong symbol %s", order.Symbol)
		}
	}
}

func TestGeneratorEmitsCancelsOfItsOwnOrders(t *testing.T) {
	gen := NewGenerator("REL", 7, 1.0)
	first, isCancel := gen.Next()
	if isCancel {
		t.Fatalf("first event must be a New, nothing resting yet")
	}

	second, isCancel := gen.Next()
	if !isCancel {
		t.Fatalf("expected a cancel with cancelChance 1.0")
	}
	if second.ID != first.ID {
		t.Fatalf("expected cancel of %s, got %s", first.ID, second.ID)
	}
}
