package benchmarks

import (
	"testing"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/primitives"
)

func mustParse(b *testing.B, data []byte) primitives.MachineConfig {
	b.Helper()
	config, err := primitives.Parse(data)
	if err != nil {
		b.Fatal(err)
	}
	return config
}

// BenchmarkActionThroughput ticks a ring whose states all run a built-in
// action, with an observer attached.
func BenchmarkActionThroughput(b *testing.B) {
	config := GenFlatConfig(8)
	for _, sc := range config.States {
		sc.WithAction("incr ticks")
	}
	var observed uint64
	m, err := Load(config, tickfsm.WithObserver(func(tickfsm.Step) { observed++ }))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Tick(); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	if observed != uint64(b.N) {
		b.Fatalf("observed %d steps, want %d", observed, b.N)
	}
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "ticks/s")
}
