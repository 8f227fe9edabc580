package source

import (
	"github.com/amenti-labs/openentropy-sub002/timing"
)

// ClockJitter implements Pattern A (Timing Delta): it captures successive
// tick-counter values around a trivial operation and keeps the low byte of
// each delta, then whitens short-range correlation with an adjacent XOR.
//
// Grounded on witnessd's internal/hardware/isolated_entropy.go
// CPUJitterEntropy.collectJitterSample (timestamp-delta-around-a-memory-op)
// adapted to the spec's exact Pattern A contract (LSB extraction + optional
// adjacent XOR, no further mixing inside the source).
type ClockJitter struct{}

// NewClockJitter constructs the clock_jitter source.
func NewClockJitter() *ClockJitter { return &ClockJitter{} }

func (s *ClockJitter) Info() Info {
	return Info{
		Name:                "clock_jitter",
		Description:         "Sub-microsecond jitter in the monotonic tick counter around a trivial memory operation",
		Physics:             "Scheduler quantum boundaries, cache-line effects, and clock-source granularity jitter the measured duration of an otherwise fixed-cost operation",
		Category:            CategoryTiming,
		Platform:            timing.PlatformAny,
		Requirements:        nil,
		EntropyRateEstimate: 4000,
	}
}

func (s *ClockJitter) IsAvailable() bool { return true }

func (s *ClockJitter) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}

	deltas := make([]uint64, nSamples)
	scratch := make([]byte, 256)
	for i := 0; i < nSamples; i++ {
		t1 := timing.Tick()
		for j := range scratch {
			scratch[j] = byte(j ^ i)
		}
		t2 := timing.Tick()
		deltas[i] = t2 - t1
	}

	raw := timing.LSBBytes(deltas)
	return timing.XORAdjacent(raw), nil
}
