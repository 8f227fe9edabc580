package source

import (
	"math/rand"

	"github.com/amenti-labs/openentropy-sub002/timing"
)

// casBufferSize is sized to exceed a typical last-level-cache slice so that
// the pseudo-random rounds reliably miss cache and hit DRAM, per spec §4.4
// Pattern B's cache-contention variant ("buffer spans a specific cache
// level").
const casBufferSize = 8 * 1024 * 1024 // 8 MiB

// CASContention implements Pattern B (Microarchitectural Probing), the
// cache-contention variant: it alternates sequential ("friendly") and
// pseudo-random ("hostile") access rounds over a large buffer, timing each
// round. The alternation amplifies the jitter contributed by cache/DRAM
// row-buffer state that a purely sequential scan would hide.
//
// Grounded on the oversampling/buffer-touching style of witnessd's
// internal/hardware/isolated_entropy.go jitter collection, generalized
// here to the explicit sequential/random alternation the spec's Pattern B
// describes, using volatile-style reads (XORed into a local accumulator
// that is written back into the buffer after every read) to defeat
// compiler elision.
type CASContention struct {
	buf []byte
}

// NewCASContention constructs the cas_contention source, allocating its
// probe buffer immediately so repeated Collect calls don't pay allocation
// cost.
func NewCASContention() *CASContention {
	buf := make([]byte, casBufferSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	return &CASContention{buf: buf}
}

func (s *CASContention) Info() Info {
	return Info{
		Name:                "cas_contention",
		Description:         "Timing variance from alternating sequential and pseudo-random memory access patterns over a cache/DRAM-sized buffer",
		Physics:             "Cache associativity conflicts and DRAM row-buffer misses under a hostile (random) access pattern introduce timing variance absent from a sequential scan",
		Category:            CategoryMicroarch,
		Platform:            timing.PlatformAny,
		Requirements:        nil,
		EntropyRateEstimate: 2000,
	}
}

func (s *CASContention) IsAvailable() bool { return len(s.buf) == casBufferSize }

func (s *CASContention) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}

	r := rand.New(rand.NewSource(timing.Tick()))
	mask := len(s.buf) - 1
	deltas := make([]uint64, nSamples)

	var acc byte
	seqPos := 0
	for i := 0; i < nSamples; i++ {
		t1 := timing.Tick()
		if i%2 == 0 {
			// Friendly: sequential read, wrapping.
			seqPos = (seqPos + 64) & mask
			acc ^= s.buf[seqPos]
		} else {
			// Hostile: pseudo-random read across the full buffer.
			off := r.Intn(len(s.buf))
			acc ^= s.buf[off]
		}
		// Feed the accumulator back so the compiler cannot hoist the read.
		s.buf[0] = acc
		t2 := timing.Tick()
		deltas[i] = t2 - t1
	}

	return timing.LSBBytes(deltas), nil
}
