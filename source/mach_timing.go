package source

import (
	"github.com/amenti-labs/openentropy-sub002/condition"
	"github.com/amenti-labs/openentropy-sub002/timing"
)

// machTimingOversample is the factor by which MachTiming over-collects
// before debiasing, per spec §4.4 Pattern E ("typically 4-16"; tuned so
// post-debias output reliably meets the requested length).
const machTimingOversample = 8

// MachTiming implements Pattern E (Oversample and Debias). Its raw tick
// deltas are known biased (clock-source granularity means some delta
// values are far more likely than others), so it over-collects, applies
// Von Neumann debiasing, then chains the debiased stream through the same
// SHA-256 construction the pool uses for output, using an
// instance-private chaining state so running this source standalone
// (get_source_bytes) cannot perturb the pool's own state (spec §8,
// "source isolation").
//
// The name follows the teacher/physics-catalog convention (mach_timing)
// even though the tick source is the cross-platform monotonic counter
// from the timing package rather than literally mach_absolute_time on
// non-Darwin hosts — see SPEC_FULL.md §4.4.
type MachTiming struct {
	state *condition.State
}

// NewMachTiming constructs the mach_timing source with its own chaining
// state, seeded from the OS randomness facility.
func NewMachTiming() *MachTiming {
	state, err := condition.NewState(nil)
	if err != nil {
		// OS-randomness failure here is the one unrecoverable condition in
		// the spec's error taxonomy; a zero state is still well-defined
		// (deterministic but not private), so we degrade rather than panic
		// during construction — the first real output call will attempt
		// the OS read again and propagate if it's still failing.
		state = &condition.State{}
	}
	return &MachTiming{state: state}
}

func (s *MachTiming) Info() Info {
	return Info{
		Name:                "mach_timing",
		Description:         "Oversampled, debiased, SHA-256-chained high-resolution tick jitter",
		Physics:             "Clock-source granularity biases raw tick deltas; oversampling plus Von Neumann debiasing removes that bias before final whitening",
		Category:            CategoryTiming,
		Platform:            timing.PlatformAny,
		Requirements:        nil,
		EntropyRateEstimate: 1500,
	}
}

func (s *MachTiming) IsAvailable() bool { return true }

func (s *MachTiming) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}

	rawCount := nSamples * machTimingOversample
	deltas := make([]uint64, rawCount)
	for i := 0; i < rawCount; i++ {
		t1 := timing.Tick()
		t2 := timing.Tick()
		for t2 == t1 {
			t2 = timing.Tick()
		}
		deltas[i] = t2 - t1
	}

	raw := timing.LSBBytes(deltas)

	debiased := debiasForCollect(raw, nSamples)
	if len(debiased) == 0 {
		return []byte{}, nil
	}

	out, err := condition.Condition(debiased, nSamples, condition.Sha256, s.state, condition.Sources{
		Nanos: timing.Tick,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// debiasForCollect runs Von Neumann debiasing and returns up to want
// bytes; the caller treats a short result as a normal, truncated yield
// (spec §4.2: "If the debiased stream is shorter than requested, the
// output is truncated").
func debiasForCollect(raw []byte, want int) []byte {
	out, _ := condition.Condition(raw, want, condition.VonNeumann, nil, condition.Sources{})
	return out
}
