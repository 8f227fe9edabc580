package pool

import (
	"fmt"

	"github.com/amenti-labs/openentropy-sub002/condition"
	"github.com/amenti-labs/openentropy-sub002/timing"
)

// vonNeumannInputMultiple bounds how much raw input GetBytes drains
// before applying VonNeumann conditioning. The mode's expected yield is
// at most 25% of input length (spec §4.2); draining 8x the requested
// output gives two full debiasing factors of safety margin above the
// worst case, so a well-stocked buffer reliably satisfies the request
// without over-draining a thin one.
const vonNeumannInputMultiple = 8

// GetRawBytes drains up to n bytes from the shared buffer. If the buffer
// holds fewer than n bytes, CollectAll is invoked once and the drain is
// retried — the result may still be short of n on persistent source
// failure (spec §4.5 "get_raw_bytes").
func (p *Pool) GetRawBytes(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if p.bufferLen() < n {
		p.CollectAll()
	}
	return p.drainBuffer(n)
}

// GetRandomBytes is equivalent to GetBytes(n, condition.Sha256) (spec
// §4.5 "get_random_bytes").
func (p *Pool) GetRandomBytes(n int) ([]byte, error) {
	return p.GetBytes(n, condition.Sha256)
}

// GetBytes drains raw bytes from the shared buffer and conditions them
// under mode, returning exactly n bytes for Sha256 (guaranteed by the
// counter-mode construction even from an empty buffer) or up to n bytes
// for Raw and VonNeumann (spec §4.5 "get_bytes").
//
// How much raw input to drain before conditioning is left unspecified by
// spec.md; this pool drains exactly n bytes for Raw, 8n bytes for
// VonNeumann (see vonNeumannInputMultiple), and up to n bytes
// (best-effort, possibly zero) for Sha256, since the chaining
// construction's output length does not depend on input availability.
func (p *Pool) GetBytes(n int, mode condition.Mode) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}

	switch mode {
	case condition.Raw:
		raw := p.GetRawBytes(n)
		out, err := condition.Condition(raw, n, condition.Raw, nil, condition.Sources{})
		if err != nil {
			return nil, err
		}
		p.recordOutputBytes(len(out))
		return out, nil
	case condition.VonNeumann:
		raw := p.GetRawBytes(n * vonNeumannInputMultiple)
		out, err := condition.Condition(raw, n, condition.VonNeumann, nil, condition.Sources{})
		if err != nil {
			return nil, err
		}
		p.recordOutputBytes(len(out))
		return out, nil
	default:
		raw := p.GetRawBytes(n)
		return p.conditionSha256Locked(raw, n)
	}
}

// recordOutputBytes advances total_output_bytes under bufMu (spec §8:
// "total_output_bytes equals the sum of output byte counts returned by
// get_bytes"), for whichever mode produced the bytes — Raw and VonNeumann
// go through this directly; conditionSha256Locked folds the same
// accounting into its own bufMu section since it already holds the lock.
func (p *Pool) recordOutputBytes(n int) {
	p.bufMu.Lock()
	p.totalOutputBytes += uint64(n)
	p.bufMu.Unlock()
}

// conditionSha256Locked applies the pool's own chaining state to raw,
// producing exactly n bytes. The chaining state is pool-wide mutable
// state (spec §3 "state"), so every call serializes on bufMu even though
// the heavy lifting (SHA-256) doesn't touch the buffer itself — this
// matches spec §5's "internal chaining state guarded by a separate mutex
// acquired only to append bytes or emit output blocks."
func (p *Pool) conditionSha256Locked(raw []byte, n int) ([]byte, error) {
	p.bufMu.Lock()
	defer p.bufMu.Unlock()

	out, err := condition.Condition(raw, n, condition.Sha256, p.chain, condition.Sources{Nanos: timingNanos})
	if err != nil {
		return nil, fmt.Errorf("pool: OS randomness facility failed: %w", err)
	}
	p.totalOutputBytes += uint64(len(out))
	return out, nil
}

// GetSourceRawBytes collects n bytes from exactly one named source,
// bypassing the shared buffer entirely (spec §4.5
// "get_source_raw_bytes"). Returns an error only if no source with that
// name has been added to the pool.
func (p *Pool) GetSourceRawBytes(name string, n int) ([]byte, error) {
	ss := p.sourceByName(name)
	if ss == nil {
		return nil, fmt.Errorf("pool: no source named %q", name)
	}
	if n <= 0 {
		return []byte{}, nil
	}
	return p.collectIsolated(ss, n), nil
}

// GetSourceBytes collects raw bytes from exactly one named source and
// conditions them under mode, using a private chaining state rather than
// the pool's own (spec §8's source-isolation property: "does not modify
// the pool's shared buffer nor its chaining state").
func (p *Pool) GetSourceBytes(name string, n int, mode condition.Mode) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}

	raw, err := p.GetSourceRawBytes(name, n)
	if err != nil {
		return nil, err
	}

	switch mode {
	case condition.Raw:
		return condition.Condition(raw, n, condition.Raw, nil, condition.Sources{})
	case condition.VonNeumann:
		// A single collect() call already yielded everything this source
		// is going to give for this request; VonNeumann simply debiases
		// whatever came back rather than re-requesting a larger sample,
		// since source isolation precludes touching the shared buffer to
		// top it up.
		return condition.Condition(raw, n, condition.VonNeumann, nil, condition.Sources{})
	default:
		privateState, err := condition.NewState(nil)
		if err != nil {
			return nil, fmt.Errorf("pool: OS randomness facility failed: %w", err)
		}
		return condition.Condition(raw, n, condition.Sha256, privateState, condition.Sources{Nanos: timingNanos})
	}
}
