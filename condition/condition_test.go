package condition

import (
	"encoding/hex"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockSources(nanos uint64, osRandomByte byte) Sources {
	return Sources{
		Nanos: func() uint64 { return nanos },
		OSRandom: func(buf []byte) error {
			for i := range buf {
				buf[i] = osRandomByte
			}
			return nil
		},
	}
}

func TestConditionRawPassthrough(t *testing.T) {
	input := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	out, err := Condition(input, 10, Raw, nil, Sources{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, out)
}

func TestConditionRawEmptyInput(t *testing.T) {
	out, err := Condition(nil, 0, Raw, nil, Sources{})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Condition(nil, 10, Raw, nil, Sources{})
	require.NoError(t, err)
	assert.Empty(t, out, "empty input with output_len>0 yields empty output, not an error")
}

func TestConditionRawIdempotent(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	once, err := Condition(input, 4, Raw, nil, Sources{})
	require.NoError(t, err)
	twice, err := Condition(once, 4, Raw, nil, Sources{})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestConditionVonNeumannBias(t *testing.T) {
	// Synthetic biased bit stream: P(bit=1) = 0.7, independent bits.
	r := rand.New(rand.NewSource(42))
	const nBytes = 125000 // 10^6 bits
	raw := make([]byte, nBytes)
	for i := range raw {
		var b byte
		for bit := 0; bit < 8; bit++ {
			b <<= 1
			if r.Float64() < 0.7 {
				b |= 1
			}
		}
		raw[i] = b
	}

	out := conditionVonNeumann(raw, len(raw)) // request as much as possible
	require.NotEmpty(t, out)

	var ones, total int
	for _, b := range out {
		for bit := 0; bit < 8; bit++ {
			if (b>>uint(bit))&1 == 1 {
				ones++
			}
			total++
		}
	}
	freq := float64(ones) / float64(total)
	assert.InDelta(t, 0.5, freq, 0.01, "debiased output frequency must be close to 0.5")
}

func TestConditionVonNeumannYieldBound(t *testing.T) {
	// Uniform random input: expected VN yield is at most 25% of input length
	// (each bit pair has at most 50% chance of emitting, and half the input
	// bits are consumed per emission at best).
	r := rand.New(rand.NewSource(7))
	raw := make([]byte, 10000)
	r.Read(raw)

	out := conditionVonNeumann(raw, len(raw))
	assert.LessOrEqual(t, len(out), len(raw)/4+1)
}

func TestConditionSha256ExactLength(t *testing.T) {
	state, err := NewState([]byte("seed"))
	require.NoError(t, err)

	for _, n := range []int{0, 1, 32, 33, 64, 1000} {
		out, err := Condition([]byte("raw input bytes"), n, Sha256, state, mockSources(0, 0xAA))
		require.NoError(t, err)
		assert.Len(t, out, n)
	}
}

func TestConditionSha256Deterministic(t *testing.T) {
	input := []byte("deterministic raw buffer")

	stateA, err := NewState([]byte{0})
	require.NoError(t, err)
	outA, err := Condition(input, 64, Sha256, stateA, mockSources(0, 0xAA))
	require.NoError(t, err)

	stateB, err := NewState([]byte{0})
	require.NoError(t, err)
	outB, err := Condition(input, 64, Sha256, stateB, mockSources(0, 0xAA))
	require.NoError(t, err)

	assert.Equal(t, outA, outB, "identical seed/input/nanos/os-random must reproduce bit-exact output")
}

// TestConditionSha256EmptyPoolGoldenVector reproduces spec end-to-end
// scenario 1 exactly: a pool seeded with 32 zero bytes, conditioning an
// empty raw buffer into 64 bytes of Sha256 output, with nanos mocked to
// the constant 0 and os-random mocked to the constant byte 0xAA. Unlike
// TestConditionSha256Deterministic (which only checks that two runs of
// this code agree with each other), this pins the literal expected bytes
// so a regression in byte ordering, chunk handling, or counter
// advancement is actually caught rather than silently self-consistent.
func TestConditionSha256EmptyPoolGoldenVector(t *testing.T) {
	state, err := NewState(make([]byte, 32))
	require.NoError(t, err)

	out, err := Condition(nil, 64, Sha256, state, mockSources(0, 0xAA))
	require.NoError(t, err)

	want, err := hex.DecodeString(
		"e3ab7f295c6eeaab2bdf1d623b557163403f0c281c952ec73c07a17c9a7dd9a8" +
			"4657d401b1b086d0223906224c5153b41104527470603d95876177927e8defba",
	)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestConditionSha256EmptyBufferStillProducesOutput(t *testing.T) {
	state, err := NewState(make([]byte, 32))
	require.NoError(t, err)
	out, err := Condition(nil, 128, Sha256, state, mockSources(1234, 0x01))
	require.NoError(t, err)
	assert.Len(t, out, 128, "empty raw buffer still yields output derived from chaining state + os-random")
}

func TestConditionSha256PropagatesOSRandomFailure(t *testing.T) {
	state, err := NewState(nil)
	require.NoError(t, err)

	sentinel := assert.AnError
	_, err = Condition([]byte("x"), 32, Sha256, state, Sources{
		Nanos:    func() uint64 { return 0 },
		OSRandom: func(buf []byte) error { return sentinel },
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestConditionSha256Uniformity(t *testing.T) {
	state, err := NewState([]byte("uniformity-seed"))
	require.NoError(t, err)

	out, err := Condition([]byte("fixed-input"), 10000, Sha256, state, mockSources(0, 0xAA))
	require.NoError(t, err)

	var counts [256]int
	for _, b := range out {
		counts[b]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	minEntropy := -math.Log2(float64(maxCount) / float64(len(out)))
	assert.GreaterOrEqual(t, minEntropy, 7.5)
}
