package pool

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amenti-labs/openentropy-sub002/condition"
	"github.com/amenti-labs/openentropy-sub002/quality"
	"github.com/amenti-labs/openentropy-sub002/source"
)

// constantSource always returns n copies of a fixed byte; used to drive
// deterministic quality-estimator assertions (spec §8 scenario 4).
type constantSource struct {
	value byte
}

func (s constantSource) Info() source.Info {
	return source.Info{Name: "constant_fixture", Description: "test fixture", Physics: "none", Category: source.CategorySystem}
}
func (s constantSource) IsAvailable() bool { return true }
func (s constantSource) Collect(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		out[i] = s.value
	}
	return out, nil
}

// countingSource emits bytes 0x00..0x63 (100 bytes) regardless of n,
// matching spec §8 scenario 5's "good source".
type countingSource struct{}

func (countingSource) Info() source.Info {
	return source.Info{Name: "counting_fixture", Description: "test fixture", Physics: "none", Category: source.CategorySystem}
}
func (countingSource) IsAvailable() bool { return true }
func (countingSource) Collect(n int) ([]byte, error) {
	out := make([]byte, 100)
	for i := range out {
		out[i] = byte(i)
	}
	return out, nil
}

// sleepingSource sleeps then emits a fixed number of bytes, used to drive
// the parallel-deadline scenario (spec §8 scenario 6).
type sleepingSource struct {
	sleep  time.Duration
	nbytes int
}

func (s sleepingSource) Info() source.Info {
	return source.Info{Name: "sleeping_fixture", Description: "test fixture", Physics: "none", Category: source.CategorySystem}
}
func (s sleepingSource) IsAvailable() bool { return true }
func (s sleepingSource) Collect(n int) ([]byte, error) {
	time.Sleep(s.sleep)
	return make([]byte, s.nbytes), nil
}

// panickingSource panics inside Collect, used by the boundary-isolation
// tests (spec §8 scenario 5). It lives here rather than in the source
// package's tests because _test.go symbols are not visible to other
// packages.
type panickingSource struct{}

func (panickingSource) Info() source.Info {
	return source.Info{Name: "panicking_source", Description: "test fixture", Physics: "none", Category: source.CategorySystem}
}
func (panickingSource) IsAvailable() bool { return true }
func (panickingSource) Collect(n int) ([]byte, error) {
	panic("simulated source fault")
}

func TestNewSeedsDeterministicChain(t *testing.T) {
	seed := make([]byte, 32)
	p1, err := New(seed)
	require.NoError(t, err)
	p2, err := New(seed)
	require.NoError(t, err)

	mockNanos := func() uint64 { return 0 }
	mockOSRandom := func(buf []byte) error {
		for i := range buf {
			buf[i] = 0xAA
		}
		return nil
	}

	out1, err := condition.Condition(nil, 64, condition.Sha256, p1.chain, condition.Sources{Nanos: mockNanos, OSRandom: mockOSRandom})
	require.NoError(t, err)
	out2, err := condition.Condition(nil, 64, condition.Sha256, p2.chain, condition.Sources{Nanos: mockNanos, OSRandom: mockOSRandom})
	require.NoError(t, err)

	assert.Equal(t, out1, out2, "identical seed, nanos, and os-random must reproduce identical output")
	assert.Len(t, out1, 64)
}

// TestNewEmptyPoolGoldenVectorSha256 reproduces spec end-to-end scenario
// 1 against the pool's own chain state (rather than a bare condition.State,
// which condition/condition_test.go already covers), pinning the literal
// 64-byte output so a regression in New's seed-to-chain transform or in
// the pool's wiring of Condition would actually be caught.
func TestNewEmptyPoolGoldenVectorSha256(t *testing.T) {
	p, err := New(make([]byte, 32))
	require.NoError(t, err)

	mockNanos := func() uint64 { return 0 }
	mockOSRandom := func(buf []byte) error {
		for i := range buf {
			buf[i] = 0xAA
		}
		return nil
	}

	out, err := condition.Condition(nil, 64, condition.Sha256, p.chain, condition.Sources{Nanos: mockNanos, OSRandom: mockOSRandom})
	require.NoError(t, err)

	want, err := hex.DecodeString(
		"e3ab7f295c6eeaab2bdf1d623b557163403f0c281c952ec73c07a17c9a7dd9a8" +
			"4657d401b1b086d0223906224c5153b41104527470603d95876177927e8defba",
	)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestGetBytesZeroIsEmpty(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	out, err := p.GetBytes(0, condition.Sha256)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetBytesShaFromEmptyBufferStillYieldsRequestedLength(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	out, err := p.GetBytes(128, condition.Sha256)
	require.NoError(t, err)
	assert.Len(t, out, 128, "empty pool must still produce output via chain state + os-random injection")
}

func TestQualityOfConditionedConstantSource(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(constantSource{value: 0xAA}, 1.0)

	got := p.CollectAllN(4096)
	require.Equal(t, 4096, got)

	out, err := p.GetBytes(4096, condition.Sha256)
	require.NoError(t, err)
	require.Len(t, out, 4096)

	report := quality.Evaluate(out)
	assert.GreaterOrEqual(t, report.Shannon, 7.9)
	assert.GreaterOrEqual(t, report.MinEntropy.MinEntropy, 7.5)
}

func TestSourcePanicIsolation(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(panickingSource{}, 1.0)
	p.AddSource(countingSource{}, 1.0)

	p.CollectAll()

	report := p.HealthReport()
	require.Len(t, report.Sources, 2)

	var panicking, counting *SourceHealth
	for i := range report.Sources {
		switch report.Sources[i].Name {
		case "panicking_source":
			panicking = &report.Sources[i]
		case "counting_fixture":
			counting = &report.Sources[i]
		}
	}
	require.NotNil(t, panicking)
	require.NotNil(t, counting)

	assert.Equal(t, uint64(1), panicking.Failures)
	assert.False(t, panicking.Healthy)
	assert.Equal(t, uint64(100), counting.TotalBytes)
	assert.Equal(t, 100, report.BufferSize)
}

func TestParallelDeadlineAbandonsSlowSources(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		p.AddSource(sleepingSource{sleep: 500 * time.Millisecond, nbytes: 16}, 1.0)
	}

	start := time.Now()
	got := p.CollectAllParallel(200 * time.Millisecond)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 300*time.Millisecond)
	assert.Less(t, got, 5*16)
}

func TestParallelZeroTimeoutReturnsImmediately(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(sleepingSource{sleep: 50 * time.Millisecond, nbytes: 16}, 1.0)

	start := time.Now()
	got := p.CollectAllParallel(0)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 40*time.Millisecond)
	assert.Equal(t, 0, got)
}

func TestSourceIsolationDoesNotTouchSharedBufferOrChain(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(countingSource{}, 1.0)

	before := p.bufferLen()
	_, err = p.GetSourceBytes("counting_fixture", 64, condition.Sha256)
	require.NoError(t, err)
	after := p.bufferLen()

	assert.Equal(t, before, after, "get_source_bytes must not grow the shared buffer")
}

func TestGetSourceBytesUnknownNameErrors(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	_, err = p.GetSourceBytes("does_not_exist", 16, condition.Sha256)
	assert.Error(t, err)
}

func TestCollectEnabledOnlyTouchesNamedSources(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(countingSource{}, 1.0)
	p.AddSource(constantSource{value: 0x01}, 1.0)

	got := p.CollectEnabledN([]string{"counting_fixture"}, 16)
	assert.Equal(t, 100, got) // countingSource ignores n and always emits 100

	report := p.HealthReport()
	for _, sh := range report.Sources {
		if sh.Name == "constant_fixture" {
			assert.Equal(t, uint64(0), sh.TotalBytes, "constant_fixture was not in the enabled list")
		}
	}
}

func TestFailuresMonotonicNonDecreasing(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(panickingSource{}, 1.0)

	p.CollectAll()
	p.CollectAll()
	p.CollectAll()

	report := p.HealthReport()
	require.Len(t, report.Sources, 1)
	assert.Equal(t, uint64(3), report.Sources[0].Failures)
}

func TestGetBytesRawAccountsTotalOutputBytes(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(countingSource{}, 1.0)
	p.CollectAllN(64)

	out, err := p.GetBytes(64, condition.Raw)
	require.NoError(t, err)

	report := p.HealthReport()
	assert.Equal(t, uint64(len(out)), report.TotalOutputBytes, "raw mode must still advance total_output_bytes")
}

func TestGetBytesVonNeumannAccountsTotalOutputBytes(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(countingSource{}, 1.0)
	p.CollectAllN(512)

	out, err := p.GetBytes(64, condition.VonNeumann)
	require.NoError(t, err)

	report := p.HealthReport()
	assert.Equal(t, uint64(len(out)), report.TotalOutputBytes, "von neumann mode must still advance total_output_bytes")
}

func TestHealthReportAggregatesMatchSourceTotals(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	p.AddSource(countingSource{}, 1.0)

	p.CollectAll()
	p.CollectAll()

	report := p.HealthReport()
	assert.Equal(t, uint64(200), report.TotalRawBytes)
	assert.Equal(t, uint64(200), report.Sources[0].TotalBytes)
}

func TestAutoProducesNoDiscoveryError(t *testing.T) {
	// Auto() never reports which candidates failed is_available(); the
	// only observable contract is that it succeeds and yields a pool
	// whose added sources all have distinct names (spec §9: "the decision
	// not to report discovery failures is a design choice that should be
	// preserved").
	p, err := Auto()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, name := range p.SourceNames() {
		assert.False(t, seen[name], "duplicate source name %q", name)
		seen[name] = true
	}
}
