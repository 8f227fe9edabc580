package quality

import "sync"

// HealthStatus is the online-test verdict fed into a source's healthy flag
// (SPEC_FULL §4.3, "ADDED: NIST on-line health tests"), supplementing the
// offline Shannon threshold from spec.md §3.
//
// Grounded on witnessd's internal/hardware/entropy_health.go Repetition
// Count and Adaptive Proportion tests (NIST SP 800-90B §4.4.1/§4.4.2),
// trimmed to the two tests this spec names and adapted to feed
// pool.State rather than the teacher's standalone health monitor.
type HealthStatus int

const (
	HealthUnknown HealthStatus = iota
	HealthHealthy
	HealthFailed
)

func (s HealthStatus) String() string {
	switch s {
	case HealthHealthy:
		return "healthy"
	case HealthFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RepetitionCountTest detects a stuck-at fault: the same byte value
// repeating cutoff or more times in a row.
type RepetitionCountTest struct {
	mu sync.Mutex

	cutoff      int
	lastValue   byte
	repeatCount int
	failures    uint64
	status      HealthStatus
}

// NewRepetitionCountTest creates a test with the given cutoff. A
// non-positive cutoff falls back to 21, the conservative default derived
// from alpha=2^-20 and a worst-case min-entropy assumption of H=1 bit.
func NewRepetitionCountTest(cutoff int) *RepetitionCountTest {
	if cutoff <= 0 {
		cutoff = 21
	}
	return &RepetitionCountTest{cutoff: cutoff, status: HealthUnknown}
}

func (t *RepetitionCountTest) Feed(b byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.repeatCount > 0 && b == t.lastValue {
		t.repeatCount++
		if t.repeatCount >= t.cutoff {
			t.failures++
			t.status = HealthFailed
		}
	} else {
		t.lastValue = b
		t.repeatCount = 1
		if t.status != HealthFailed {
			t.status = HealthHealthy
		}
	}
}

func (t *RepetitionCountTest) Status() HealthStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *RepetitionCountTest) FailureCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

// AdaptiveProportionTest detects bias via the proportion of a single value
// within a sliding window of windowSize samples.
type AdaptiveProportionTest struct {
	mu sync.Mutex

	windowSize int
	cutoff     int

	window     []byte
	windowPos  int
	windowFull bool
	counts     [256]int
	failures   uint64
	status     HealthStatus
}

// NewAdaptiveProportionTest creates a test for the given window/cutoff
// pair. Non-positive values fall back to the NIST-recommended W=512,
// C=325 pair for H=1, alpha=2^-20.
func NewAdaptiveProportionTest(windowSize, cutoff int) *AdaptiveProportionTest {
	if windowSize <= 0 {
		windowSize = 512
	}
	if cutoff <= 0 {
		cutoff = 325
	}
	return &AdaptiveProportionTest{
		windowSize: windowSize,
		cutoff:     cutoff,
		window:     make([]byte, windowSize),
		status:     HealthUnknown,
	}
}

func (t *AdaptiveProportionTest) Feed(b byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.windowFull {
		old := t.window[t.windowPos]
		t.counts[old]--
	}

	t.window[t.windowPos] = b
	t.counts[b]++
	t.windowPos++
	if t.windowPos >= t.windowSize {
		t.windowPos = 0
		t.windowFull = true
	}

	if t.counts[b] >= t.cutoff {
		t.failures++
		t.status = HealthFailed
		return
	}
	if t.status != HealthFailed {
		t.status = HealthHealthy
	}
}

func (t *AdaptiveProportionTest) Status() HealthStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *AdaptiveProportionTest) FailureCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

// OnlineMonitor bundles both tests and reduces them to a single healthy
// verdict, feeding both tests every byte a source produces.
type OnlineMonitor struct {
	rep *RepetitionCountTest
	apt *AdaptiveProportionTest
}

// NewOnlineMonitor creates a monitor with NIST-recommended defaults.
func NewOnlineMonitor() *OnlineMonitor {
	return &OnlineMonitor{
		rep: NewRepetitionCountTest(21),
		apt: NewAdaptiveProportionTest(512, 325),
	}
}

// Feed feeds every byte in data to both online tests.
func (m *OnlineMonitor) Feed(data []byte) {
	for _, b := range data {
		m.rep.Feed(b)
		m.apt.Feed(b)
	}
}

// Healthy reports whether neither test is currently in HealthFailed.
func (m *OnlineMonitor) Healthy() bool {
	return m.rep.Status() != HealthFailed && m.apt.Status() != HealthFailed
}
