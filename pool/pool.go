// Package pool implements the entropy pool: the component that owns
// sources, the raw byte buffer, and the SHA-256 chaining state used to
// produce conditioned output (SPEC_FULL.md §3, §4.5).
//
// Grounded on witnessd's internal/hardware/entropy.go HardenedEntropyPool
// (mutex-guarded source list, per-source Stats() snapshots, mix/generate
// split between raw accumulation and block output) — restructured here
// around the pool's actual public contract (collect_all,
// collect_all_parallel, get_bytes, get_source_bytes, health_report)
// rather than the teacher's fixed reseed-interval daemon loop.
package pool

import (
	"sync"
	"time"

	"github.com/amenti-labs/openentropy-sub002/condition"
	"github.com/amenti-labs/openentropy-sub002/quality"
	"github.com/amenti-labs/openentropy-sub002/source"
	"github.com/amenti-labs/openentropy-sub002/timing"
)

// State is a source's position in the per-source state machine
// (SPEC_FULL.md §4.4): Ready -> Collecting -> {Healthy, Degraded} -> Collecting ...
type State int

const (
	Ready State = iota
	Collecting
	Healthy
	Degraded
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Collecting:
		return "collecting"
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// SourceState is the mutable, per-source record the pool maintains.
// Exclusive ownership of the wrapped source capability, and of every
// field below, belongs to whichever goroutine currently holds mu — the
// pool guarantees at most one collector touches a given source at a time
// (spec §4.4: "collect is not called concurrently on the same instance").
type SourceState struct {
	mu sync.Mutex

	src    source.Source
	info   source.Info
	weight float64

	state State

	totalBytes      uint64
	failures        uint64
	lastEntropy     float64
	lastMinEntropy  float64
	lastCollectTime time.Duration

	monitor *quality.OnlineMonitor
}

// Name returns the source's stable identifier without needing to
// re-invoke Info() (which must be cheap but isn't necessarily free).
func (ss *SourceState) Name() string { return ss.info.Name }

// Pool is the single owner of the entropy sources, the raw buffer, and
// the SHA-256 chaining state (spec §3 "PoolState"). The zero value is not
// usable; construct with New or Auto.
type Pool struct {
	sourcesMu sync.RWMutex
	sources   []*SourceState

	// bufMu guards buffer, chain, counter, totalRawBytes, and
	// totalOutputBytes — the pool-wide mutable state distinct from any
	// individual SourceState (spec §5's "separate mutex acquired only to
	// append bytes or emit output blocks").
	bufMu  sync.Mutex
	buffer []byte
	chain  *condition.State

	totalRawBytes    uint64
	totalOutputBytes uint64

	defaultSampleCount int
}

// New constructs an empty pool. If seed is non-nil its bytes SHA-256-seed
// the chaining state; otherwise the state is drawn from the OS randomness
// facility, matching condition.NewState's own contract.
func New(seed []byte) (*Pool, error) {
	chain, err := condition.NewState(seed)
	if err != nil {
		return nil, err
	}
	return &Pool{
		chain:              chain,
		defaultSampleCount: source.DefaultSampleCount,
	}, nil
}

// Auto constructs a pool seeded from the OS randomness facility and adds
// every auto-detectable source that reports itself available, each at
// weight 1.0 (spec §4.5 "auto()"). Sources that construct but fail
// is_available() are silently not added — spec §9's design note: "the
// decision not to report discovery failures is a design choice that
// should be preserved."
func Auto() (*Pool, error) {
	p, err := New(nil)
	if err != nil {
		return nil, err
	}
	for _, s := range source.AutoDetectable() {
		if !s.Info().Platform.Matches() {
			continue
		}
		if !s.IsAvailable() {
			continue
		}
		p.AddSource(s, 1.0)
	}
	return p, nil
}

// AddSource appends source to the pool's source list at the given
// weight. The pool only grows — sources are never removed (spec §3
// "the pool can grow but not shrink").
func (p *Pool) AddSource(s source.Source, weight float64) {
	ss := &SourceState{
		src:     s,
		info:    s.Info(),
		weight:  weight,
		state:   Ready,
		monitor: quality.NewOnlineMonitor(),
	}
	p.sourcesMu.Lock()
	p.sources = append(p.sources, ss)
	p.sourcesMu.Unlock()
}

// snapshotSources returns the current source list. The returned slice is
// a shallow copy safe to range over without holding sourcesMu — it is
// never mutated in place after AddSource (spec §3's append-only growth).
func (p *Pool) snapshotSources() []*SourceState {
	p.sourcesMu.RLock()
	defer p.sourcesMu.RUnlock()
	out := make([]*SourceState, len(p.sources))
	copy(out, p.sources)
	return out
}

// sourceByName finds a source by its stable name, or nil if none matches.
func (p *Pool) sourceByName(name string) *SourceState {
	p.sourcesMu.RLock()
	defer p.sourcesMu.RUnlock()
	for _, ss := range p.sources {
		if ss.info.Name == name {
			return ss
		}
	}
	return nil
}

// SourceNames returns the stable names of every added source, in
// insertion order.
func (p *Pool) SourceNames() []string {
	sources := p.snapshotSources()
	names := make([]string, len(sources))
	for i, ss := range sources {
		names[i] = ss.info.Name
	}
	return names
}

// SourceInfos returns the immutable metadata of every added source, in
// insertion order.
func (p *Pool) SourceInfos() []source.Info {
	sources := p.snapshotSources()
	infos := make([]source.Info, len(sources))
	for i, ss := range sources {
		infos[i] = ss.info
	}
	return infos
}

// appendBuffer appends data to the shared raw buffer under bufMu and
// advances total_raw_bytes. Never called while a source's own mutex is
// held and never called from inside a recover()-guarded source
// invocation, so a source panic can never leave this mutex held mid-use.
func (p *Pool) appendBuffer(data []byte) {
	if len(data) == 0 {
		return
	}
	p.bufMu.Lock()
	p.buffer = append(p.buffer, data...)
	p.totalRawBytes += uint64(len(data))
	p.bufMu.Unlock()
}

// drainBuffer removes and returns up to n bytes from the front of the
// shared buffer.
func (p *Pool) drainBuffer(n int) []byte {
	p.bufMu.Lock()
	defer p.bufMu.Unlock()
	if n > len(p.buffer) {
		n = len(p.buffer)
	}
	out := make([]byte, n)
	copy(out, p.buffer[:n])
	p.buffer = p.buffer[n:]
	return out
}

// bufferLen reports the current shared buffer size without draining it.
func (p *Pool) bufferLen() int {
	p.bufMu.Lock()
	defer p.bufMu.Unlock()
	return len(p.buffer)
}

// timingNanos is the Sources.Nanos implementation every real conditioning
// call through the pool uses; tests substitute their own condition.Sources
// to mock this, per spec §8's reproducibility scenario.
func timingNanos() uint64 { return timing.Tick() }
