package pool

import (
	"time"

	"github.com/amenti-labs/openentropy-sub002/quality"
)

// collectFromSource runs one collection round against ss: it invokes the
// wrapped source's Collect under panic isolation, times the call, scores
// the result, and updates ss's state machine (spec §4.4), then appends the
// collected bytes to the pool's shared buffer (the normal collect_all
// path). get_source_bytes uses collectIsolated instead, which bypasses the
// shared buffer entirely, per spec §8's source isolation property.
//
// The panic recover happens in collectAndScore, inside the per-source
// mutex and before
// any pool-wide mutex is touched — appendBuffer is only called afterward,
// with a plain byte slice, so a source panic can never occur while a pool
// mutex is held (resolving spec §5's "poisoned mutex" guidance for a
// language, Go, whose sync.Mutex has no poisoning concept: the isolation
// is achieved by ordering, not by a poison flag).
func (p *Pool) collectFromSource(ss *SourceState, n int) int {
	data := p.collectAndScore(ss, n)
	p.appendBuffer(data)
	return len(data)
}

// collectIsolated is collectFromSource's counterpart for get_source_bytes:
// it still updates ss's own counters and state (the source really was
// collected from, and its health numbers should reflect that) but never
// touches the pool's shared buffer, per spec §8's source isolation
// property.
func (p *Pool) collectIsolated(ss *SourceState, n int) []byte {
	return p.collectAndScore(ss, n)
}

// collectAndScore runs one collection round against ss under panic
// isolation, times the call, scores the result, and updates ss's state
// machine. It never touches the pool's shared buffer or chaining state —
// callers decide whether to append the returned bytes.
func (p *Pool) collectAndScore(ss *SourceState, n int) []byte {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.state = Collecting

	var data []byte
	var paniced bool
	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				paniced = true
			}
		}()
		data, _ = ss.src.Collect(n)
	}()
	ss.lastCollectTime = time.Since(start)

	if paniced || len(data) == 0 {
		ss.failures++
		ss.state = Degraded
		return nil
	}

	ss.totalBytes += uint64(len(data))
	ss.lastEntropy = quality.Shannon(data)
	ss.lastMinEntropy = quality.MinEntropy(data).MinEntropy
	ss.monitor.Feed(data)

	if ss.lastEntropy < 1.0 || !ss.monitor.Healthy() {
		ss.state = Degraded
	} else {
		ss.state = Healthy
	}

	return data
}

// CollectAll iterates every added source serially, in insertion order,
// collecting p.defaultSampleCount bytes from each and appending whatever
// comes back to the shared buffer. Returns the total bytes collected this
// round (spec §4.5 "collect_all").
func (p *Pool) CollectAll() int {
	return p.collectAllN(p.defaultSampleCount)
}

// CollectAllN is CollectAll with an explicit per-source sample count.
func (p *Pool) CollectAllN(n int) int {
	return p.collectAllN(n)
}

func (p *Pool) collectAllN(n int) int {
	total := 0
	for _, ss := range p.snapshotSources() {
		total += p.collectFromSource(ss, n)
	}
	return total
}

// CollectEnabled is CollectAll restricted to sources whose name appears
// in names (spec §4.5 "collect_enabled").
func (p *Pool) CollectEnabled(names []string) int {
	return p.CollectEnabledN(names, p.defaultSampleCount)
}

// CollectEnabledN is CollectEnabled with an explicit per-source sample
// count (spec §4.5 "collect_enabled_n").
func (p *Pool) CollectEnabledN(names []string, n int) int {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	total := 0
	for _, ss := range p.snapshotSources() {
		if !wanted[ss.info.Name] {
			continue
		}
		total += p.collectFromSource(ss, n)
	}
	return total
}

// CollectAllParallel spawns one worker per source, each performing the
// same per-source actions as CollectAll, and waits up to timeout for them
// to finish. Workers still running when timeout elapses are abandoned:
// the call returns immediately with the bytes gathered so far, without
// cancelling the still-running goroutines (the Source interface gives no
// cancellation hook — each source owns its own internal timeout budget
// per spec §4.4). An abandoned worker that later completes still updates
// its SourceState and still appends to the shared buffer; it is simply no
// longer waited on or counted by this call's return value, which matches
// spec §4.5's "their partial bytes are accepted if already written."
//
// Buffer-append ordering across sources is explicitly not guaranteed
// (spec §4.5's "parallel collect_all_parallel does NOT guarantee
// buffer-append ordering").
func (p *Pool) CollectAllParallel(timeout time.Duration) int {
	sources := p.snapshotSources()
	n := p.defaultSampleCount

	resultCh := make(chan int, len(sources))
	for _, ss := range sources {
		ss := ss
		go func() {
			resultCh <- p.collectFromSource(ss, n)
		}()
	}

	deadline := time.After(timeout)
	total := 0
	remaining := len(sources)
	for remaining > 0 {
		select {
		case got := <-resultCh:
			total += got
			remaining--
		case <-deadline:
			return total
		}
	}
	return total
}
