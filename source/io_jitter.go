package source

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amenti-labs/openentropy-sub002/timing"
)

// ioJitterTimeout bounds how long a single round trip will wait for the
// filesystem watcher to observe its own write before treating that round
// as a miss (transient failure for that sample only).
const ioJitterTimeout = 50 * time.Millisecond

// IOJitter implements Pattern D (Cross-Domain Beat): it interleaves a
// tight CPU loop with a temp-file write observed through an fsnotify
// watcher, timing the round trip between dispatching the write and the
// watcher reporting it. The beat between the CPU's clock domain and the
// kernel's filesystem-event delivery path carries more entropy than
// either alone.
//
// Grounded on the fsnotify usage pattern in witnessd's file-watching core
// (the daemon's reason for existing is watching files for changes);
// repurposed here as a timing probe rather than a change-detection
// mechanism.
type IOJitter struct {
	dir string
}

// NewIOJitter constructs the io_jitter source, reserving a private
// subdirectory of the OS temp directory for its probe files.
func NewIOJitter() *IOJitter {
	dir := filepath.Join(os.TempDir(), "openentropy-io-jitter")
	_ = os.MkdirAll(dir, 0o700)
	return &IOJitter{dir: dir}
}

func (s *IOJitter) Info() Info {
	return Info{
		Name:                "io_jitter",
		Description:         "Round-trip timing between a dispatched filesystem write and the kernel's change notification",
		Physics:             "The beat between the CPU's clock domain and the filesystem event-delivery path (page cache flush, inotify/FSEvents/ReadDirectoryChanges queuing) is not explained by either domain alone",
		Category:            CategoryIO,
		Platform:            timing.PlatformAny,
		Requirements:        []timing.Requirement{timing.RequireFilesystem},
		EntropyRateEstimate: 500,
	}
}

func (s *IOJitter) IsAvailable() bool {
	fi, err := os.Stat(s.dir)
	return err == nil && fi.IsDir()
}

func (s *IOJitter) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}
	if !s.IsAvailable() {
		return []byte{}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return []byte{}, nil
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return []byte{}, nil
	}

	deltas := make([]uint64, 0, nSamples)
	probePath := filepath.Join(s.dir, "probe")

	maxAttempts := nSamples * 4
	for attempt := 0; len(deltas) < nSamples && attempt < maxAttempts; attempt++ {
		// CPU-domain work dispatched immediately before the I/O-domain
		// operation, so the measured delta reflects both domains' beat.
		var acc uint64
		for i := 0; i < 997; i++ {
			acc = acc*1103515245 + uint64(i)
		}

		t1 := timing.Tick()
		if err := os.WriteFile(probePath, []byte{byte(acc)}, 0o600); err != nil {
			break
		}

		select {
		case <-watcher.Events:
			t2 := timing.Tick()
			deltas = append(deltas, t2-t1)
		case <-time.After(ioJitterTimeout):
			// Miss: this round contributes nothing, try the next one.
		case err := <-watcher.Errors:
			if err != nil {
				return timing.LSBBytes(deltas), nil
			}
		}
	}

	_ = os.Remove(probePath)
	return timing.LSBBytes(deltas), nil
}
