package source

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os/exec"
	"runtime"
	"time"

	"github.com/amenti-labs/openentropy-sub002/timing"
)

// processSnapshotTimeout bounds the subprocess invocation; per spec §4.4,
// "apply a timeout appropriate to the source's rate estimate" — a process
// listing is cheap, so the timeout is generous only as a safety margin
// against an unexpectedly hung system utility, not as a rate-limiting
// mechanism.
const processSnapshotTimeout = 2 * time.Second

// ProcessSnapshot implements Pattern C (Snapshot Hash): it invokes a
// deterministic, absolute-path system utility producing fluctuating
// output (the running process table) and hashes the full output with
// SHA-256, accumulating digests across invocations.
//
// Grounded on witnessd's internal/hardware/platform_security.go use of
// exec.Command to capture runtime system state, and on
// internal/hardware/entropy_process.go's subprocess-wrapper/timeout
// pattern — adapted here to own its own timeout budget entirely within
// the source, per design note §9 ("these wrappers are NOT shared with the
// CLI's own subprocess logic").
type ProcessSnapshot struct {
	binary string
	args   []string
}

// NewProcessSnapshot resolves the deterministic absolute path to the host's
// process-listing utility. No PATH resolution is performed; an
// unresolvable path simply makes IsAvailable report false.
func NewProcessSnapshot() *ProcessSnapshot {
	switch runtime.GOOS {
	case "windows":
		return &ProcessSnapshot{binary: `C:\Windows\System32\tasklist.exe`}
	case "darwin":
		return &ProcessSnapshot{binary: "/bin/ps", args: []string{"-axo", "pid,ppid,pcpu,pmem,etime,command"}}
	default:
		return &ProcessSnapshot{binary: "/bin/ps", args: []string{"-eo", "pid,ppid,pcpu,pmem,etime,cmd"}}
	}
}

func (s *ProcessSnapshot) Info() Info {
	return Info{
		Name:                "process_snapshot",
		Description:         "SHA-256 digest of the running process table, sampled repeatedly",
		Physics:             "The process table's contents and ordering fluctuate with scheduling, I/O completion, and unrelated system activity between invocations",
		Category:            CategorySystem,
		Platform:            timing.PlatformAny,
		Requirements:        []timing.Requirement{timing.RequireSubprocess},
		EntropyRateEstimate: 256,
	}
}

func (s *ProcessSnapshot) IsAvailable() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}

func (s *ProcessSnapshot) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}

	var out []byte
	for len(out) < nSamples {
		digest, err := s.snapshotOnce()
		if err != nil {
			// Transient failure: return whatever has accumulated so far,
			// per spec §4.4 ("zero indicates transient failure... the
			// source remains in the pool").
			return out, nil
		}
		out = append(out, digest[:]...)
	}

	if len(out) > nSamples {
		out = out[:nSamples]
	}
	return out, nil
}

func (s *ProcessSnapshot) snapshotOnce() ([32]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), processSnapshotTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, s.args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return [32]byte{}, err
	}

	return sha256.Sum256(stdout.Bytes()), nil
}
