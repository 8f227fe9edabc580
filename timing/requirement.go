package timing

import (
	"net"
	"os/exec"
	"runtime"
	"time"
)

// Platform constrains a source to a host OS family.
type Platform int

const (
	PlatformAny Platform = iota
	PlatformMacOS
	PlatformLinux
	PlatformWindows
)

func (p Platform) Matches() bool {
	switch p {
	case PlatformAny:
		return true
	case PlatformMacOS:
		return runtime.GOOS == "darwin"
	case PlatformLinux:
		return runtime.GOOS == "linux"
	case PlatformWindows:
		return runtime.GOOS == "windows"
	default:
		return false
	}
}

// Requirement is a capability tag a source declares; it is evaluated by the
// platform probe during auto-detection.
type Requirement string

const (
	RequireTPM        Requirement = "tpm"
	RequireDBus       Requirement = "dbus"
	RequireFilesystem Requirement = "filesystem"
	RequireNetwork    Requirement = "network"
	RequireSubprocess Requirement = "subprocess"
)

// ProbeBudget bounds the combined time every availability check is allowed
// to take across all candidate sources, per spec: "must not exceed a few
// hundred milliseconds combined."
const ProbeBudget = 300 * time.Millisecond

// HasBinary reports whether path exists and is directly executable,
// without resolving it against $PATH — sources that shell out must use a
// deterministic absolute path per the subprocess contract.
func HasBinary(path string) bool {
	fi, err := exec.LookPath(path)
	return err == nil && fi != ""
}

// HasUDPReachable performs a bounded reachability probe against a UDP
// endpoint (used by Requirement=network sources such as snmp_counters). It
// never blocks for more than the dial timeout and does not itself exchange
// any protocol data — merely confirms the local stack can route to addr.
func HasUDPReachable(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("udp", addr, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
