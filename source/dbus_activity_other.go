//go:build !linux

package source

import "github.com/amenti-labs/openentropy-sub002/timing"

// DBusActivity is a platform stub on non-Linux hosts: the source is
// always unavailable, matching spec §4.1's platform-constraint semantics
// (platform mismatch is ordinary unavailability, not an error).
type DBusActivity struct{}

// NewDBusActivity constructs the stub dbus_activity source.
func NewDBusActivity() *DBusActivity { return &DBusActivity{} }

func (s *DBusActivity) Info() Info {
	return Info{
		Name:         "dbus_activity",
		Description:  "SHA-256 digest of the session bus's currently owned name list, sampled repeatedly",
		Physics:      "The set and order of D-Bus well-known names in use fluctuates with desktop session activity unrelated to this process",
		Category:     CategoryIPC,
		Platform:     timing.PlatformLinux,
		Requirements: []timing.Requirement{timing.RequireDBus},
	}
}

func (s *DBusActivity) IsAvailable() bool { return false }

func (s *DBusActivity) Collect(nSamples int) ([]byte, error) { return []byte{}, nil }
