//go:build linux

package source

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/amenti-labs/openentropy-sub002/timing"
)

// dbusCallTimeout bounds each ListNames round trip.
const dbusCallTimeout = 500 * time.Millisecond

func timeoutContext() context.Context {
	ctx, _ := context.WithTimeout(context.Background(), dbusCallTimeout)
	return ctx
}

// DBusActivity implements Pattern C (Snapshot Hash) on Linux: it queries
// org.freedesktop.DBus.ListNames on the session bus and hashes the reply.
// The reply's ordering and the set of currently-owned well-known names
// fluctuates with unrelated desktop/session activity between calls.
//
// Grounded on witnessd's use of github.com/godbus/dbus/v5 elsewhere in the
// teacher repository for desktop-session integration; adapted here from a
// notification/IPC client into a snapshot-hash entropy probe.
type DBusActivity struct{}

// NewDBusActivity constructs the dbus_activity source.
func NewDBusActivity() *DBusActivity { return &DBusActivity{} }

func (s *DBusActivity) Info() Info {
	return Info{
		Name:                "dbus_activity",
		Description:         "SHA-256 digest of the session bus's currently owned name list, sampled repeatedly",
		Physics:             "The set and order of D-Bus well-known names in use fluctuates with desktop session activity unrelated to this process",
		Category:            CategoryIPC,
		Platform:            timing.PlatformLinux,
		Requirements:        []timing.Requirement{timing.RequireDBus},
		EntropyRateEstimate: 128,
	}
}

func (s *DBusActivity) IsAvailable() bool {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(timeoutContext()))
	if err != nil {
		return false
	}
	defer conn.Close()
	return true
}

func (s *DBusActivity) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}

	conn, err := dbus.ConnectSessionBus(dbus.WithContext(timeoutContext()))
	if err != nil {
		return []byte{}, nil
	}
	defer conn.Close()

	var out []byte
	for len(out) < nSamples {
		var names []string
		call := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0)
		if call.Err != nil {
			break
		}
		if err := call.Store(&names); err != nil {
			break
		}

		h := sha256.New()
		for _, n := range names {
			h.Write([]byte(n))
		}
		digest := h.Sum(nil)
		out = append(out, digest...)

		time.Sleep(time.Millisecond)
	}

	if len(out) > nSamples {
		out = out[:nSamples]
	}
	return out, nil
}
