package source

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/amenti-labs/openentropy-sub002/timing"
)

// snmpCounterTimeout bounds each individual GET round trip.
const snmpCounterTimeout = 1 * time.Second

// snmpInterSampleDelay separates the two polls of a single round so the
// counters have a chance to have moved between them.
const snmpInterSampleDelay = 20 * time.Millisecond

// snmpOIDs are well-known, widely-implemented counters present on almost
// any SNMP agent (sysUpTime and the first ifTable row's ifInOctets);
// their absolute values are not sensitive, only their deltas are sampled.
var snmpOIDs = []string{
	"1.3.6.1.2.1.1.3.0",    // sysUpTime.0
	"1.3.6.1.2.1.2.2.1.10.1", // ifInOctets.1
}

// SNMPCounters implements a Pattern C/D hybrid (Network category): it
// polls a configured SNMP agent's counters twice, a short sleep apart, and
// hashes the concatenated counter deltas plus the round-trip timings. The
// agent's counters advance according to unrelated network traffic and
// device-internal scheduling; the round trip itself rides the same
// cross-domain beat as io_jitter, but over the network stack instead of
// the filesystem.
//
// Grounded on the gosnmp dependency present across the example corpus for
// polling device counters; adapted here from a monitoring client into an
// entropy probe. This source requires explicit configuration (there is no
// universal "well-known" SNMP agent the way there is a process table or
// session bus), so it is never part of platform auto-detection and must
// be added explicitly via AddSource.
type SNMPCounters struct {
	target    string
	community string
	available bool
}

// NewSNMPCounters constructs the snmp_counters source against the given
// agent address (host:port) and community string. Reachability is probed
// once at construction time; IsAvailable reflects that probe rather than
// re-dialing on every call, since repeated UDP probes are themselves a
// (small) network side effect.
func NewSNMPCounters(target, community string) *SNMPCounters {
	s := &SNMPCounters{target: target, community: community}
	s.available = timing.HasUDPReachable(target, 200*time.Millisecond)
	return s
}

func (s *SNMPCounters) Info() Info {
	return Info{
		Name:                "snmp_counters",
		Description:         "Hash of paired SNMP counter deltas and their round-trip timings from a configured agent",
		Physics:             "Device interface and uptime counters advance according to network traffic and agent-internal scheduling unrelated to this process's polling",
		Category:            CategoryNetwork,
		Platform:            timing.PlatformAny,
		Requirements:        []timing.Requirement{timing.RequireNetwork},
		EntropyRateEstimate: 64,
	}
}

func (s *SNMPCounters) IsAvailable() bool {
	return s.available
}

func (s *SNMPCounters) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}
	if !s.available {
		return []byte{}, nil
	}

	var out []byte
	for len(out) < nSamples {
		delta, err := s.roundOnce()
		if err != nil {
			// Transient failure: whatever accumulated so far stands, per
			// spec §4.4's zero-means-transient-failure contract.
			return out, nil
		}
		out = append(out, delta...)
	}

	if len(out) > nSamples {
		out = out[:nSamples]
	}
	return out, nil
}

func (s *SNMPCounters) roundOnce() ([]byte, error) {
	params := &gosnmp.GoSNMP{
		Target:    hostOnly(s.target),
		Port:      portOnly(s.target),
		Community: s.community,
		Version:   gosnmp.Version2c,
		Timeout:   snmpCounterTimeout,
		Retries:   0,
	}

	if err := params.Connect(); err != nil {
		return nil, err
	}
	defer params.Conn.Close()

	t1 := timing.Tick()
	first, err := params.Get(snmpOIDs)
	if err != nil {
		return nil, err
	}
	tick1 := timing.Tick() - t1

	time.Sleep(snmpInterSampleDelay)

	t2 := timing.Tick()
	second, err := params.Get(snmpOIDs)
	if err != nil {
		return nil, err
	}
	tick2 := timing.Tick() - t2

	deltas := make([]uint64, 0, len(snmpOIDs)+2)
	for i := range snmpOIDs {
		a := counterValue(first.Variables[i])
		b := counterValue(second.Variables[i])
		deltas = append(deltas, b-a)
	}
	deltas = append(deltas, tick1, tick2)

	h := sha256.New()
	var buf [8]byte
	for _, d := range deltas {
		binary.BigEndian.PutUint64(buf[:], d)
		h.Write(buf[:])
	}
	return h.Sum(nil), nil
}

func counterValue(v gosnmp.SnmpPDU) uint64 {
	switch val := v.Value.(type) {
	case uint:
		return uint64(val)
	case uint32:
		return uint64(val)
	case uint64:
		return val
	case int:
		return uint64(val)
	default:
		return 0
	}
}

// hostOnly and portOnly do a minimal host:port split without pulling in
// net.SplitHostPort's error handling, since target is validated by the
// HasUDPReachable probe at construction time already.
func hostOnly(target string) string {
	for i := len(target) - 1; i >= 0; i-- {
		if target[i] == ':' {
			return target[:i]
		}
	}
	return target
}

func portOnly(target string) uint16 {
	for i := len(target) - 1; i >= 0; i-- {
		if target[i] == ':' {
			port := target[i+1:]
			var n uint16
			for _, c := range port {
				if c < '0' || c > '9' {
					return 161
				}
				n = n*10 + uint16(c-'0')
			}
			return n
		}
	}
	return 161
}
