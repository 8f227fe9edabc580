package source

// registryEntry pairs a source constructor with the platform-detection
// behavior spec §9's design note calls for: "a static list of
// constructors ... rather than a runtime registry or reflection." Each
// entry's constructor is cheap to call (it must not itself perform slow
// probing beyond what IsAvailable already bounds).
type registryEntry struct {
	construct func() Source
	// autoDetect controls whether Auto() considers this source at all.
	autoDetect bool
}

// registry is the static catalog of the source implementations this
// package ships, except snmp_counters, which is not listed here at all
// (see below). pool.Auto() and pool.NewFromConfig() both range over it
// via AutoDetectable(); nothing in this package builds or discovers it at
// runtime.
var registry = []registryEntry{
	{construct: func() Source { return NewClockJitter() }, autoDetect: true},
	{construct: func() Source { return NewCASContention() }, autoDetect: true},
	{construct: func() Source { return NewMachTiming() }, autoDetect: true},
	{construct: func() Source { return NewProcessSnapshot() }, autoDetect: true},
	{construct: func() Source { return NewTPMRandom() }, autoDetect: true},
	{construct: func() Source { return NewIOJitter() }, autoDetect: true},
	{construct: func() Source { return NewDBusActivity() }, autoDetect: true},
	// snmp_counters needs a target address and community string; it has
	// no universal default worth guessing at, so it is never part of
	// automatic detection. Callers wire it in explicitly via AddSource.
}

// Registered constructs one instance of every source in the static
// catalog, regardless of availability or auto-detect eligibility. Used by
// callers (and tests) that want the full catalog rather than only the
// auto-detectable subset.
func Registered() []Source {
	out := make([]Source, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.construct())
	}
	return out
}

// AutoDetectable constructs one instance of every source eligible for
// automatic platform detection (spec §4.1's Auto() contract). Each
// instance's IsAvailable must still be consulted; construction alone does
// not imply usability.
func AutoDetectable() []Source {
	out := make([]Source, 0, len(registry))
	for _, e := range registry {
		if e.autoDetect {
			out = append(out, e.construct())
		}
	}
	return out
}
