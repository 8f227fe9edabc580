// Package source defines the entropy source abstraction (spec §3, §4.4) and
// a representative catalog of source implementations covering each of the
// five collection patterns.
package source

import "github.com/amenti-labs/openentropy-sub002/timing"

// Category classifies the physical phenomenon a source measures.
type Category string

const (
	CategoryThermal    Category = "thermal"
	CategoryTiming     Category = "timing"
	CategoryScheduling Category = "scheduling"
	CategoryIO         Category = "io"
	CategoryIPC        Category = "ipc"
	CategoryMicroarch  Category = "microarch"
	CategoryGPU        Category = "gpu"
	CategoryNetwork    Category = "network"
	CategorySystem     Category = "system"
	CategoryComposite  Category = "composite"
	CategorySignal     Category = "signal"
	CategorySensor     Category = "sensor"
)

// Info is the immutable metadata describing one source type (spec §3
// "SourceInfo"). A Source's Info() must return the same value for the
// lifetime of the instance.
type Info struct {
	Name                string
	Description         string
	Physics             string
	Category            Category
	Platform            timing.Platform
	Requirements        []timing.Requirement
	EntropyRateEstimate float64 // bits per second, a hint only
	Composite           bool
}

// Source is the capability every entropy probe implements (spec §3).
// Implementations must not panic across the pool boundary in a way that
// escapes Collect's contract — panics inside Collect are caught and
// recorded by the pool, not by the source itself, per spec §4.4: "the pool
// catches and records faults."
type Source interface {
	// Info returns the source's immutable metadata.
	Info() Info

	// IsAvailable performs a fast, side-effect-free probe of whether this
	// source can currently be used. Must complete well within the combined
	// platform-detection budget (timing.ProbeBudget split across
	// candidates).
	IsAvailable() bool

	// Collect returns up to nSamples bytes of raw, unconditioned output.
	// Returning fewer bytes than requested — including zero — signals a
	// transient failure and is not an error; it must never block past a
	// reasonable, source-specific timeout.
	Collect(nSamples int) ([]byte, error)
}

// DefaultSampleCount is the sample count collect_all uses when none is
// specified (spec §9 Open Question: "pick a value in the 1000-5000 range
// and document it"). 2048 sits in the middle of that range and matches a
// single SHA-256 conditioning block's typical chunk multiple.
const DefaultSampleCount = 2048
