// Package tpm provides a minimal Trusted Platform Module random-number
// facility for the tpm_random entropy source.
//
// This is a deliberate trim of witnessd's internal/tpm package, which
// additionally implements monotonic counters, clock attestation, quotes,
// PCR reads, and key sealing for an evidentiary hardware-attestation
// chain — none of which are part of the entropy-harvesting core this
// module implements. Only the random-byte-generation facility a TPM 2.0
// device exposes (TPM2_GetRandom) survives the trim.
package tpm

// Provider abstracts TPM random-number generation so the tpm_random
// source can be tested against a fake and so non-Linux hosts (where this
// module does not implement a hardware backend) get a well-defined no-op.
type Provider interface {
	// Available reports whether a usable TPM device was found.
	Available() bool

	// GetRandom returns n bytes from the TPM's hardware RNG via
	// TPM2_GetRandom. It is only called when Available() is true.
	GetRandom(n int) ([]byte, error)
}

// NewProvider detects the best available TPM provider for the current
// platform. It never fails: on a host without a usable TPM, or on a
// platform this package does not implement a hardware backend for, it
// returns a no-op provider whose Available() is false.
func NewProvider() Provider {
	if p := detectPlatform(); p != nil {
		return p
	}
	return noopProvider{}
}

type noopProvider struct{}

func (noopProvider) Available() bool               { return false }
func (noopProvider) GetRandom(int) ([]byte, error) { return nil, errUnavailable }
