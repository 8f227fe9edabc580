package source

import (
	"github.com/amenti-labs/openentropy-sub002/internal/tpm"
	"github.com/amenti-labs/openentropy-sub002/timing"
)

// TPMRandom is a hardware-rooted source reading TPM2_GetRandom through the
// internal/tpm Provider abstraction. Per spec §4.4, "no source performs
// its own whitening or conditioning" — these are the TPM's raw output
// bytes, exactly as the device returns them.
//
// Grounded on, and a significant trim of, witnessd's internal/tpm package:
// the teacher's Provider exposes a full attestation surface (counters,
// quotes, PCRs, sealing) for an evidentiary chain that is out of scope
// here; this source only uses the random-byte-generation facility a TPM
// 2.0 device exposes.
type TPMRandom struct {
	provider tpm.Provider
}

// NewTPMRandom constructs the tpm_random source, detecting a platform TPM
// provider (or the no-op fallback on hosts without one).
func NewTPMRandom() *TPMRandom {
	return &TPMRandom{provider: tpm.NewProvider()}
}

func (s *TPMRandom) Info() Info {
	return Info{
		Name:                "tpm_random",
		Description:         "Raw bytes from a TPM 2.0 device's hardware random number generator",
		Physics:             "On-chip thermal/ring-oscillator noise internal to the TPM, exposed via the TPM2_GetRandom command",
		Category:            CategorySystem,
		Platform:            timing.PlatformAny,
		Requirements:        []timing.Requirement{timing.RequireTPM},
		EntropyRateEstimate: 8000,
	}
}

func (s *TPMRandom) IsAvailable() bool {
	return s.provider != nil && s.provider.Available()
}

func (s *TPMRandom) Collect(nSamples int) ([]byte, error) {
	if nSamples <= 0 {
		return []byte{}, nil
	}
	if !s.IsAvailable() {
		return []byte{}, nil
	}
	return s.provider.GetRandom(nSamples)
}
