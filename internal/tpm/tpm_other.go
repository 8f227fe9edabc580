//go:build !linux

package tpm

// detectPlatform reports no hardware provider on platforms this package
// does not implement a TPM backend for (darwin, windows, and anything
// else). witnessd's own tpm_darwin.go/tpm_windows.go route TPM access
// through platform-specific attestation stacks (Secure Enclave, TBS) that
// exist to serve that repository's evidentiary chain, not raw random-byte
// generation; reproducing them here would not change what tpm_random can
// offer (a TPM2_GetRandom result), so non-Linux hosts simply report the
// source unavailable via the no-op provider.
func detectPlatform() Provider {
	return nil
}
