//go:build linux

package tpm

import (
	"os"
	"sync"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
)

// devicePaths are tried in order of preference, matching witnessd's
// internal/tpm/tpm_linux.go detection order (resource manager first).
var devicePaths = []string{
	"/dev/tpmrm0",
	"/dev/tpm0",
}

// hardwareProvider implements Provider against a real Linux TPM 2.0
// device, opened lazily and kept open across calls.
type hardwareProvider struct {
	mu         sync.Mutex
	devicePath string
	tr         transport.TPM
}

func detectPlatform() Provider {
	for _, path := range devicePaths {
		if _, err := os.Stat(path); err == nil {
			return &hardwareProvider{devicePath: path}
		}
	}
	return nil
}

func (h *hardwareProvider) Available() bool {
	_, err := os.Stat(h.devicePath)
	return err == nil
}

func (h *hardwareProvider) open() (transport.TPM, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tr != nil {
		return h.tr, nil
	}
	tr, err := transport.OpenTPM(h.devicePath)
	if err != nil {
		return nil, err
	}
	h.tr = tr
	return tr, nil
}

// GetRandom issues TPM2_GetRandom, chunking requests to the command's
// maximum digest size and concatenating the results.
func (h *hardwareProvider) GetRandom(n int) ([]byte, error) {
	tr, err := h.open()
	if err != nil {
		return nil, err
	}

	const maxChunk = 32 // TPM2B_DIGEST is capped at SHA-256 output size on most devices
	out := make([]byte, 0, n)
	for len(out) < n {
		want := n - len(out)
		if want > maxChunk {
			want = maxChunk
		}

		cmd := tpm2.GetRandom{BytesRequested: uint16(want)}
		rsp, err := cmd.Execute(tr)
		if err != nil {
			return out, err
		}
		chunk := rsp.RandomBytes.Buffer
		if len(chunk) == 0 {
			break
		}
		out = append(out, chunk...)
	}
	return out, nil
}
