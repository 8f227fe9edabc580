package quality

import (
	"bytes"
	"compress/flate"
)

// deflateLevel is the fixed compression level used by CompressionRatio;
// pinned so ratios are comparable across calls.
const deflateLevel = flate.DefaultCompression

// CompressionRatio deflates data at a fixed level and returns
// compressed_len/original_len. Values near 1.0 indicate high entropy
// density (the compressor found nothing to exploit); values well below 1.0
// indicate structure or repetition. Returns 1.0 for empty input so callers
// don't need to special-case division by zero.
func CompressionRatio(data []byte) float64 {
	if len(data) == 0 {
		return 1.0
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, deflateLevel)
	if err != nil {
		return 1.0
	}
	if _, err := w.Write(data); err != nil {
		return 1.0
	}
	if err := w.Close(); err != nil {
		return 1.0
	}

	return float64(buf.Len()) / float64(len(data))
}
