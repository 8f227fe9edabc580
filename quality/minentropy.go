package quality

import "math"

// MinEntropyResult carries the most-common-value min-entropy estimate
// alongside the sample count that produced it, so callers can weight
// estimates from short runs appropriately.
type MinEntropyResult struct {
	// MinEntropy is -log2(p_max) in bits per byte.
	MinEntropy float64
	// Samples is the number of bytes the estimate was computed over.
	Samples int
	// LowConfidence is true when Samples < 100, per NIST SP 800-90B
	// §6.3.1's guidance that the most-common-value estimator needs a
	// meaningful sample size; the value is still returned, just flagged.
	LowConfidence bool
}

// MinEntropy implements the NIST SP 800-90B §6.3.1 most-common-value
// estimator: min_entropy = -log2(max_count/n).
func MinEntropy(data []byte) MinEntropyResult {
	if len(data) == 0 {
		return MinEntropyResult{MinEntropy: 0, Samples: 0, LowConfidence: true}
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	n := len(data)
	pMax := float64(maxCount) / float64(n)
	return MinEntropyResult{
		MinEntropy:    -math.Log2(pMax),
		Samples:       n,
		LowConfidence: n < 100,
	}
}
