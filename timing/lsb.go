package timing

// LSBBytes extracts the low-order byte of each unsigned 64-bit delta in
// deltas, yielding a byte slice of equal length. This is the whitening step
// shared by every Pattern A (timing-delta) source: the low bits of a
// sub-microsecond timing delta carry the bulk of the measurement jitter
// while the high bits mostly encode the (predictable) operation duration.
func LSBBytes(deltas []uint64) []byte {
	out := make([]byte, len(deltas))
	for i, d := range deltas {
		out[i] = byte(d)
	}
	return out
}

// LSBBytesSigned is the signed-delta variant: it takes the low byte of the
// two's-complement representation, used where successive samples may run
// backwards (e.g. beat-frequency sources measuring a difference of
// differences).
func LSBBytesSigned(deltas []int64) []byte {
	out := make([]byte, len(deltas))
	for i, d := range deltas {
		out[i] = byte(uint64(d))
	}
	return out
}

// XORAdjacent whitens short-range correlation by XORing each byte with its
// predecessor in place of returning it unchanged; the first byte passes
// through unmodified since it has no predecessor. Optional step used by
// Pattern A sources operating over short buffers where adjacent deltas are
// still correlated (e.g. scheduler quantum effects).
func XORAdjacent(b []byte) []byte {
	out := make([]byte, len(b))
	var prev byte
	for i, v := range b {
		out[i] = v ^ prev
		prev = v
	}
	return out
}
