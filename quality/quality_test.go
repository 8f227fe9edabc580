package quality

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShannonEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Shannon(nil))
}

func TestShannonConstantIsZero(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 4096)
	assert.Equal(t, 0.0, Shannon(data))
}

func TestShannonUniformIsMax(t *testing.T) {
	data := make([]byte, 256*100)
	for i := range data {
		data[i] = byte(i)
	}
	assert.InDelta(t, 8.0, Shannon(data), 0.001)
}

func TestMinEntropyLowConfidenceBelow100(t *testing.T) {
	r := MinEntropy(make([]byte, 50))
	assert.True(t, r.LowConfidence)
	assert.Equal(t, 50, r.Samples)
}

func TestMinEntropyHighConfidenceAtOrAbove100(t *testing.T) {
	r := MinEntropy(make([]byte, 100))
	assert.False(t, r.LowConfidence)
}

func TestMinEntropyConstantIsZero(t *testing.T) {
	r := MinEntropy(bytes.Repeat([]byte{1}, 1000))
	assert.Equal(t, 0.0, r.MinEntropy)
}

func TestCompressionRatioEmptyIsOne(t *testing.T) {
	assert.Equal(t, 1.0, CompressionRatio(nil))
}

func TestCompressionRatioConstantCompressesWell(t *testing.T) {
	ratio := CompressionRatio(bytes.Repeat([]byte{0}, 10000))
	assert.Less(t, ratio, 0.1)
}

func TestGradeMonotonicity(t *testing.T) {
	grades := []float64{1.0, 2.5, 4.0, 5.5, 7.0}
	prevRank := -1
	for _, me := range grades {
		g := GradeMinEntropy(me)
		assert.GreaterOrEqual(t, g.Rank(), prevRank)
		prevRank = g.Rank()
	}
}

func TestGradeThresholds(t *testing.T) {
	assert.Equal(t, GradeA, GradeMinEntropy(6.5))
	assert.Equal(t, GradeB, GradeMinEntropy(5.0))
	assert.Equal(t, GradeC, GradeMinEntropy(3.5))
	assert.Equal(t, GradeD, GradeMinEntropy(2.0))
	assert.Equal(t, GradeF, GradeMinEntropy(1.9))
}

func TestQualityOfUnconditionedConstantSource(t *testing.T) {
	// Mirrors end-to-end scenario 4: a fake source emitting constant 0xAA
	// raw bytes should still score well once SHA-256 conditioned elsewhere;
	// here we sanity-check the raw constant buffer scores poorly, which is
	// the baseline the conditioning pipeline must improve on.
	raw := bytes.Repeat([]byte{0xAA}, 4096)
	rep := Evaluate(raw)
	assert.Equal(t, 0.0, rep.Shannon)
	assert.Equal(t, GradeF, rep.Grade)
}

func TestOnlineMonitorDetectsStuckAt(t *testing.T) {
	m := NewOnlineMonitor()
	m.Feed(bytes.Repeat([]byte{0x42}, 30))
	assert.False(t, m.Healthy())
}

func TestOnlineMonitorHealthyOnRandomData(t *testing.T) {
	m := NewOnlineMonitor()
	r := rand.New(rand.NewSource(1))
	data := make([]byte, 2048)
	r.Read(data)
	m.Feed(data)
	assert.True(t, m.Healthy())
}
