package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/amenti-labs/openentropy-sub002/pool"
	"github.com/amenti-labs/openentropy-sub002/quality"
	"github.com/amenti-labs/openentropy-sub002/source"
)

func TestMarshalQualityRoundTrips(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 37)
	}
	r := quality.Evaluate(data)

	out, err := MarshalQuality(len(data), r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "sample_bytes: 4096")

	var decoded QualityDocument
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, 4096, decoded.SampleBytes)
	assert.Equal(t, string(r.Grade), decoded.Grade)
	assert.InDelta(t, r.QualityScore, decoded.QualityScore, 1e-9)
}

func TestMarshalHealthRoundTrips(t *testing.T) {
	p, err := pool.New(nil)
	require.NoError(t, err)
	p.AddSource(source.NewClockJitter(), 1.0)
	p.CollectAll()

	out, err := MarshalHealth(p.HealthReport())
	require.NoError(t, err)
	assert.Contains(t, string(out), "total_sources: 1")

	var decoded HealthDocument
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Len(t, decoded.Sources, 1)
	assert.Equal(t, "clock_jitter", decoded.Sources[0].Name)
}
