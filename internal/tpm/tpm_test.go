package tpm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopProviderUnavailable(t *testing.T) {
	p := noopProvider{}
	assert.False(t, p.Available())
	_, err := p.GetRandom(16)
	assert.Error(t, err)
}

func TestNewProviderNeverNil(t *testing.T) {
	p := NewProvider()
	assert.NotNil(t, p)
}
