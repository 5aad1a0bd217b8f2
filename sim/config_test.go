package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimConfig_WithDefaults_FillsZeroFields(t *testing.T) {
	got := SimConfig{}.WithDefaults()
	want := SimConfig{
		DispatchFrequency: DefaultDispatchFrequency,
		LoggingFrequency:  DefaultLoggingFrequency,
		CountingFrequency: DefaultCountingFrequency,
		RuntimeMultiplier: DefaultRuntimeMultiplier,
	}
	assert.Equal(t, want, got)
}

func TestSimConfig_WithDefaults_PreservesExplicitValues(t *testing.T) {
	got := SimConfig{
		DispatchFrequency:   500,
		LoggingFrequency:    2000,
		CountingFrequency:   2000,
		RuntimeMultiplier:   2.0,
		UseOnlyDefaultQueue: true,
	}.WithDefaults()
	want := SimConfig{
		DispatchFrequency:   500,
		LoggingFrequency:    2000,
		CountingFrequency:   2000,
		RuntimeMultiplier:   2.0,
		UseOnlyDefaultQueue: true,
	}
	assert.Equal(t, want, got)
}
