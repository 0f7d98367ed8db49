package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.True(t, c.Optimize)
	assert.Equal(t, TraceSilent, c.Trace)
	assert.Equal(t, 64, c.BigIntThreshold)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c := Default(WithOptimize(false), WithTrace(TraceVerbose), WithBigIntThreshold(32))
	assert.False(t, c.Optimize)
	assert.Equal(t, TraceVerbose, c.Trace)
	assert.Equal(t, 32, c.BigIntThreshold)
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	c := Default(WithBigIntThreshold(0))
	assert.Error(t, c.Validate())

	c = Default(WithBigIntThreshold(128))
	assert.Error(t, c.Validate())
}

func TestValidateRejectsUnknownVerbosity(t *testing.T) {
	c := Default()
	c.Trace = TraceVerbosity(99)
	assert.Error(t, c.Validate())
}
