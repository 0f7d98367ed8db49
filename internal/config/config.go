// Package config holds the small set of toggles the compile entry point
// needs, as a flat struct with functional options, in the shape the
// teacher's own config analogues use across its cmd/ entry points.
package config

import "fmt"

// TraceVerbosity selects how much of the trace stream an entry point
// surfaces; it does not affect what the core emits to a trace.Sink, only
// how much of it a consumer chooses to print.
type TraceVerbosity int

const (
	TraceSilent TraceVerbosity = iota
	TraceSummary
	TraceVerbose
)

// Config is the set of knobs shared by cmd/watc and cmd/watc-lsp.
type Config struct {
	// Optimize runs the peephole optimizer over each compiled function
	// before rendering. Disabling it is useful to inspect raw emitter
	// output when debugging a miscompile.
	Optimize bool

	// Trace selects how verbosely pExpr/local/inject events are surfaced.
	Trace TraceVerbosity

	// BigIntThreshold is the bit width above which an integer literal is
	// represented with math/big rather than int64 during conversion; it
	// exists so tests can exercise the big-literal path without needing a
	// source literal that actually overflows int64.
	BigIntThreshold int
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithOptimize toggles the peephole optimizer.
func WithOptimize(on bool) Option {
	return func(c *Config) { c.Optimize = on }
}

// WithTrace sets the trace verbosity.
func WithTrace(v TraceVerbosity) Option {
	return func(c *Config) { c.Trace = v }
}

// WithBigIntThreshold overrides the big-integer promotion threshold.
func WithBigIntThreshold(bits int) Option {
	return func(c *Config) { c.BigIntThreshold = bits }
}

// Default returns the configuration used when an entry point is given no
// flags: optimizer on, silent tracing, standard 64-bit threshold.
func Default(opts ...Option) Config {
	c := Config{
		Optimize:        true,
		Trace:           TraceSilent,
		BigIntThreshold: 64,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Validate reports a configuration that cannot produce sane output.
func (c Config) Validate() error {
	if c.BigIntThreshold <= 0 || c.BigIntThreshold > 64 {
		return fmt.Errorf("config: big integer threshold must be in (0, 64], got %d", c.BigIntThreshold)
	}
	if c.Trace < TraceSilent || c.Trace > TraceVerbose {
		return fmt.Errorf("config: unknown trace verbosity %d", c.Trace)
	}
	return nil
}
