package sim

// Default tunables, used when a SimConfig field is left zero by its loader.
const (
	DefaultDispatchFrequency int64 = 1000
	DefaultLoggingFrequency  int64 = 10000
	DefaultCountingFrequency int64 = 10000
	DefaultRuntimeMultiplier       = 1.0
)

// SimConfig groups the startup-time tunables a Simulation is constructed
// with. Populated from CLI flags in cmd/root.go.
type SimConfig struct {
	DispatchFrequency   int64   // ms between dispatch passes while the chain is armed
	LoggingFrequency    int64   // ms between periodic LOG events
	CountingFrequency   int64   // ms between periodic COUNT events
	RuntimeMultiplier   float64 // global scale applied to every job's computed runtime
	UseOnlyDefaultQueue bool    // route every submission to queues[0] regardless of its entry
}

// WithDefaults returns a copy of c with zero-valued fields filled from the
// package defaults, so a caller only needs to set what it cares about.
func (c SimConfig) WithDefaults() SimConfig {
	if c.DispatchFrequency == 0 {
		c.DispatchFrequency = DefaultDispatchFrequency
	}
	if c.LoggingFrequency == 0 {
		c.LoggingFrequency = DefaultLoggingFrequency
	}
	if c.CountingFrequency == 0 {
		c.CountingFrequency = DefaultCountingFrequency
	}
	if c.RuntimeMultiplier == 0 {
		c.RuntimeMultiplier = DefaultRuntimeMultiplier
	}
	return c
}
