package capture

import "time"

// Pipeline rates.
const (
	IdleFPS            = 5
	ActiveFPS          = DefaultFPS
	DefaultIdleTimeout = 2 * time.Second
)

// Gate switches the pipeline between idle and active rates. Any activity
// (motion, or a hand held in view) keeps it active; it drops back to idle
// once nothing has happened for the idle timeout.
type Gate struct {
	idleTimeout time.Duration
	active      bool
	lastActive  time.Time
}

// NewGate returns an idle gate. A non-positive timeout uses DefaultIdleTimeout.
func NewGate(idleTimeout time.Duration) *Gate {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Gate{idleTimeout: idleTimeout}
}

// Observe records whether there was activity at now. It returns the gate
// state after the observation and whether that state changed.
func (g *Gate) Observe(activity bool, now time.Time) (active, changed bool) {
	if activity {
		g.lastActive = now
		if !g.active {
			g.active = true
			return true, true
		}
		return true, false
	}

	if g.active && now.Sub(g.lastActive) > g.idleTimeout {
		g.active = false
		return false, true
	}
	return g.active, false
}

// Active reports whether the gate is in active mode.
func (g *Gate) Active() bool {
	return g.active
}

// FPS returns the capture rate for the current mode.
func (g *Gate) FPS() int {
	if g.active {
		return ActiveFPS
	}
	return IdleFPS
}
