package movement

import (
	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Options tune the movement rules
type Options struct {
	// Epsilon is the smallest cost any step may have
	Epsilon float64
	// RiverCrossingEndsMove makes crossing a river consume all remaining movement
	RiverCrossingEndsMove bool
	// ZoneOfControl makes moving between two tiles next to enemies consume all remaining movement
	ZoneOfControl bool
}

// NewOptions converts the movement section of the configuration
func NewOptions(c config.MovementConfig) Options {
	return Options{
		Epsilon:               c.MinimumEpsilon,
		RiverCrossingEndsMove: c.RiverCrossingEndsMove,
		ZoneOfControl:         c.ZoneOfControl,
	}
}

// DefaultOptions returns the options built from configuration defaults
func DefaultOptions() Options {
	return NewOptions(config.Default().Movement)
}

// EffectiveEpsilon returns Epsilon, falling back to core.Epsilon when unset
func (o Options) EffectiveEpsilon() float64 {
	if o.Epsilon <= 0 {
		return core.Epsilon
	}
	return o.Epsilon
}
