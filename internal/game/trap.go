package game

import (
	"math/rand"
	"time"
)

// Trap is a spinning hazard that falls from the top of the screen.
type Trap struct {
	drift
	Damage   float64
	Rotation float64
}

func NewTrap(x, y float64, rng *rand.Rand) *Trap {
	return &Trap{
		drift:  newDrift(x, y, TrapMinFall+rng.Float64()*TrapFallSpread, rng),
		Damage: TrapDamage,
	}
}

func (t *Trap) Update(now time.Time) {
	t.step(now)
	t.Rotation += TrapSpin
}
