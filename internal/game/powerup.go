package game

import (
	"math"
	"math/rand"
	"time"
)

type PowerUpKind int

const (
	PowerUpHealth PowerUpKind = iota
	PowerUpDamage
	PowerUpSpeed
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpHealth:
		return "health"
	case PowerUpDamage:
		return "damage"
	case PowerUpSpeed:
		return "speed"
	}
	return "unknown"
}

// drift is the falling motion pickups and traps share: constant fall speed
// plus a small horizontal sway keyed to wall-clock time.
type drift struct {
	Body
	phase float64
}

func newDrift(x, y, fall float64, rng *rand.Rand) drift {
	return drift{
		Body:  Body{X: x, Y: y, Width: PickupSize, Height: PickupSize, VY: fall},
		phase: rng.Float64() * 2 * math.Pi,
	}
}

func (d *drift) step(now time.Time) {
	d.Y += d.VY
	d.X += math.Sin(float64(now.UnixMilli())*DriftSpeed+d.phase) * DriftAmount
}

// offscreen reports whether the body has fallen past the viewport bottom.
func (d *drift) offscreen(height float64) bool {
	return d.Y >= height
}

type PowerUp struct {
	drift
	Kind PowerUpKind
}

func NewPowerUp(x, y float64, kind PowerUpKind, rng *rand.Rand) *PowerUp {
	return &PowerUp{
		drift: newDrift(x, y, PowerUpFallSpeed, rng),
		Kind:  kind,
	}
}

func (p *PowerUp) Update(now time.Time) {
	p.step(now)
}
