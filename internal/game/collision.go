package game

import (
	"math"
	"time"
)

// CollisionSystem resolves the player against platforms and the player's
// attack against enemies. Enemies settle on platforms themselves.
type CollisionSystem struct{}

// LandPlayer grounds the player on the highest platform it is resting on or
// has just fallen onto. With no platform under it, the viewport floor catches it.
func (CollisionSystem) LandPlayer(p *Player, platforms []Platform, floor float64) {
	landed := false
	top := math.Inf(1)

	bottom := p.Bottom()
	for _, pl := range platforms {
		if p.X+p.Width <= pl.X || p.X >= pl.X+pl.Width {
			continue
		}
		if p.VY < 0 {
			continue
		}
		crossed := p.prevBottom <= pl.Top()+LandingMargin && bottom >= pl.Top()
		resting := bottom >= pl.Top()-LandingMargin && bottom <= pl.Top()+LandingMargin
		if !crossed && !resting {
			continue
		}
		landed = true
		top = math.Min(top, pl.Top())
	}

	if landed {
		p.Y = top - p.Height
		p.VY = 0
		p.Jumping = false
		p.OnGround = true
		return
	}

	p.OnGround = false
	if p.Bottom() > floor {
		p.Y = floor - p.Height
		p.VY = 0
		p.Jumping = false
		p.OnGround = true
	}
}

// ResolveAttack applies the player's current damage to every live enemy inside
// the swing's hit zone. An enemy is hit at most once per swing. It returns the
// number of enemies hit.
func (CollisionSystem) ResolveAttack(p *Player, enemies []*Enemy, now time.Time) int {
	if !p.Attacking {
		return 0
	}
	zone := p.AttackBox()
	damage := p.CurrentDamage(now)

	hits := 0
	for _, e := range enemies {
		if e.Health.IsDead() || !zone.Overlaps(e.Box()) {
			continue
		}
		if !p.strike(e) {
			continue
		}
		e.TakeDamage(damage)
		hits++
	}
	return hits
}
