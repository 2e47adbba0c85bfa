package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// EnemyKind selects an enemy's sprite set and collision size. Behaviour does not depend on it.
type EnemyKind string

// SpriteCatalog is the sprite data an enemy needs at construction.
type SpriteCatalog interface {
	EnemyKinds() []EnemyKind
	EnemySize(kind EnemyKind) (width, height float64, ok bool)
}

var ErrNoSprites = errors.New("enemy requires a sprite catalog")

type EnemyState int

const (
	StatePatrol EnemyState = iota
	StateChase
)

func (s EnemyState) String() string {
	if s == StateChase {
		return "chase"
	}
	return "patrol"
}

type Enemy struct {
	Body
	Kind       EnemyKind
	Health     Health
	State      EnemyState
	Attacking  bool
	FacingLeft bool

	MaxSpeed       float64
	JumpForce      float64
	AttackDamage   float64
	AttackRange    float64
	AttackCooldown time.Duration

	NearEdge    bool
	DwellFrames int

	lastAttack   time.Time
	attackEndsAt time.Time
	platform     *Platform
	shouldJump   bool
	turnCooldown int
	frame        int
	frameTick    int
	rng          *rand.Rand
}

// NewEnemy builds an enemy of a random kind with randomized stats.
func NewEnemy(x, y float64, sprites SpriteCatalog, rng *rand.Rand) (*Enemy, error) {
	if sprites == nil {
		return nil, ErrNoSprites
	}
	kinds := sprites.EnemyKinds()
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: no enemy kinds", ErrNoSprites)
	}
	return NewEnemyOfKind(x, y, kinds[rng.Intn(len(kinds))], sprites, rng)
}

// NewEnemyOfKind builds an enemy of a fixed kind.
func NewEnemyOfKind(x, y float64, kind EnemyKind, sprites SpriteCatalog, rng *rand.Rand) (*Enemy, error) {
	if sprites == nil {
		return nil, ErrNoSprites
	}
	w, h, ok := sprites.EnemySize(kind)
	if !ok || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: no size for kind %q", ErrNoSprites, kind)
	}
	spread := func(base, frac float64) float64 {
		return base * (1 - frac + rng.Float64()*2*frac)
	}
	return &Enemy{
		Body:           Body{X: x, Y: y, Width: w, Height: h},
		Kind:           kind,
		Health:         NewHealth(float64(EnemyMinHealth + rng.Intn(EnemyHealthSpread))),
		FacingLeft:     rng.Float64() > 0.5,
		MaxSpeed:       EnemyMinSpeed + rng.Float64()*EnemySpeedSpread,
		JumpForce:      EnemyJumpForce - EnemyJumpSpread/2 + rng.Float64()*EnemyJumpSpread,
		AttackDamage:   spread(EnemyAttackDamage, 0.25),
		AttackRange:    spread(EnemyAttackRange, 0.15),
		AttackCooldown: time.Duration(spread(float64(EnemyAttackCooldown), 0.2)),
		rng:            rng,
	}, nil
}

// Update runs the AI decision, integrates motion and settles the enemy on platforms.
// Enemies only see the player, never each other.
func (e *Enemy) Update(player *Player, platforms []Platform, host Host) {
	now := host.Now()
	if e.Attacking && !now.Before(e.attackEndsAt) {
		e.Attacking = false
	}

	dist := e.distanceTo(player)
	if dist < DetectionRange && !e.Attacking {
		e.State = StateChase
		if dist < e.AttackRange && now.Sub(e.lastAttack) >= e.AttackCooldown {
			e.startAttack(player, host, now)
		}
	} else if dist > DetectionRange*ChaseHysteresis {
		e.State = StatePatrol
	}

	if !e.Attacking {
		if e.State == StateChase {
			e.chase(player)
		} else {
			e.patrol()
		}
	}

	if !e.OnGround {
		e.VY = math.Min(e.VY+EnemyGravity, EnemyMaxFall)
	}
	e.X += e.VX
	e.Y += e.VY

	e.settle(platforms)
	e.keepInBounds(host.Viewport())
	e.updateAnimation()
}

func (e *Enemy) distanceTo(p *Player) float64 {
	return distance(e.X, e.Y, p.X, p.Y)
}

// AttackBox is the area in front of the enemy its strike covers.
func (e *Enemy) AttackBox() Rect {
	x := e.X + e.Width
	if e.FacingLeft {
		x = e.X - EnemyHitboxWidth
	}
	return Rect{
		X: x,
		Y: e.Y + (e.Height-EnemyHitboxHeight)/2,
		W: EnemyHitboxWidth,
		H: EnemyHitboxHeight,
	}
}

func (e *Enemy) startAttack(player *Player, host Host, now time.Time) {
	e.Attacking = true
	e.lastAttack = now
	e.attackEndsAt = now.Add(EnemyAttackDuration)
	e.frame = 0
	if e.AttackBox().Overlaps(player.Box()) {
		player.TakeDamage(e.AttackDamage, host)
	}
}

func (e *Enemy) chase(player *Player) {
	dx := player.X - e.X
	dy := player.Y - e.Y
	if e.shouldApproach(dx, dy) {
		e.FacingLeft = dx < 0
		e.VX = e.MaxSpeed
		if e.FacingLeft {
			e.VX = -e.MaxSpeed
		}
		return
	}
	if math.Abs(dx) > FacingDeadzone {
		e.FacingLeft = dx < 0
	}
	e.VX = 0
}

// shouldApproach keeps enemies from walking off ledges after players they cannot reach.
func (e *Enemy) shouldApproach(dx, dy float64) bool {
	height := math.Abs(dy)
	if height > e.Height*1.5 {
		return false
	}
	if e.NearEdge {
		return math.Abs(dx) < EdgeChaseReach && height < e.Height
	}
	return height < e.Height
}

func (e *Enemy) patrol() {
	if !e.OnGround {
		speed := e.MaxSpeed * AirPatrolFactor
		if e.FacingLeft {
			speed = -speed
		}
		e.VX = speed
		return
	}

	if e.rng.Float64() < PatrolJumpChance {
		e.jump(e.JumpForce)
		return
	}

	if e.NearEdge {
		if e.rng.Float64() < EdgeJumpChance {
			e.jump(e.JumpForce)
		} else {
			e.FacingLeft = !e.FacingLeft
		}
	}

	if e.turnCooldown > 0 {
		e.turnCooldown--
	}
	if e.turnCooldown <= 0 && e.rng.Float64() < TurnChance {
		e.FacingLeft = !e.FacingLeft
		e.turnCooldown = TurnCooldownFrames
	}

	target := e.MaxSpeed * PatrolFactor
	if e.FacingLeft {
		target = -target
	}
	diff := target - e.VX
	if math.Abs(diff) > PatrolAccel {
		e.VX += math.Copysign(PatrolAccel, diff)
	} else {
		e.VX = target
	}
}

func (e *Enemy) jump(force float64) {
	e.VY = force
	e.OnGround = false
}

// settle lands the enemy on the platform under it, tracks dwell time and edge proximity.
func (e *Enemy) settle(platforms []Platform) {
	e.OnGround = false
	landed := false
	var current *Platform

	for i := range platforms {
		pl := &platforms[i]
		if e.X+e.Width <= pl.X || e.X >= pl.X+pl.Width {
			continue
		}
		bottom, top := e.Bottom(), pl.Top()
		if e.VY < 0 || bottom > top+10 || bottom < top-5 {
			continue
		}

		current = pl
		if e.platform != pl {
			e.platform = pl
			e.DwellFrames = 0
		}
		if e.shouldJump {
			e.VY = DwellJumpVelocity
			e.shouldJump = false
			continue
		}

		e.Y = top - e.Height
		e.VY = 0
		e.OnGround = true
		landed = true

		e.DwellFrames++
		if e.DwellFrames > MaxDwellFrames {
			if e.rng.Float64() < 0.5 {
				e.shouldJump = true
			} else {
				e.FacingLeft = e.X-pl.X < pl.X+pl.Width-(e.X+e.Width)
				e.VX = e.MaxSpeed
				if e.FacingLeft {
					e.VX = -e.MaxSpeed
				}
			}
			e.DwellFrames = 0
		}
		break
	}

	if current == nil || current != e.platform {
		e.platform = nil
		e.DwellFrames = 0
	}

	if current != nil && e.OnGround {
		toLeft := e.X - current.X
		toRight := current.X + current.Width - (e.X + e.Width)
		e.NearEdge = toLeft < EdgeDetectionRange || toRight < EdgeDetectionRange

		nearLeft := toLeft < EdgeDropZone
		nearRight := toRight < EdgeDropZone
		if (nearLeft && e.VX < 0) || (nearRight && e.VX > 0) {
			edgeX := current.X
			if !nearLeft {
				edgeX = current.X + current.Width - e.Width
			}
			if math.Abs(e.X-edgeX) < EdgeDropDistance {
				e.OnGround = false
				e.VY = 0.1
				e.VX = math.Copysign(e.MaxSpeed, e.VX)
			}
		}
	} else {
		e.NearEdge = false
	}

	if !landed {
		e.OnGround = false
		if e.VY == 0 {
			e.VY = 0.1
		}
		if e.VX != 0 {
			e.VX = math.Copysign(e.MaxSpeed, e.VX)
		}
	}
}

func (e *Enemy) keepInBounds(width, height float64) {
	if e.X < 0 {
		e.X = 0
		e.FacingLeft = false
	} else if e.X+e.Width > width {
		e.X = width - e.Width
		e.FacingLeft = true
	}
	if e.Y+e.Height > height {
		e.Y = height - e.Height
		e.VY = 0
		e.OnGround = true
	}
}

func (e *Enemy) updateAnimation() {
	e.frameTick++
	if e.frameTick >= EnemyAnimationFrames {
		e.frameTick = 0
		e.frame++
	}
}

// TakeDamage lowers health, never below zero. Removal is the engine's job.
func (e *Enemy) TakeDamage(amount float64) {
	e.Health.Damage(amount)
}

// HandleResize keeps the enemy inside a resized viewport and forgets its platform.
func (e *Enemy) HandleResize(width, height float64, phys Physics) {
	phys.KeepInBounds(&e.Body, width, height)
	e.platform = nil
	e.DwellFrames = 0
	e.NearEdge = false
}

// Action names the animation the enemy is showing.
func (e *Enemy) Action() string {
	speed := math.Abs(e.VX)
	switch {
	case e.Health.IsDead():
		return "death"
	case e.Attacking:
		return "attack"
	case !e.OnGround && math.Abs(e.VY) > 2:
		return "jump"
	case speed < 0.1:
		return "idle"
	case speed >= e.MaxSpeed*0.5:
		return "run"
	default:
		return "walk"
	}
}

func (e *Enemy) Frame() int { return e.frame }
