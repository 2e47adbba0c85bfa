package game

import "time"

// Ability is a move unlocked by reaching a score threshold.
type Ability int

const (
	AbilityDoubleJump Ability = iota
	AbilityDashAttack
	AbilityAirAttack
	abilityCount
)

var abilityNames = [...]string{"double jump", "dash attack", "air attack"}

var unlockScores = [...]int{DoubleJumpUnlock, DashAttackUnlock, AirAttackUnlock}

func (a Ability) String() string {
	if a < 0 || a >= abilityCount {
		return "unknown"
	}
	return abilityNames[a]
}

// Abilities lists every unlockable ability in unlock order.
func Abilities() []Ability {
	return []Ability{AbilityDoubleJump, AbilityDashAttack, AbilityAirAttack}
}

// UnlockScore is the score at which the ability becomes available.
func (a Ability) UnlockScore() int {
	return unlockScores[a]
}

// Buff is a timed multiplier with an absolute expiry.
type Buff struct {
	Active     bool
	Multiplier float64
	EndsAt     time.Time
}

func (b Buff) factor() float64 {
	if !b.Active {
		return 1
	}
	return b.Multiplier
}

// Host is the engine state an entity may read or signal while it updates.
type Host interface {
	Now() time.Time
	Score() int
	Invincible() bool
	Viewport() (width, height float64)
	Emit(e Event)
	EndGame()
}

type Player struct {
	Body
	Health Health

	FacingLeft     bool
	Moving         bool
	Running        bool
	Attacking      bool
	AttackComplete bool
	Dashing        bool

	DamageBuff Buff
	SpeedBuff  Buff

	usedDoubleJump bool
	dashEndsAt     time.Time
	unlocked       [abilityCount]bool
	struck         map[*Enemy]bool

	frame       int
	frameTick   int
	attackFrame int
	prevBottom  float64
}

func NewPlayer(x, y float64) *Player {
	return &Player{
		Body: Body{
			X:        x,
			Y:        y,
			Width:    PlayerWidth,
			Height:   PlayerHeight,
			OnGround: true,
		},
		Health:         NewHealth(PlayerMaxHealth),
		AttackComplete: true,
		struck:         make(map[*Enemy]bool),
	}
}

// Update advances the player one frame: input, buffs, unlocks, then motion.
func (p *Player) Update(in *InputState, phys Physics, host Host) {
	now := host.Now()
	p.handleMovement(in)
	p.handleAttack(in, now)
	p.updateBuffs(now)
	p.checkProgression(host)

	phys.ApplyGravity(&p.Body)
	p.prevBottom = p.Bottom()
	p.X += p.VX * p.SpeedBuff.factor()
	p.Y += p.VY

	width, _ := host.Viewport()
	if p.X < 0 {
		p.X = 0
		p.VX = 0
	} else if p.X+p.Width > width {
		p.X = width - p.Width
		p.VX = 0
	}

	p.updateAnimation()

	if p.Health.IsDead() {
		host.EndGame()
	}
}

func (p *Player) handleMovement(in *InputState) {
	p.Running = in.Pressed(ActionRun)

	left, right := in.Pressed(ActionLeft), in.Pressed(ActionRight)
	switch {
	case right && !left:
		p.move(false)
	case left && !right:
		p.move(true)
	default:
		p.stop()
	}

	if in.Pressed(ActionJump) {
		if p.OnGround {
			p.jump(false)
			p.usedDoubleJump = false
		} else if p.unlocked[AbilityDoubleJump] && !p.usedDoubleJump && in.DoubleTap(ActionJump, DoubleJumpWindow) {
			p.jump(true)
		}
	}

	if p.OnGround {
		p.usedDoubleJump = false
		p.Jumping = false
	}
}

func (p *Player) move(left bool) {
	speed := MoveSpeed
	if p.Running {
		speed = RunSpeed
	}
	if !p.OnGround {
		speed *= AirBoost
	}
	if left {
		speed = -speed
	}
	p.VX = speed
	p.Moving = true
	p.FacingLeft = left

	if p.unlocked[AbilityDashAttack] && p.Attacking {
		p.VX *= DashVelocity
		if !p.Dashing {
			p.VX *= DashImpulse
			p.Dashing = true
		}
	} else {
		p.Dashing = false
	}
}

func (p *Player) stop() {
	p.VX = 0
	p.Moving = false
	p.Dashing = false
}

func (p *Player) jump(double bool) {
	force := JumpForce
	if double {
		force *= DoubleJumpFactor
		p.usedDoubleJump = true
	}
	p.VY = force
	p.Jumping = true
	p.OnGround = false
}

func (p *Player) handleAttack(in *InputState, now time.Time) {
	if !in.Pressed(ActionAttack) || !p.AttackComplete {
		return
	}
	dash := p.unlocked[AbilityDashAttack] && p.VX != 0
	if !p.OnGround && !p.unlocked[AbilityAirAttack] && !dash {
		return
	}
	p.Attacking = true
	p.AttackComplete = false
	p.attackFrame = 0
	p.frame = 0
	clear(p.struck)
	if dash {
		p.dashEndsAt = now.Add(DashWindow)
	}
}

func (p *Player) updateBuffs(now time.Time) {
	if p.DamageBuff.Active && now.After(p.DamageBuff.EndsAt) {
		p.DamageBuff = Buff{}
	}
	if p.SpeedBuff.Active && now.After(p.SpeedBuff.EndsAt) {
		p.SpeedBuff = Buff{}
	}
}

func (p *Player) checkProgression(host Host) {
	score := host.Score()
	for a := Ability(0); a < abilityCount; a++ {
		if score >= a.UnlockScore() && !p.unlocked[a] {
			p.unlocked[a] = true
			host.Emit(Event{Type: EventAbilityUnlocked, X: p.X, Y: p.Y, Data: int(a)})
		}
	}
}

func (p *Player) updateAnimation() {
	p.frameTick++
	if p.frameTick < StaggerFrames {
		return
	}
	p.frameTick = 0
	p.frame++
	if p.Attacking {
		p.attackFrame++
		if p.attackFrame >= AttackFrames {
			p.Attacking = false
			p.AttackComplete = true
		}
	}
}

// Unlocked reports whether an ability has been earned this game.
func (p *Player) Unlocked(a Ability) bool {
	return p.unlocked[a]
}

// CurrentDamage is the damage one swing deals right now, including the damage
// buff and the short dash-attack bonus.
func (p *Player) CurrentDamage(now time.Time) float64 {
	dmg := BaseDamage * p.DamageBuff.factor()
	if now.Before(p.dashEndsAt) {
		dmg *= DashDamage
	}
	return dmg
}

// SpeedMultiplier is the factor applied to horizontal displacement.
func (p *Player) SpeedMultiplier() float64 {
	return p.SpeedBuff.factor()
}

// ApplyPowerUp applies a collected pickup's effect.
func (p *Player) ApplyPowerUp(kind PowerUpKind, now time.Time) {
	switch kind {
	case PowerUpHealth:
		p.Health.Heal(HealAmount)
	case PowerUpDamage:
		p.DamageBuff = Buff{Active: true, Multiplier: DamageBuffFactor, EndsAt: now.Add(DamageBuffTime)}
	case PowerUpSpeed:
		p.SpeedBuff = Buff{Active: true, Multiplier: SpeedBuffFactor, EndsAt: now.Add(SpeedBuffTime)}
	}
}

// TakeDamage is ignored while the host is invincible. Reaching zero ends the game.
func (p *Player) TakeDamage(amount float64, host Host) {
	if host.Invincible() {
		return
	}
	p.Health.Damage(amount)
	host.Emit(Event{Type: EventPlayerHurt, X: p.X, Y: p.Y, Data: int(amount)})
	if p.Health.IsDead() {
		host.EndGame()
	}
}

// AttackBox is the zone in front of the player a swing reaches.
func (p *Player) AttackBox() Rect {
	x := p.X + p.Width
	if p.FacingLeft {
		x = p.X - AttackReach
	}
	return Rect{X: x, Y: p.Y, W: AttackReach, H: p.Height}
}

// strike records a hit on e for the current swing. It reports false if e was
// already hit by this swing.
func (p *Player) strike(e *Enemy) bool {
	if p.struck[e] {
		return false
	}
	p.struck[e] = true
	return true
}

// HandleResize keeps the player inside a resized viewport.
func (p *Player) HandleResize(width, height float64, phys Physics) {
	phys.KeepInBounds(&p.Body, width, height)
}

// Action names the animation the player is showing.
func (p *Player) Action() string {
	switch {
	case p.Attacking:
		return "attack"
	case !p.OnGround:
		return "jump"
	case p.Moving:
		return "walk"
	default:
		return "idle"
	}
}

func (p *Player) Frame() int { return p.frame }
