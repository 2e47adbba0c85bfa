package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playerRig struct {
	p    *Player
	host *stubHost
	keys keys
	in   *InputState
}

func newPlayerRig() *playerRig {
	k := keys{}
	return &playerRig{
		p:    NewPlayer(500, 500),
		host: newStubHost(),
		keys: k,
		in:   NewInputState(k),
	}
}

// frame advances 100ms and runs one player update.
func (r *playerRig) frame() {
	r.host.clock.Advance(100 * time.Millisecond)
	r.in.Poll(r.host.Now())
	r.p.Update(r.in, Physics{}, r.host)
}

func TestPlayerClampsAtLeftWall(t *testing.T) {
	r := newPlayerRig()
	r.p.X = 0
	r.keys[ActionLeft] = true

	r.frame()

	assert.Equal(t, 0.0, r.p.X)
	assert.Zero(t, r.p.VX)
	assert.True(t, r.p.FacingLeft)
}

func TestPlayerHorizontalMovement(t *testing.T) {
	tests := []struct {
		name     string
		pressed  []Action
		onGround bool
		want     float64
	}{
		{"walk right", []Action{ActionRight}, true, MoveSpeed},
		{"walk left", []Action{ActionLeft}, true, -MoveSpeed},
		{"run", []Action{ActionRight, ActionRun}, true, RunSpeed},
		{"air boost", []Action{ActionRight}, false, MoveSpeed * AirBoost},
		{"both pressed stops", []Action{ActionLeft, ActionRight}, true, 0},
		{"none pressed stops", nil, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newPlayerRig()
			r.p.OnGround = tt.onGround
			for _, a := range tt.pressed {
				r.keys[a] = true
			}
			startX := r.p.X
			r.frame()
			assert.InDelta(t, tt.want, r.p.VX, 1e-9)
			assert.InDelta(t, startX+tt.want, r.p.X, 1e-9)
		})
	}
}

func TestPlayerSpeedBuffScalesDisplacement(t *testing.T) {
	r := newPlayerRig()
	r.p.ApplyPowerUp(PowerUpSpeed, r.host.Now())
	r.keys[ActionRight] = true

	r.frame()
	assert.InDelta(t, 500+MoveSpeed*SpeedBuffFactor, r.p.X, 1e-9)

	r.host.clock.Advance(SpeedBuffTime)
	r.frame()
	assert.False(t, r.p.SpeedBuff.Active)
	assert.Equal(t, 1.0, r.p.SpeedMultiplier())
}

func TestPlayerDoubleJumpOncePerAirbornePhase(t *testing.T) {
	r := newPlayerRig()
	r.p.unlocked[AbilityDoubleJump] = true

	r.keys[ActionJump] = true
	r.frame()
	require.False(t, r.p.OnGround)
	assert.InDelta(t, JumpForce+GravityUp, r.p.VY, 1e-9)

	r.keys[ActionJump] = false
	r.frame()

	r.keys[ActionJump] = true
	r.frame()
	assert.True(t, r.p.usedDoubleJump)
	assert.InDelta(t, JumpForce*DoubleJumpFactor+GravityUp, r.p.VY, 1e-9)

	r.keys[ActionJump] = false
	r.frame()
	r.keys[ActionJump] = true
	r.frame()
	assert.InDelta(t, JumpForce*DoubleJumpFactor+4*GravityUp, r.p.VY, 1e-9, "second re-press must not jump again")

	r.keys[ActionJump] = false
	r.p.OnGround = true
	r.p.VY = 0
	r.frame()
	assert.False(t, r.p.usedDoubleJump, "landing restores the double jump")
}

func TestPlayerDoubleJumpNeedsAbility(t *testing.T) {
	r := newPlayerRig()

	r.keys[ActionJump] = true
	r.frame()
	r.keys[ActionJump] = false
	r.frame()
	r.keys[ActionJump] = true
	r.frame()

	assert.False(t, r.p.usedDoubleJump)
	assert.InDelta(t, JumpForce+3*GravityUp, r.p.VY, 1e-9)
}

func TestPlayerAttackLifecycle(t *testing.T) {
	r := newPlayerRig()

	r.keys[ActionAttack] = true
	r.frame()
	require.True(t, r.p.Attacking)
	assert.False(t, r.p.AttackComplete)
	assert.Equal(t, "attack", r.p.Action())

	r.keys[ActionAttack] = false
	for i := 1; i < AttackFrames*StaggerFrames; i++ {
		r.frame()
	}
	assert.False(t, r.p.Attacking)
	assert.True(t, r.p.AttackComplete)
}

func TestPlayerAttackGating(t *testing.T) {
	t.Run("airborne without ability", func(t *testing.T) {
		r := newPlayerRig()
		r.p.OnGround = false
		r.keys[ActionAttack] = true
		r.frame()
		assert.False(t, r.p.Attacking)
	})

	t.Run("airborne with air attack", func(t *testing.T) {
		r := newPlayerRig()
		r.p.OnGround = false
		r.p.unlocked[AbilityAirAttack] = true
		r.keys[ActionAttack] = true
		r.frame()
		assert.True(t, r.p.Attacking)
	})

	t.Run("new swing waits for the previous one", func(t *testing.T) {
		r := newPlayerRig()
		r.keys[ActionAttack] = true
		r.frame()
		frame := r.p.attackFrame
		r.p.frameTick = 0
		r.frame()
		assert.Equal(t, frame, r.p.attackFrame)
		assert.False(t, r.p.AttackComplete)
	})
}

func TestPlayerDashAttack(t *testing.T) {
	r := newPlayerRig()
	r.p.unlocked[AbilityDashAttack] = true
	r.keys[ActionRight] = true
	r.keys[ActionAttack] = true

	r.frame()
	require.True(t, r.p.Attacking)
	assert.InDelta(t, BaseDamage*DashDamage, r.p.CurrentDamage(r.host.Now()), 1e-9)

	r.frame()
	assert.True(t, r.p.Dashing)
	assert.InDelta(t, MoveSpeed*DashVelocity*DashImpulse, r.p.VX, 1e-9)

	r.frame()
	assert.InDelta(t, MoveSpeed*DashVelocity, r.p.VX, 1e-9, "impulse applies once")

	r.host.clock.Advance(DashWindow)
	assert.InDelta(t, BaseDamage, r.p.CurrentDamage(r.host.Now()), 1e-9)
}

func TestPlayerDamageBuff(t *testing.T) {
	r := newPlayerRig()
	now := r.host.Now()
	r.p.ApplyPowerUp(PowerUpDamage, now)
	assert.InDelta(t, BaseDamage*DamageBuffFactor, r.p.CurrentDamage(now), 1e-9)

	r.host.clock.Advance(DamageBuffTime)
	r.frame()
	assert.False(t, r.p.DamageBuff.Active)
	assert.InDelta(t, BaseDamage, r.p.CurrentDamage(r.host.Now()), 1e-9)
}

func TestPlayerHealPowerUpCaps(t *testing.T) {
	p := NewPlayer(0, 0)
	p.Health.Current = 90
	p.ApplyPowerUp(PowerUpHealth, epoch)
	assert.Equal(t, PlayerMaxHealth, p.Health.Current)

	p.Health.Current = 40
	p.ApplyPowerUp(PowerUpHealth, epoch)
	assert.Equal(t, 40.0+HealAmount, p.Health.Current)
}

func TestPlayerTakeDamage(t *testing.T) {
	t.Run("invincible", func(t *testing.T) {
		h := newStubHost()
		h.invincible = true
		p := NewPlayer(0, 0)
		p.TakeDamage(50, h)
		assert.Equal(t, PlayerMaxHealth, p.Health.Current)
		assert.Empty(t, h.events)
	})

	t.Run("floors at zero and ends the game", func(t *testing.T) {
		h := newStubHost()
		p := NewPlayer(0, 0)
		p.TakeDamage(150, h)
		assert.Zero(t, p.Health.Current)
		assert.True(t, h.ended)
		assert.Equal(t, 1, h.count(EventPlayerHurt))
	})
}

func TestPlayerUnlocksAreMonotonic(t *testing.T) {
	r := newPlayerRig()
	r.host.score = 2500
	r.frame()

	assert.True(t, r.p.Unlocked(AbilityDoubleJump))
	assert.True(t, r.p.Unlocked(AbilityDashAttack))
	assert.False(t, r.p.Unlocked(AbilityAirAttack))
	assert.Equal(t, 2, r.host.count(EventAbilityUnlocked))

	r.host.score = 0
	r.frame()
	assert.True(t, r.p.Unlocked(AbilityDoubleJump))
	assert.True(t, r.p.Unlocked(AbilityDashAttack))
	assert.Equal(t, 2, r.host.count(EventAbilityUnlocked), "unlock fires once")
}

func TestPlayerAttackBoxFollowsFacing(t *testing.T) {
	p := NewPlayer(100, 100)
	assert.Equal(t, Rect{X: 100 + PlayerWidth, Y: 100, W: AttackReach, H: PlayerHeight}, p.AttackBox())

	p.FacingLeft = true
	assert.Equal(t, Rect{X: 100 - AttackReach, Y: 100, W: AttackReach, H: PlayerHeight}, p.AttackBox())
}

func TestAbilityUnlockScores(t *testing.T) {
	assert.Equal(t, 1000, AbilityDoubleJump.UnlockScore())
	assert.Equal(t, 2000, AbilityDashAttack.UnlockScore())
	assert.Equal(t, 3000, AbilityAirAttack.UnlockScore())
	assert.Equal(t, "air attack", AbilityAirAttack.String())

	scores := []int{}
	for _, a := range Abilities() {
		scores = append(scores, a.UnlockScore())
	}
	assert.IsIncreasing(t, scores)
}
