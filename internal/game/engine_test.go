package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineRequiresSprites(t *testing.T) {
	_, err := NewEngine(Options{}, 800, 600)
	assert.ErrorIs(t, err, ErrNoSprites)

	_, err = NewEngine(Options{Sprites: emptySprites{}}, 800, 600)
	assert.ErrorIs(t, err, ErrNoSprites)
}

func TestEngineStartsFreshGame(t *testing.T) {
	te := newTestEngine(t)

	assert.Zero(t, te.Score())
	assert.False(t, te.GameOver())
	assert.Empty(t, te.Enemies)
	assert.Len(t, te.pending, InitialEnemies)
	assert.Equal(t, PlayerSpawnX, te.Player.X)
	assert.Equal(t, 720-PlayerSpawnLift, te.Player.Y)
	assert.True(t, te.Platforms[0].Ground)
}

func TestEngineInitialWaveIsStaggered(t *testing.T) {
	te := newTestEngine(t)

	te.Update()
	assert.Len(t, te.Enemies, 1, "first enemy is due immediately")

	te.clock.Advance(InitialEnemyStagger)
	te.Update()
	assert.Len(t, te.Enemies, 2)

	te.clock.Advance(time.Second)
	te.Update()
	assert.Len(t, te.Enemies, InitialEnemies)
	assert.Empty(t, te.pending)
}

func TestEnginePauseFreezesEntities(t *testing.T) {
	te := newTestEngine(t)
	te.clock.Advance(time.Second)
	te.Update()
	require.NotEmpty(t, te.Enemies)

	te.TogglePause()
	assert.True(t, te.Paused())
	assert.False(t, te.music.playing)

	playerX, playerY := te.Player.X, te.Player.Y
	type pos struct{ x, y float64 }
	var before []pos
	for _, e := range te.Enemies {
		before = append(before, pos{e.X, e.Y})
	}

	te.keys[ActionRight] = true
	for i := 0; i < 30; i++ {
		te.step()
	}

	assert.Equal(t, playerX, te.Player.X)
	assert.Equal(t, playerY, te.Player.Y)
	require.Len(t, te.Enemies, len(before))
	for i, e := range te.Enemies {
		assert.Equal(t, before[i], pos{e.X, e.Y})
	}

	te.TogglePause()
	assert.True(t, te.music.playing)
	te.step()
	assert.NotEqual(t, playerX, te.Player.X)
}

func TestEngineTwoPauseCauses(t *testing.T) {
	te := newTestEngine(t)

	te.TogglePause()
	te.PauseForControls()
	assert.False(t, te.music.playing)

	te.ResumeFromControls()
	assert.False(t, te.music.playing, "still paused by the pause key")
	x := te.Player.X
	te.keys[ActionRight] = true
	te.step()
	assert.Equal(t, x, te.Player.X)

	te.TogglePause()
	assert.True(t, te.music.playing)
	te.step()
	assert.Greater(t, te.Player.X, x)
}

func TestEngineKillAwardsScore(t *testing.T) {
	te := newTestEngine(t)
	var killed []Event
	te.Bus().Subscribe(EventEnemyKilled, func(e Event) { killed = append(killed, e) })

	te.clock.Advance(time.Second)
	te.Update()
	require.Len(t, te.Enemies, InitialEnemies)

	victim := te.Enemies[0]
	victim.TakeDamage(victim.Health.Max + 10)
	assert.Zero(t, victim.Health.Current)

	te.step()
	assert.Equal(t, KillScore, te.Score())
	assert.Len(t, te.Enemies, InitialEnemies-1)
	assert.NotContains(t, te.Enemies, victim)
	assert.Len(t, killed, 1)
}

func TestEngineSpawnsOnInterval(t *testing.T) {
	te := newTestEngine(t)
	te.clock.Advance(time.Second)
	te.Update()
	require.Len(t, te.Enemies, InitialEnemies)

	te.clock.Advance(EnemySpawnInterval)
	te.Update()
	assert.Len(t, te.Enemies, InitialEnemies+1)

	te.step()
	assert.Len(t, te.Enemies, InitialEnemies+1, "interval restarts after a spawn")
}

func TestEngineEnemyCap(t *testing.T) {
	te := newTestEngine(t)
	for i := 0; i < 20; i++ {
		te.clock.Advance(2 * time.Second)
		te.Update()
		te.Player.Health.Current = PlayerMaxHealth
	}
	assert.LessOrEqual(t, len(te.Enemies), MaxEnemies)
}

func TestEngineNoEnemies(t *testing.T) {
	te := newTestEngine(t)
	te.clock.Advance(time.Second)
	te.Update()
	require.NotEmpty(t, te.Enemies)

	te.ToggleNoEnemies()
	assert.True(t, te.NoEnemies())
	assert.Empty(t, te.Enemies)
	assert.Empty(t, te.pending)

	te.clock.Advance(5 * time.Second)
	te.Update()
	assert.Empty(t, te.Enemies, "spawns are suppressed")

	te.ToggleNoEnemies()
	te.clock.Advance(2 * time.Second)
	te.Update()
	assert.Len(t, te.Enemies, 1)
}

func TestEnginePowerUpCollected(t *testing.T) {
	te := newTestEngine(t)
	var collected []Event
	te.Bus().Subscribe(EventPowerUpCollected, func(e Event) { collected = append(collected, e) })

	te.PowerUps = append(te.PowerUps, NewPowerUp(te.Player.X+10, te.Player.Y+10, PowerUpDamage, testRNG()))
	te.step()

	assert.Empty(t, te.PowerUps)
	assert.True(t, te.Player.DamageBuff.Active)
	require.Len(t, collected, 1)
	assert.Equal(t, int(PowerUpDamage), collected[0].Data)
}

func TestEnginePowerUpLeavesScreen(t *testing.T) {
	te := newTestEngine(t)
	te.PowerUps = append(te.PowerUps, NewPowerUp(1000, 719, PowerUpSpeed, testRNG()))

	te.step()

	assert.Empty(t, te.PowerUps)
	assert.False(t, te.Player.SpeedBuff.Active)
}

func TestEnginePowerUpSpawnTimer(t *testing.T) {
	te := newTestEngine(t)
	var spawned []Event
	te.Bus().Subscribe(EventPowerUpSpawned, func(e Event) { spawned = append(spawned, e) })

	te.clock.Advance(PowerUpInterval + time.Millisecond)
	te.Update()

	require.Len(t, spawned, 1)
	assert.Equal(t, int(PowerUpHealth), spawned[0].Data, "score 0 always drops health")
	assert.Len(t, te.PowerUps, 1)
}

func TestEngineTrapHit(t *testing.T) {
	te := newTestEngine(t)
	te.Traps = append(te.Traps, NewTrap(te.Player.X+10, te.Player.Y+10, testRNG()))

	te.step()

	assert.Empty(t, te.Traps)
	assert.Equal(t, PlayerMaxHealth-TrapDamage, te.Player.Health.Current)
}

func TestEngineTrapWhileInvincible(t *testing.T) {
	te := newTestEngine(t)
	te.ToggleInvincible()
	te.Traps = append(te.Traps, NewTrap(te.Player.X+10, te.Player.Y+10, testRNG()))

	te.step()

	assert.Empty(t, te.Traps, "trap is consumed either way")
	assert.Equal(t, PlayerMaxHealth, te.Player.Health.Current)
}

func TestEngineTrapCap(t *testing.T) {
	te := newTestEngine(t)
	te.ToggleNoEnemies()
	for i := 0; i < 10; i++ {
		te.clock.Advance(TrapInterval + time.Millisecond)
		te.Update()
	}
	assert.LessOrEqual(t, len(te.Traps), MaxTraps)
}

func TestEngineGameOverAndRestart(t *testing.T) {
	te := newTestEngine(t)
	var over int
	te.Bus().Subscribe(EventGameOver, func(Event) { over++ })

	te.Player.TakeDamage(PlayerMaxHealth, te.Engine)
	assert.True(t, te.GameOver())
	assert.Equal(t, 1, over)

	x := te.Player.X
	te.keys[ActionRight] = true
	te.step()
	assert.Equal(t, x, te.Player.X, "simulation is frozen after game over")
	assert.Equal(t, 1, over)

	te.keys[ActionRestart] = true
	te.step()
	assert.False(t, te.GameOver())
	assert.Zero(t, te.Score())
	assert.Equal(t, PlayerMaxHealth, te.Player.Health.Current)
}

func TestEngineResetKeepsDebugToggles(t *testing.T) {
	te := newTestEngine(t)
	te.ToggleInvincible()
	te.ToggleHitboxes()
	te.score = 2500
	te.Traps = append(te.Traps, NewTrap(10, 10, testRNG()))

	te.Reset()

	assert.Zero(t, te.Score())
	assert.Empty(t, te.Traps)
	assert.True(t, te.Invincible())
	assert.True(t, te.Hitboxes())
	assert.False(t, te.Player.Unlocked(AbilityDoubleJump))
}

func TestEngineUnlocksFromScore(t *testing.T) {
	te := newTestEngine(t)
	var unlocked []Ability
	te.Bus().Subscribe(EventAbilityUnlocked, func(e Event) { unlocked = append(unlocked, Ability(e.Data)) })

	te.score = DoubleJumpUnlock
	te.step()
	te.step()

	assert.Equal(t, []Ability{AbilityDoubleJump}, unlocked)
	assert.True(t, te.Player.Unlocked(AbilityDoubleJump))
}

func TestEngineLandsPlayerOnGround(t *testing.T) {
	te := newTestEngine(t)
	te.ToggleNoEnemies()
	for i := 0; i < 60; i++ {
		te.step()
	}
	ground := te.Platforms[0]
	assert.True(t, te.Player.OnGround)
	assert.InDelta(t, ground.Top(), te.Player.Bottom(), 1e-9)
}

func TestEngineResize(t *testing.T) {
	te := newTestEngine(t)
	te.clock.Advance(time.Second)
	te.Update()
	te.score = 700
	te.Player.X = 1200

	te.Resize(640, 360)

	w, h := te.Viewport()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 360.0, h)
	assert.Equal(t, 700, te.Score(), "resize keeps the game")
	assert.Len(t, te.Enemies, InitialEnemies)
	assert.Equal(t, 640.0, te.Platforms[0].Width)
	assert.LessOrEqual(t, te.Player.X+te.Player.Width, 640.0)
	for _, e := range te.Enemies {
		assert.LessOrEqual(t, e.X+e.Width, 640.0)
		assert.LessOrEqual(t, e.Y+e.Height, 360.0)
	}
}

type recordingCanvas struct {
	calls []string
}

func (c *recordingCanvas) Clear()                { c.calls = append(c.calls, "clear") }
func (c *recordingCanvas) DrawPlatform(Platform) { c.calls = append(c.calls, "platform") }
func (c *recordingCanvas) DrawPowerUp(*PowerUp)  { c.calls = append(c.calls, "powerup") }
func (c *recordingCanvas) DrawTrap(*Trap)        { c.calls = append(c.calls, "trap") }
func (c *recordingCanvas) DrawPlayer(*Player)    { c.calls = append(c.calls, "player") }
func (c *recordingCanvas) DrawEnemy(*Enemy)      { c.calls = append(c.calls, "enemy") }
func (c *recordingCanvas) DrawHitbox(Rect)       { c.calls = append(c.calls, "hitbox") }
func (c *recordingCanvas) DrawStatus(Status)     { c.calls = append(c.calls, "status") }
func (c *recordingCanvas) Show()                 { c.calls = append(c.calls, "show") }

func (c *recordingCanvas) last(name string) int {
	idx := -1
	for i, call := range c.calls {
		if call == name {
			idx = i
		}
	}
	return idx
}

func (c *recordingCanvas) first(name string) int {
	for i, call := range c.calls {
		if call == name {
			return i
		}
	}
	return -1
}

func TestEngineRenderOrder(t *testing.T) {
	te := newTestEngine(t)
	te.clock.Advance(time.Second)
	te.Update()
	te.PowerUps = append(te.PowerUps, NewPowerUp(900, 10, PowerUpHealth, testRNG()))
	te.Traps = append(te.Traps, NewTrap(1000, 10, testRNG()))

	c := &recordingCanvas{}
	te.Render(c)

	require.NotEmpty(t, c.calls)
	assert.Equal(t, "clear", c.calls[0])
	assert.Less(t, c.last("platform"), c.first("powerup"))
	assert.Less(t, c.last("powerup"), c.first("trap"))
	assert.Less(t, c.last("trap"), c.first("player"))
	assert.Less(t, c.first("player"), c.first("enemy"))
	assert.Equal(t, []string{"status", "show"}, c.calls[len(c.calls)-2:])
	assert.Equal(t, -1, c.first("hitbox"))

	te.ToggleHitboxes()
	c = &recordingCanvas{}
	te.Render(c)
	assert.Greater(t, c.first("hitbox"), c.last("enemy"))
}

func TestEngineStatus(t *testing.T) {
	te := newTestEngine(t)
	te.score = 2100
	te.step()

	s := te.Status()
	assert.Equal(t, 2100, s.Score)
	assert.Equal(t, PlayerMaxHealth, s.MaxHealth)
	assert.Equal(t, []Ability{AbilityDoubleJump, AbilityDashAttack}, s.Unlocked)
	assert.False(t, s.Paused)
}
