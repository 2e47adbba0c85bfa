package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Music is the background track the engine pauses and resumes.
type Music interface {
	Pause()
	Resume()
}

type nopMusic struct{}

func (nopMusic) Pause()  {}
func (nopMusic) Resume() {}

// Options wires an Engine to its collaborators. Only Sprites is required.
type Options struct {
	Config  Config
	Clock   Clock
	Rand    *rand.Rand
	Keys    KeySource
	Sprites SpriteCatalog
	Music   Music
	Bus     *EventBus
	Logger  *slog.Logger
}

// Engine owns every entity and advances them in a fixed order each frame.
type Engine struct {
	Player    *Player
	Enemies   []*Enemy
	PowerUps  []*PowerUp
	Traps     []*Trap
	Platforms []Platform

	clock   Clock
	rng     *rand.Rand
	sprites SpriteCatalog
	music   Music
	bus     *EventBus
	log     *slog.Logger

	input      *InputState
	phys       Physics
	collisions CollisionSystem
	generator  *PlatformGenerator
	spawner    *Spawner

	width, height float64

	score             int
	paused            bool
	pausedForControls bool
	gameOver          bool
	invincible        bool
	noEnemies         bool
	hitboxes          bool

	lastEnemySpawn   time.Time
	lastPowerUpSpawn time.Time
	lastTrapSpawn    time.Time
	enemyInterval    time.Duration
	pending          []pendingEnemy
}

// NewEngine builds an engine for a width x height viewport and starts a game.
func NewEngine(opts Options, width, height float64) (*Engine, error) {
	if opts.Sprites == nil || len(opts.Sprites.EnemyKinds()) == 0 {
		return nil, fmt.Errorf("new engine: %w", ErrNoSprites)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Music == nil {
		opts.Music = nopMusic{}
	}
	if opts.Bus == nil {
		opts.Bus = NewEventBus()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	g := &Engine{
		clock:      opts.Clock,
		rng:        opts.Rand,
		sprites:    opts.Sprites,
		music:      opts.Music,
		bus:        opts.Bus,
		log:        opts.Logger.With("component", "engine"),
		input:      NewInputState(opts.Keys),
		generator:  NewPlatformGenerator(opts.Rand),
		spawner:    NewSpawner(opts.Rand),
		width:      width,
		height:     height,
		invincible: opts.Config.Debug.Invincible,
		noEnemies:  opts.Config.Debug.NoEnemies,
		hitboxes:   opts.Config.Debug.Hitboxes,
	}
	g.Reset()
	return g, nil
}

// Host implementation.

func (g *Engine) Now() time.Time                    { return g.clock.Now() }
func (g *Engine) Score() int                        { return g.score }
func (g *Engine) Invincible() bool                  { return g.invincible }
func (g *Engine) Viewport() (width, height float64) { return g.width, g.height }
func (g *Engine) Emit(e Event)                      { g.bus.Emit(e) }

// EndGame flags game over once.
func (g *Engine) EndGame() {
	if g.gameOver {
		return
	}
	g.gameOver = true
	g.log.Info("game over", "score", g.score)
	g.Emit(Event{Type: EventGameOver, X: g.Player.X, Y: g.Player.Y, Data: g.score})
}

func (g *Engine) Bus() *EventBus          { return g.bus }
func (g *Engine) Paused() bool            { return g.paused }
func (g *Engine) PausedForControls() bool { return g.pausedForControls }
func (g *Engine) GameOver() bool          { return g.gameOver }
func (g *Engine) NoEnemies() bool         { return g.noEnemies }
func (g *Engine) Hitboxes() bool          { return g.hitboxes }

// Update advances the simulation one frame. Nothing moves while either pause
// is active. After game over only the restart key is read.
func (g *Engine) Update() {
	if g.paused || g.pausedForControls {
		return
	}
	now := g.clock.Now()
	g.input.Poll(now)

	if g.gameOver {
		if g.input.Pressed(ActionRestart) {
			g.Reset()
		}
		return
	}

	g.Player.Update(g.input, g.phys, g)
	g.updateEnemies(now)
	g.updatePowerUps(now)
	g.updateTraps(now)

	g.collisions.LandPlayer(g.Player, g.Platforms, g.height)
	g.collisions.ResolveAttack(g.Player, g.Enemies, now)

	if g.Player.Health.IsDead() {
		g.EndGame()
	}
}

func (g *Engine) updateEnemies(now time.Time) {
	if g.noEnemies {
		g.clearEnemies()
		return
	}
	g.releasePending(now)

	if len(g.Enemies) < MaxEnemies && now.Sub(g.lastEnemySpawn) > g.enemyInterval {
		g.spawnEnemy()
		g.lastEnemySpawn = now
		g.enemyInterval = EnemySpawnIntervalFor(g.score)
	}

	live := g.Enemies[:0]
	for _, e := range g.Enemies {
		if e.Health.IsDead() {
			g.score += KillScore
			g.Emit(Event{Type: EventEnemyKilled, X: e.X, Y: e.Y, Data: g.score})
			continue
		}
		e.Update(g.Player, g.Platforms, g)
		live = append(live, e)
	}
	clear(g.Enemies[len(live):])
	g.Enemies = live
}

func (g *Engine) releasePending(now time.Time) {
	n := 0
	for _, p := range g.pending {
		if now.Before(p.due) {
			g.pending[n] = p
			n++
			continue
		}
		g.addEnemy(p.x, p.y)
	}
	g.pending = g.pending[:n]
}

func (g *Engine) spawnEnemy() {
	x, y := g.spawner.EnemyPosition(g.Enemies, g.width, g.height)
	g.addEnemy(x, y)
}

func (g *Engine) addEnemy(x, y float64) {
	e, err := NewEnemy(x, y, g.sprites, g.rng)
	if err != nil {
		g.log.Error("spawn enemy", "err", err)
		return
	}
	g.Enemies = append(g.Enemies, e)
}

func (g *Engine) clearEnemies() {
	clear(g.Enemies)
	g.Enemies = g.Enemies[:0]
	g.pending = nil
}

func (g *Engine) updatePowerUps(now time.Time) {
	if now.Sub(g.lastPowerUpSpawn) > PowerUpInterval {
		kind := g.spawner.PowerUpKind(g.score)
		pu := NewPowerUp(g.spawner.DropX(g.width), -PickupSize, kind, g.rng)
		g.PowerUps = append(g.PowerUps, pu)
		g.lastPowerUpSpawn = now
		g.Emit(Event{Type: EventPowerUpSpawned, X: pu.X, Y: pu.Y, Data: int(kind)})
	}

	kept := g.PowerUps[:0]
	for _, pu := range g.PowerUps {
		pu.Update(now)
		if g.phys.Overlap(g.Player, pu) {
			g.Player.ApplyPowerUp(pu.Kind, now)
			g.Emit(Event{Type: EventPowerUpCollected, X: pu.X, Y: pu.Y, Data: int(pu.Kind)})
			continue
		}
		if pu.offscreen(g.height) {
			continue
		}
		kept = append(kept, pu)
	}
	clear(g.PowerUps[len(kept):])
	g.PowerUps = kept
}

func (g *Engine) updateTraps(now time.Time) {
	if len(g.Traps) < MaxTraps && now.Sub(g.lastTrapSpawn) > TrapInterval {
		g.Traps = append(g.Traps, NewTrap(g.spawner.DropX(g.width), -PickupSize, g.rng))
		g.lastTrapSpawn = now
	}

	kept := g.Traps[:0]
	for _, t := range g.Traps {
		t.Update(now)
		if g.phys.Overlap(g.Player, t) {
			g.Player.TakeDamage(t.Damage, g)
			g.Emit(Event{Type: EventTrapHit, X: t.X, Y: t.Y, Data: int(t.Damage)})
			continue
		}
		if t.offscreen(g.height) {
			continue
		}
		kept = append(kept, t)
	}
	clear(g.Traps[len(kept):])
	g.Traps = kept
}

// TogglePause flips the player-requested pause and the music with it.
func (g *Engine) TogglePause() {
	g.paused = !g.paused
	g.log.Info("pause", "paused", g.paused)
	g.syncMusic()
}

// PauseForControls holds the game while the controls legend is open.
func (g *Engine) PauseForControls() {
	g.pausedForControls = true
	g.syncMusic()
}

func (g *Engine) ResumeFromControls() {
	g.pausedForControls = false
	g.syncMusic()
}

func (g *Engine) syncMusic() {
	if g.paused || g.pausedForControls {
		g.music.Pause()
		return
	}
	g.music.Resume()
}

func (g *Engine) ToggleInvincible() {
	g.invincible = !g.invincible
	g.log.Info("invincible mode", "enabled", g.invincible)
}

// ToggleNoEnemies suppresses enemy spawns. Turning it on clears every live
// and pending enemy.
func (g *Engine) ToggleNoEnemies() {
	g.noEnemies = !g.noEnemies
	if g.noEnemies {
		g.clearEnemies()
	}
	g.log.Info("no-enemies mode", "enabled", g.noEnemies)
}

func (g *Engine) ToggleHitboxes() {
	g.hitboxes = !g.hitboxes
	g.log.Info("hitboxes", "enabled", g.hitboxes)
}

// Reset starts a new game on fresh platforms. Debug toggles survive.
func (g *Engine) Reset() {
	now := g.clock.Now()
	wasPaused := g.paused || g.pausedForControls

	g.score = 0
	g.gameOver = false
	g.paused = false
	g.pausedForControls = false

	g.lastEnemySpawn = now
	g.lastPowerUpSpawn = now
	g.lastTrapSpawn = now
	g.enemyInterval = EnemySpawnInterval

	g.clearEnemies()
	clear(g.PowerUps)
	g.PowerUps = g.PowerUps[:0]
	clear(g.Traps)
	g.Traps = g.Traps[:0]

	g.Platforms = g.generator.Generate(g.width, g.height)
	g.Player = NewPlayer(PlayerSpawnX, g.height-PlayerSpawnLift)
	g.input.Reset()
	if !g.noEnemies {
		g.pending = g.spawner.InitialWave(g.width, g.height, now)
	}

	if wasPaused {
		g.music.Resume()
	}
	g.log.Info("reset", "width", g.width, "height", g.height)
	g.Emit(Event{Type: EventReset})
}

// Resize lays out new platforms for the viewport and moves the player and
// enemies back inside it. Score and game state are kept.
func (g *Engine) Resize(width, height float64) {
	if width == g.width && height == g.height {
		return
	}
	g.width, g.height = width, height
	g.Platforms = g.generator.Generate(width, height)

	for _, pl := range g.Platforms {
		if !pl.Ground {
			g.phys.Resolve(&g.Player.Body, pl)
		}
	}
	g.Player.HandleResize(width, height, g.phys)
	for _, e := range g.Enemies {
		e.HandleResize(width, height, g.phys)
	}
	for i := range g.pending {
		g.pending[i].x = clamp(g.pending[i].x, SpawnMargin, width-SpawnMargin)
		g.pending[i].y = clamp(g.pending[i].y, 0, height)
	}
	g.log.Debug("resize", "width", width, "height", height)
}
