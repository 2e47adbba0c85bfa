package game

// Canvas is a presentation surface. Draw calls arrive back to front.
// Implementations skip anything they cannot draw.
type Canvas interface {
	Clear()
	DrawPlatform(p Platform)
	DrawPowerUp(p *PowerUp)
	DrawTrap(t *Trap)
	DrawPlayer(p *Player)
	DrawEnemy(e *Enemy)
	DrawHitbox(r Rect)
	DrawStatus(s Status)
	Show()
}

// Status is the HUD and overlay state read after an update.
type Status struct {
	Score             int
	Health            float64
	MaxHealth         float64
	Enemies           int
	Invincible        bool
	NoEnemies         bool
	Hitboxes          bool
	Paused            bool
	PausedForControls bool
	GameOver          bool
	DamageBuff        bool
	SpeedBuff         bool
	Unlocked          []Ability
}

func (g *Engine) Status() Status {
	s := Status{
		Score:             g.score,
		Health:            g.Player.Health.Current,
		MaxHealth:         g.Player.Health.Max,
		Enemies:           len(g.Enemies),
		Invincible:        g.invincible,
		NoEnemies:         g.noEnemies,
		Hitboxes:          g.hitboxes,
		Paused:            g.paused,
		PausedForControls: g.pausedForControls,
		GameOver:          g.gameOver,
		DamageBuff:        g.Player.DamageBuff.Active,
		SpeedBuff:         g.Player.SpeedBuff.Active,
	}
	for a := Ability(0); a < abilityCount; a++ {
		if g.Player.Unlocked(a) {
			s.Unlocked = append(s.Unlocked, a)
		}
	}
	return s
}

// Render paints the current state: platforms, power-ups, traps, player,
// enemies, optional hitboxes, then the status overlay.
func (g *Engine) Render(c Canvas) {
	c.Clear()
	for _, pl := range g.Platforms {
		c.DrawPlatform(pl)
	}
	for _, pu := range g.PowerUps {
		c.DrawPowerUp(pu)
	}
	for _, t := range g.Traps {
		c.DrawTrap(t)
	}
	c.DrawPlayer(g.Player)
	for _, e := range g.Enemies {
		c.DrawEnemy(e)
	}
	if g.hitboxes {
		g.renderHitboxes(c)
	}
	c.DrawStatus(g.Status())
	c.Show()
}

func (g *Engine) renderHitboxes(c Canvas) {
	c.DrawHitbox(g.Player.Box())
	if g.Player.Attacking {
		c.DrawHitbox(g.Player.AttackBox())
	}
	for _, e := range g.Enemies {
		c.DrawHitbox(e.Box())
		if e.Attacking {
			c.DrawHitbox(e.AttackBox())
		}
	}
}
