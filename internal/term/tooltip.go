package term

import (
	"time"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

const (
	tipDuration     = 3 * time.Second
	unlockDuration  = 2 * tipDuration
	tipLiftPixels   = 40.0
	unlockTipHeight = 100.0
)

// Tip is a short message shown near where something happened.
type Tip struct {
	Icon     string
	Title    string
	Text     string
	Color    string
	X, Y     float64
	Centered bool
	EndsAt   time.Time
}

type tipInfo struct {
	icon, title, text, color string
}

var powerUpTips = map[game.PowerUpKind]tipInfo{
	game.PowerUpHealth: {"♥", "Heart of Life", "Restores 30 health", "#ff3366"},
	game.PowerUpDamage: {"★", "Power Star", "+50% damage for 10 seconds", "#ffd700"},
	game.PowerUpSpeed:  {"»", "Speed Bolt", "+30% speed for 8 seconds", "#00ff00"},
}

var abilityTips = map[game.Ability]tipInfo{
	game.AbilityDoubleJump: {"↑↑", "Double Jump", "Press W twice to jump again in the air", "#87ceeb"},
	game.AbilityDashAttack: {"»»", "Dash Attack", "Attack while moving to dash", "#ff6b6b"},
	game.AbilityAirAttack:  {"⚔", "Air Attack", "Attack while airborne", "#ffd700"},
}

// Tooltips keeps the one message on screen. Unlock announcements are not
// replaced by power-up messages until they expire.
type Tooltips struct {
	clock  game.Clock
	active *Tip
}

func NewTooltips(clock game.Clock) *Tooltips {
	return &Tooltips{clock: clock}
}

// Subscribe wires the tooltips to engine events.
func (t *Tooltips) Subscribe(bus *game.EventBus) {
	bus.Subscribe(game.EventPowerUpSpawned, func(e game.Event) {
		t.showPowerUp(game.PowerUpKind(e.Data), e.X, e.Y)
	})
	bus.Subscribe(game.EventAbilityUnlocked, func(e game.Event) {
		t.showAbility(game.Ability(e.Data))
	})
	bus.Subscribe(game.EventReset, func(game.Event) {
		t.active = nil
	})
}

func (t *Tooltips) showPowerUp(kind game.PowerUpKind, x, y float64) {
	info, ok := powerUpTips[kind]
	if !ok || t.unlockShowing() {
		return
	}
	t.active = &Tip{
		Icon:   info.icon,
		Title:  info.title,
		Text:   info.text,
		Color:  info.color,
		X:      x,
		Y:      y - tipLiftPixels,
		EndsAt: t.clock.Now().Add(tipDuration),
	}
}

func (t *Tooltips) showAbility(a game.Ability) {
	info, ok := abilityTips[a]
	if !ok || t.unlockShowing() {
		return
	}
	t.active = &Tip{
		Icon:     info.icon,
		Title:    "New ability: " + info.title,
		Text:     info.text,
		Color:    info.color,
		Y:        unlockTipHeight,
		Centered: true,
		EndsAt:   t.clock.Now().Add(unlockDuration),
	}
}

func (t *Tooltips) unlockShowing() bool {
	tip, ok := t.Current()
	return ok && tip.Centered
}

// Current returns the live tip, if any.
func (t *Tooltips) Current() (Tip, bool) {
	if t.active == nil {
		return Tip{}, false
	}
	if !t.clock.Now().Before(t.active.EndsAt) {
		t.active = nil
		return Tip{}, false
	}
	return *t.active, true
}
