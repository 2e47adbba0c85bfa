package term

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

func TestTooltipShowsSpawnedPowerUp(t *testing.T) {
	clock := game.NewFakeClock(epoch)
	bus := game.NewEventBus()
	tips := NewTooltips(clock)
	tips.Subscribe(bus)

	bus.Emit(game.Event{Type: game.EventPowerUpSpawned, X: 200, Y: 100, Data: int(game.PowerUpDamage)})
	tip, ok := tips.Current()
	require.True(t, ok)
	assert.Equal(t, "Power Star", tip.Title)
	assert.Equal(t, 60.0, tip.Y)
	assert.False(t, tip.Centered)

	clock.Advance(tipDuration)
	_, ok = tips.Current()
	assert.False(t, ok, "expired")
}

func TestTooltipUnlockIsNotReplaced(t *testing.T) {
	clock := game.NewFakeClock(epoch)
	bus := game.NewEventBus()
	tips := NewTooltips(clock)
	tips.Subscribe(bus)

	bus.Emit(game.Event{Type: game.EventAbilityUnlocked, Data: int(game.AbilityDashAttack)})
	bus.Emit(game.Event{Type: game.EventPowerUpSpawned, Data: int(game.PowerUpHealth)})
	bus.Emit(game.Event{Type: game.EventAbilityUnlocked, Data: int(game.AbilityAirAttack)})

	tip, ok := tips.Current()
	require.True(t, ok)
	assert.True(t, tip.Centered)
	assert.Equal(t, "New ability: Dash Attack", tip.Title)

	clock.Advance(tipDuration + time.Second)
	tip, ok = tips.Current()
	require.True(t, ok, "unlocks stay up twice as long")
	assert.Equal(t, "New ability: Dash Attack", tip.Title)

	bus.Emit(game.Event{Type: game.EventReset})
	_, ok = tips.Current()
	assert.False(t, ok)
}
