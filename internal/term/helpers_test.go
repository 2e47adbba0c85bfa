package term

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

// newScreen returns an initialised 80x25 simulation screen.
func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(s, y)
	}
	return strings.Join(rows, "\n")
}

func testSheet(t *testing.T) *Sheet {
	t.Helper()
	sh, err := DefaultSheet()
	require.NoError(t, err)
	return sh
}

func newTestEngine(t *testing.T, clock game.Clock, keys game.KeySource, sh *Sheet, bus *game.EventBus) *game.Engine {
	t.Helper()
	g, err := game.NewEngine(game.Options{
		Config:  game.DefaultConfig(),
		Clock:   clock,
		Rand:    testRNG(),
		Keys:    keys,
		Sprites: sh,
		Bus:     bus,
	}, 640, 400)
	require.NoError(t, err)
	return g
}
