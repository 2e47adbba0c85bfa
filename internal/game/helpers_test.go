package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// testRNG returns a seeded RNG for deterministic tests
func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

type stubSprites struct{}

func (stubSprites) EnemyKinds() []EnemyKind {
	return []EnemyKind{"warrior", "skeleton"}
}

func (stubSprites) EnemySize(kind EnemyKind) (float64, float64, bool) {
	switch kind {
	case "warrior":
		return 80, 80, true
	case "skeleton":
		return 70, 90, true
	}
	return 0, 0, false
}

type emptySprites struct{}

func (emptySprites) EnemyKinds() []EnemyKind                      { return nil }
func (emptySprites) EnemySize(EnemyKind) (float64, float64, bool) { return 0, 0, false }

// keys is a KeySource driven directly by tests.
type keys map[Action]bool

func (k keys) Pressed(a Action) bool { return k[a] }

type stubHost struct {
	clock      *FakeClock
	score      int
	invincible bool
	width      float64
	height     float64
	events     []Event
	ended      bool
}

func newStubHost() *stubHost {
	return &stubHost{clock: NewFakeClock(epoch), width: 2000, height: 1000}
}

func (h *stubHost) Now() time.Time                    { return h.clock.Now() }
func (h *stubHost) Score() int                        { return h.score }
func (h *stubHost) Invincible() bool                  { return h.invincible }
func (h *stubHost) Viewport() (width, height float64) { return h.width, h.height }
func (h *stubHost) Emit(e Event)                      { h.events = append(h.events, e) }
func (h *stubHost) EndGame()                          { h.ended = true }

func (h *stubHost) count(t EventType) int {
	n := 0
	for _, e := range h.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type recordingMusic struct {
	playing bool
	pauses  int
	resumes int
}

func (m *recordingMusic) Pause() {
	m.playing = false
	m.pauses++
}

func (m *recordingMusic) Resume() {
	m.playing = true
	m.resumes++
}

type testEngine struct {
	*Engine
	clock *FakeClock
	keys  keys
	music *recordingMusic
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	clock := NewFakeClock(epoch)
	k := keys{}
	music := &recordingMusic{playing: true}
	g, err := NewEngine(Options{
		Config:  DefaultConfig(),
		Clock:   clock,
		Rand:    testRNG(),
		Keys:    k,
		Sprites: stubSprites{},
		Music:   music,
	}, 1280, 720)
	require.NoError(t, err)
	return &testEngine{Engine: g, clock: clock, keys: k, music: music}
}

// step advances the clock by one 60fps frame and updates.
func (te *testEngine) step() {
	te.clock.Advance(time.Second / 60)
	te.Update()
}

func groundAt(y, width float64) []Platform {
	return []Platform{{X: 0, Y: y, Width: width, Height: GroundThickness, Ground: true}}
}

func newTestEnemy(t *testing.T, x, y float64) *Enemy {
	t.Helper()
	e, err := NewEnemyOfKind(x, y, "warrior", stubSprites{}, testRNG())
	require.NoError(t, err)
	return e
}

// rollSource makes rand.Float64 return the queued rolls in order, then 0.99
// once they run out.
type rollSource struct {
	rolls []float64
}

func (s *rollSource) Int63() int64 {
	f := 0.99
	if len(s.rolls) > 0 {
		f, s.rolls = s.rolls[0], s.rolls[1:]
	}
	return int64(f * (1 << 63))
}

func (s *rollSource) Seed(int64) {}

func scriptedRand(rolls ...float64) *rand.Rand {
	return rand.New(&rollSource{rolls: rolls})
}
