package game

import "time"

// Action is a logical key the simulation reads. Frontends map physical keys onto these.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionJump
	ActionAttack
	ActionRun
	ActionRestart
	actionCount
)

var actionNames = [...]string{"left", "right", "jump", "attack", "run", "restart"}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// KeySource answers whether an action's key is currently held.
type KeySource interface {
	Pressed(a Action) bool
}

// PressCounter is implemented by key sources that count distinct presses
// themselves, such as terminals that report auto-repeat but no release. When
// the source has one, only a change in its count is a press edge: a held key
// that briefly reads as up is not pressed again, and a quick second press is
// an edge even if the key never read as up.
type PressCounter interface {
	Presses(a Action) uint64
}

// InputState samples a KeySource once per frame and derives edges from it.
type InputState struct {
	src       KeySource
	counter   PressCounter
	now       time.Time
	down      [actionCount]bool
	prev      [actionCount]bool
	edge      [actionCount]bool
	presses   [actionCount]uint64
	lastEdge  [actionCount]time.Time
	priorEdge [actionCount]time.Time
}

func NewInputState(src KeySource) *InputState {
	counter, _ := src.(PressCounter)
	return &InputState{src: src, counter: counter}
}

// Poll takes this frame's sample. Must run exactly once per update.
func (in *InputState) Poll(now time.Time) {
	in.now = now
	in.prev = in.down
	for a := Action(0); a < actionCount; a++ {
		down := in.src != nil && in.src.Pressed(a)
		in.edge[a] = down && !in.prev[a]
		if in.counter != nil {
			n := in.counter.Presses(a)
			in.edge[a] = down && n != in.presses[a]
			in.presses[a] = n
		}
		if in.edge[a] {
			in.priorEdge[a] = in.lastEdge[a]
			in.lastEdge[a] = now
		}
		in.down[a] = down
	}
}

func (in *InputState) Pressed(a Action) bool {
	return in.down[a]
}

// JustPressed is true on the first frame an action goes down.
func (in *InputState) JustPressed(a Action) bool {
	return in.edge[a]
}

func (in *InputState) JustReleased(a Action) bool {
	return !in.down[a] && in.prev[a]
}

// DoubleTap is true on a press edge whose previous press edge was within window.
func (in *InputState) DoubleTap(a Action, window time.Duration) bool {
	if !in.JustPressed(a) || in.priorEdge[a].IsZero() {
		return false
	}
	return in.now.Sub(in.priorEdge[a]) < window
}

// Reset forgets held keys and edge history. Press counts are kept so the
// source's running totals do not read as new presses.
func (in *InputState) Reset() {
	*in = InputState{src: in.src, counter: in.counter, presses: in.presses}
}
