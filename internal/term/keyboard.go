package term

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

// Command is a one-shot request from the keyboard that the app loop handles
// outside the simulation.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPause
	CmdControls
	CmdInvincible
	CmdNoEnemies
	CmdHitboxes
	CmdVolumeUp
	CmdVolumeDown
	CmdMute
)

// KeyTiming describes how a terminal's key events look for a held key: one
// event, a pause of up to RepeatDelay, then auto-repeats closer than Hold.
type KeyTiming struct {
	// Hold is how long a key reads as down after its last event.
	Hold time.Duration

	// Retap is the longest gap after a lone event that still counts as a
	// second press. Terminals do not start auto-repeat this soon.
	Retap time.Duration

	// RepeatDelay is the longest wait for the first auto-repeat. A second
	// event between Retap and RepeatDelay continues the same press.
	RepeatDelay time.Duration
}

// KeyTimingFrom reads key timing from the terminal settings.
func KeyTimingFrom(c game.TerminalConfig) KeyTiming {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return KeyTiming{
		Hold:        ms(c.KeyHoldMS),
		Retap:       ms(c.KeyRetapMS),
		RepeatDelay: ms(c.KeyRepeatDelayMS),
	}
}

func DefaultKeyTiming() KeyTiming {
	return KeyTimingFrom(game.DefaultConfig().Terminal)
}

type keyState struct {
	last      time.Time
	repeating bool
}

// Keyboard turns tcell key events into held actions. Terminals report no key
// releases, so a key counts as held until the hold has passed since its last
// press or auto-repeat. It also counts distinct presses, which is what the
// simulation uses for press edges.
type Keyboard struct {
	clock   game.Clock
	timing  KeyTiming
	keys    map[game.Action]keyState
	presses map[game.Action]uint64
}

func NewKeyboard(clock game.Clock, timing KeyTiming) *Keyboard {
	return &Keyboard{
		clock:   clock,
		timing:  timing,
		keys:    make(map[game.Action]keyState),
		presses: make(map[game.Action]uint64),
	}
}

// Pressed implements game.KeySource.
func (k *Keyboard) Pressed(a game.Action) bool {
	s, ok := k.keys[a]
	return ok && k.clock.Now().Sub(s.last) < k.timing.Hold
}

// Presses implements game.PressCounter.
func (k *Keyboard) Presses(a game.Action) uint64 {
	return k.presses[a]
}

// Reset forgets every held key. Press counts keep running.
func (k *Keyboard) Reset() {
	clear(k.keys)
}

// Handle records movement keys and returns any command the key maps to.
func (k *Keyboard) Handle(ev *tcell.EventKey) Command {
	now := k.clock.Now()
	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyLeft:
		k.press(now, game.ActionLeft, shift)
	case tcell.KeyRight:
		k.press(now, game.ActionRight, shift)
	case tcell.KeyUp:
		k.press(now, game.ActionJump, false)
	case tcell.KeyEscape:
		return CmdPause
	case tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyRune:
		return k.handleRune(now, ev.Rune())
	}
	return CmdNone
}

func (k *Keyboard) handleRune(now time.Time, r rune) Command {
	// Toggles are lower-case only so a held Shift never flips them.
	switch r {
	case 'q', 'Q':
		return CmdQuit
	case 'c', '?':
		return CmdControls
	case 'p':
		return CmdInvincible
	case 'i':
		return CmdNoEnemies
	case 'h':
		return CmdHitboxes
	case '+', '=':
		return CmdVolumeUp
	case '-', '_':
		return CmdVolumeDown
	case 'm':
		return CmdMute
	case ' ':
		k.press(now, game.ActionAttack, false)
		return CmdNone
	}

	run := unicode.IsUpper(r)
	switch unicode.ToLower(r) {
	case 'a':
		k.press(now, game.ActionLeft, run)
	case 'd':
		k.press(now, game.ActionRight, run)
	case 'w':
		k.press(now, game.ActionJump, false)
	case 'n':
		k.press(now, game.ActionAttack, false)
	case 'r':
		k.press(now, game.ActionRestart, false)
	}
	return CmdNone
}

func (k *Keyboard) press(now time.Time, a game.Action, run bool) {
	k.record(now, a)
	if run {
		k.record(now, game.ActionRun)
	}
}

// record files one event for a as either a new press or an auto-repeat of
// the press already in progress.
func (k *Keyboard) record(now time.Time, a game.Action) {
	s, ok := k.keys[a]
	gap := now.Sub(s.last)
	switch {
	case ok && s.repeating && gap < k.timing.Hold:
	case ok && !s.repeating && gap >= k.timing.Retap && gap < k.timing.RepeatDelay:
		s.repeating = true
	default:
		s.repeating = false
		k.presses[a]++
	}
	s.last = now
	k.keys[a] = s
}
