package term

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

//go:embed sprites.yaml
var defaultSheet []byte

// Frame is one glyph picture, top row first.
type Frame []string

// Sprite holds the animations of one entity type. Width and Height are the
// simulation box of an enemy kind; the player box is fixed by the game.
type Sprite struct {
	Width   float64            `yaml:"width"`
	Height  float64            `yaml:"height"`
	Color   string             `yaml:"color"`
	Actions map[string][]Frame `yaml:"actions"`

	style tcell.Style
}

// Lookup returns the frame an entity shows for action at animation counter n.
func (s *Sprite) Lookup(action string, n int) (Frame, bool) {
	frames := s.Actions[action]
	if len(frames) == 0 {
		return nil, false
	}
	if n < 0 {
		n = -n
	}
	return frames[n%len(frames)], true
}

func (s *Sprite) Style() tcell.Style { return s.style }

// Sheet is the full glyph sprite set. It implements game.SpriteCatalog.
type Sheet struct {
	Player  Sprite                    `yaml:"player"`
	Enemies map[game.EnemyKind]Sprite `yaml:"enemies"`

	kinds []game.EnemyKind
}

// DefaultSheet parses the sprite sheet compiled into the binary.
func DefaultSheet() (*Sheet, error) {
	return ParseSheet(defaultSheet)
}

// ParseSheet decodes and checks a YAML sprite sheet.
func ParseSheet(data []byte) (*Sheet, error) {
	var sh Sheet
	if err := yaml.Unmarshal(data, &sh); err != nil {
		return nil, fmt.Errorf("parse sprite sheet: %w", err)
	}
	if err := sh.Player.prepare(); err != nil {
		return nil, fmt.Errorf("player sprite: %w", err)
	}
	if len(sh.Enemies) == 0 {
		return nil, fmt.Errorf("sprite sheet: %w", game.ErrNoSprites)
	}
	for kind, sp := range sh.Enemies {
		if sp.Width <= 0 || sp.Height <= 0 {
			return nil, fmt.Errorf("enemy sprite %s: size %vx%v must be positive", kind, sp.Width, sp.Height)
		}
		if err := sp.prepare(); err != nil {
			return nil, fmt.Errorf("enemy sprite %s: %w", kind, err)
		}
		sh.Enemies[kind] = sp
		sh.kinds = append(sh.kinds, kind)
	}
	slices.Sort(sh.kinds)
	return &sh, nil
}

func (s *Sprite) prepare() error {
	if len(s.Actions["idle"]) == 0 {
		return errors.New("missing idle frames")
	}
	for action, frames := range s.Actions {
		for i, f := range frames {
			if len(f) == 0 {
				return fmt.Errorf("%s frame %d is empty", action, i)
			}
		}
	}
	s.style = tcell.StyleDefault
	if s.Color != "" {
		c := tcell.GetColor(s.Color)
		if c == tcell.ColorDefault && !strings.EqualFold(s.Color, "default") {
			return fmt.Errorf("unknown color %q", s.Color)
		}
		s.style = s.style.Foreground(c)
	}
	return nil
}

// EnemyKinds lists the enemy kinds in a stable order.
func (sh *Sheet) EnemyKinds() []game.EnemyKind {
	return sh.kinds
}

func (sh *Sheet) EnemySize(kind game.EnemyKind) (width, height float64, ok bool) {
	sp, ok := sh.Enemies[kind]
	if !ok {
		return 0, 0, false
	}
	return sp.Width, sp.Height, true
}

func (sh *Sheet) Enemy(kind game.EnemyKind) (*Sprite, bool) {
	sp, ok := sh.Enemies[kind]
	if !ok {
		return nil, false
	}
	return &sp, true
}

var mirrored = map[rune]rune{
	'(': ')', ')': '(',
	'/': '\\', '\\': '/',
	'<': '>', '>': '<',
	'{': '}', '}': '{',
	'[': ']', ']': '[',
	'╱': '╲', '╲': '╱',
}

// Mirror flips a frame horizontally, swapping directional glyphs.
func (f Frame) Mirror() Frame {
	out := make(Frame, len(f))
	for i, row := range f {
		rs := []rune(row)
		slices.Reverse(rs)
		for j, r := range rs {
			if m, ok := mirrored[r]; ok {
				rs[j] = m
			}
		}
		out[i] = string(rs)
	}
	return out
}

// Width is the widest row in cells.
func (f Frame) Width() int {
	w := 0
	for _, row := range f {
		w = max(w, len([]rune(row)))
	}
	return w
}
