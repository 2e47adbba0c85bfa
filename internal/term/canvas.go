package term

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

const (
	healthBarCells = 20
	trapSpinner    = `|/-\`
)

var (
	groundStyle   = tcell.StyleDefault.Foreground(tcell.Color(240))
	platformStyle = tcell.StyleDefault.Foreground(tcell.Color(51))
	hitboxStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	trapStyle     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	scoreStyle    = tcell.StyleDefault.Foreground(tcell.GetColor("#ffa500")).Bold(true)
	textStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle      = tcell.StyleDefault.Foreground(tcell.Color(244))
	modeStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

var controls = []struct{ key, action string }{
	{"W / ↑", "Jump (twice for double jump)"},
	{"A / ←", "Move left"},
	{"D / →", "Move right"},
	{"Shift", "Run"},
	{"SPACE / N", "Attack"},
	{"ESC", "Pause"},
	{"+ / - / M", "Volume up / down / mute"},
	{"P / I / H", "Invincible / no enemies / hitboxes"},
	{"C", "Close this panel"},
	{"Q", "Quit"},
}

// Canvas draws the game onto a tcell screen. Simulation pixels map onto
// cells of cellW x cellH.
type Canvas struct {
	screen       tcell.Screen
	sheet        *Sheet
	tips         *Tooltips
	cellW, cellH float64
}

func NewCanvas(screen tcell.Screen, sheet *Sheet, tips *Tooltips, cellW, cellH int) *Canvas {
	return &Canvas{
		screen: screen,
		sheet:  sheet,
		tips:   tips,
		cellW:  float64(cellW),
		cellH:  float64(cellH),
	}
}

// SetCellSize changes how many simulation pixels one cell covers.
func (c *Canvas) SetCellSize(cellW, cellH int) {
	c.cellW, c.cellH = float64(cellW), float64(cellH)
}

// Cell converts a simulation point to a screen cell.
func (c *Canvas) Cell(x, y float64) (col, row int) {
	return int(math.Floor(x / c.cellW)), int(math.Floor(y / c.cellH))
}

func (c *Canvas) Clear() { c.screen.Clear() }
func (c *Canvas) Show()  { c.screen.Show() }

func (c *Canvas) DrawPlatform(p game.Platform) {
	style := platformStyle
	if p.Ground {
		style = groundStyle
	}
	x0, row := c.Cell(p.X, p.Y)
	x1, _ := c.Cell(p.X+p.Width, p.Y)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if p.Ground {
		_, h := c.screen.Size()
		row = min(row, h-1)
	}
	for x := x0; x < x1; x++ {
		c.screen.SetContent(x, row, '━', nil, style)
	}
}

func (c *Canvas) DrawPowerUp(p *game.PowerUp) {
	info, ok := powerUpTips[p.Kind]
	if !ok {
		return
	}
	col, row := c.Cell(p.Box().Center())
	style := tcell.StyleDefault.Foreground(tcell.GetColor(info.color)).Bold(true)
	c.drawText(col, row, []rune(info.icon)[0:1], style)
}

func (c *Canvas) DrawTrap(t *game.Trap) {
	spin := []rune(trapSpinner)
	i := int(t.Rotation*2) % len(spin)
	col, row := c.Cell(t.Box().Center())
	c.screen.SetContent(col, row, spin[i], nil, trapStyle)
}

func (c *Canvas) DrawPlayer(p *game.Player) {
	sp := &c.sheet.Player
	frame, ok := sp.Lookup(p.Action(), p.Frame())
	if !ok {
		return
	}
	style := sp.Style()
	if p.DamageBuff.Active {
		style = style.Bold(true)
	}
	c.drawSprite(p.Box(), frame, p.FacingLeft, style)
}

func (c *Canvas) DrawEnemy(e *game.Enemy) {
	sp, ok := c.sheet.Enemy(e.Kind)
	if !ok {
		return
	}
	frame, ok := sp.Lookup(e.Action(), e.Frame())
	if !ok {
		return
	}
	c.drawSprite(e.Box(), frame, e.FacingLeft, sp.Style())
}

// drawSprite anchors a frame to the bottom centre of box. Blank glyphs are
// transparent.
func (c *Canvas) drawSprite(box game.Rect, frame Frame, facingLeft bool, style tcell.Style) {
	if facingLeft {
		frame = frame.Mirror()
	}
	cx, _ := box.Center()
	col, bottom := c.Cell(cx, box.Bottom()-1)
	left := col - frame.Width()/2
	top := bottom - len(frame) + 1
	for dy, line := range frame {
		for dx, r := range []rune(line) {
			if r == ' ' {
				continue
			}
			c.screen.SetContent(left+dx, top+dy, r, nil, style)
		}
	}
}

func (c *Canvas) DrawHitbox(r game.Rect) {
	x0, y0 := c.Cell(r.X, r.Y)
	x1, y1 := c.Cell(r.Right()-1, r.Bottom()-1)
	for x := x0; x <= x1; x++ {
		c.screen.SetContent(x, y0, '─', nil, hitboxStyle)
		c.screen.SetContent(x, y1, '─', nil, hitboxStyle)
	}
	for y := y0; y <= y1; y++ {
		c.screen.SetContent(x0, y, '│', nil, hitboxStyle)
		c.screen.SetContent(x1, y, '│', nil, hitboxStyle)
	}
	c.screen.SetContent(x0, y0, '┌', nil, hitboxStyle)
	c.screen.SetContent(x1, y0, '┐', nil, hitboxStyle)
	c.screen.SetContent(x0, y1, '└', nil, hitboxStyle)
	c.screen.SetContent(x1, y1, '┘', nil, hitboxStyle)
}

// DrawStatus draws the HUD, the current tooltip and any overlay.
func (c *Canvas) DrawStatus(s game.Status) {
	w, h := c.screen.Size()

	c.drawCentered(0, fmt.Sprintf("Score: %d", s.Score), scoreStyle)
	c.drawHealthBar(1, 1, s.Health, s.MaxHealth)
	c.drawModes(1, 2, s)
	c.drawAbilities(w, s)
	c.drawTip()

	switch {
	case s.GameOver:
		c.drawGameOver(s.Score)
	case s.PausedForControls:
		c.drawControls()
	case s.Paused:
		c.drawPaused()
	default:
		hint := "C: controls"
		c.drawText(w-len(hint)-1, h-1, []rune(hint), dimStyle)
	}
}

func (c *Canvas) drawHealthBar(x, y int, health, maxHealth float64) {
	frac := 0.0
	if maxHealth > 0 {
		frac = math.Max(0, math.Min(1, health/maxHealth))
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	switch {
	case frac > 0.6:
		style = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case frac > 0.3:
		style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	filled := int(math.Round(frac * healthBarCells))

	x = c.drawText(x, y, []rune("HP "), textStyle)
	x = c.drawText(x, y, []rune(strings.Repeat("█", filled)), style)
	x = c.drawText(x, y, []rune(strings.Repeat("░", healthBarCells-filled)), dimStyle)
	c.drawText(x, y, []rune(fmt.Sprintf(" %d/%d", int(math.Ceil(health)), int(maxHealth))), textStyle)
}

func (c *Canvas) drawModes(x, y int, s game.Status) {
	var modes []string
	if s.Invincible {
		modes = append(modes, "INVINCIBLE")
	}
	if s.NoEnemies {
		modes = append(modes, "NO ENEMIES")
	}
	if s.DamageBuff {
		modes = append(modes, "DAMAGE UP")
	}
	if s.SpeedBuff {
		modes = append(modes, "SPEED UP")
	}
	c.drawText(x, y, []rune(strings.Join(modes, "  ")), modeStyle)
}

// drawAbilities lists every ability down the right edge, dimmed until unlocked.
func (c *Canvas) drawAbilities(w int, s game.Status) {
	unlocked := make(map[game.Ability]bool, len(s.Unlocked))
	for _, a := range s.Unlocked {
		unlocked[a] = true
	}
	for i, a := range game.Abilities() {
		info := abilityTips[a]
		line := fmt.Sprintf("%s %s %d", info.icon, info.title, a.UnlockScore())
		style := dimStyle
		if unlocked[a] {
			line = fmt.Sprintf("%s %s", info.icon, info.title)
			style = tcell.StyleDefault.Foreground(tcell.GetColor(info.color))
		}
		runes := []rune(line)
		c.drawText(w-len(runes)-1, 1+i, runes, style)
	}
}

func (c *Canvas) drawTip() {
	if c.tips == nil {
		return
	}
	tip, ok := c.tips.Current()
	if !ok {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.GetColor(tip.Color)).Bold(true)
	title := []rune(tip.Icon + " " + tip.Title)
	text := []rune(tip.Text)
	if tip.Centered {
		_, row := c.Cell(0, tip.Y)
		c.drawCentered(row, string(title), style)
		c.drawCentered(row+1, string(text), textStyle)
		return
	}
	col, row := c.Cell(tip.X, tip.Y)
	row = max(row, 3)
	w, _ := c.screen.Size()
	col = min(max(col-len(title)/2, 0), max(w-len(text), 0))
	c.drawText(col, row, title, style)
	c.drawText(col, row+1, text, textStyle)
}

func (c *Canvas) drawGameOver(score int) {
	y := 4
	c.drawCentered(y, "GAME OVER", tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	lines := []string{
		fmt.Sprintf("Final score: %d", score),
		"Press R to restart",
		"Press Q to quit",
	}
	for i, line := range lines {
		c.drawCentered(y+2+i, line, textStyle)
	}
}

func (c *Canvas) drawPaused() {
	_, h := c.screen.Size()
	y := h/2 - 2
	c.drawCentered(y, "PAUSED", tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	c.drawCentered(y+2, "ESC resume   +/- volume   M mute   Q quit", textStyle)
}

func (c *Canvas) drawControls() {
	keyW := 0
	for _, ctl := range controls {
		keyW = max(keyW, len([]rune(ctl.key)))
	}
	lines := make([]string, 0, len(controls))
	width := len("CONTROLS")
	for _, ctl := range controls {
		line := fmt.Sprintf("%-*s  %s", keyW, ctl.key, ctl.action)
		lines = append(lines, line)
		width = max(width, len([]rune(line)))
	}

	w, h := c.screen.Size()
	boxW, boxH := width+4, len(lines)+4
	x0, y0 := (w-boxW)/2, (h-boxH)/2
	c.drawBox(x0, y0, boxW, boxH)
	c.drawCentered(y0+1, "CONTROLS", tcell.StyleDefault.Foreground(tcell.Color(51)).Bold(true))
	for i, line := range lines {
		c.drawText(x0+2, y0+3+i, []rune(line), textStyle)
	}
}

func (c *Canvas) drawBox(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			r := ' '
			switch {
			case dy == 0 && dx == 0:
				r = '┌'
			case dy == 0 && dx == w-1:
				r = '┐'
			case dy == h-1 && dx == 0:
				r = '└'
			case dy == h-1 && dx == w-1:
				r = '┘'
			case dy == 0 || dy == h-1:
				r = '─'
			case dx == 0 || dx == w-1:
				r = '│'
			}
			c.screen.SetContent(x+dx, y+dy, r, nil, textStyle)
		}
	}
}

func (c *Canvas) drawCentered(y int, text string, style tcell.Style) {
	w, _ := c.screen.Size()
	runes := []rune(text)
	c.drawText((w-len(runes))/2, y, runes, style)
}

// drawText writes runes left to right and returns the column after the last one.
func (c *Canvas) drawText(x, y int, text []rune, style tcell.Style) int {
	for i, r := range text {
		c.screen.SetContent(x+i, y, r, nil, style)
	}
	return x + len(text)
}
