package term

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

// Mixer is the part of the audio system the keyboard controls.
type Mixer interface {
	AdjustVolume(delta float64)
	ToggleMute()
}

const volumeStep = 0.1

type nopMixer struct{}

func (nopMixer) AdjustVolume(float64) {}
func (nopMixer) ToggleMute()          {}

// App runs the terminal frontend: it pumps tcell events into the keyboard,
// steps the engine at a fixed rate and draws every frame.
type App struct {
	screen  tcell.Screen
	engine  *game.Engine
	keys    *Keyboard
	canvas  *Canvas
	mixer   Mixer
	store   *game.SessionStore
	session game.Session
	frame   time.Duration
	cellW   int
	cellH   int
	log     *slog.Logger
}

type AppOptions struct {
	Screen   tcell.Screen
	Engine   *game.Engine
	Keyboard *Keyboard
	Canvas   *Canvas
	Mixer    Mixer
	Store    *game.SessionStore
	Session  game.Session
	Config   game.Config
	Logger   *slog.Logger
}

func NewApp(opts AppOptions) *App {
	if opts.Mixer == nil {
		opts.Mixer = nopMixer{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		screen:  opts.Screen,
		engine:  opts.Engine,
		keys:    opts.Keyboard,
		canvas:  opts.Canvas,
		mixer:   opts.Mixer,
		store:   opts.Store,
		session: opts.Session,
		frame:   opts.Config.FrameDuration(),
		cellW:   opts.Config.Terminal.CellWidth,
		cellH:   opts.Config.Terminal.CellHeight,
		log:     opts.Logger.With("component", "term"),
	}
}

// FitCell scales a cell size up, keeping its shape, until rows cells cover
// game.MinViewportHeight pixels. Sizes that already fit come back unchanged.
func FitCell(rows, cellW, cellH int) (w, h int) {
	if rows <= 0 || rows*cellH >= game.MinViewportHeight {
		return cellW, cellH
	}
	h = (game.MinViewportHeight + rows - 1) / rows
	w = max(1, int(math.Round(float64(cellW*h)/float64(cellH))))
	return w, h
}

// Viewport is the simulation size covered by the current terminal.
func (a *App) Viewport() (width, height float64) {
	cols, rows := a.screen.Size()
	w, h := FitCell(rows, a.cellW, a.cellH)
	return float64(cols * w), float64(rows * h)
}

// layout fits the canvas and the engine to the terminal size.
func (a *App) layout() {
	_, rows := a.screen.Size()
	a.canvas.SetCellSize(FitCell(rows, a.cellW, a.cellH))
	a.engine.Resize(a.Viewport())
}

// Run loops until the player quits or ctx is done. The session is saved on
// the way out.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 10)
	stop := make(chan struct{})
	defer close(stop)
	go a.screen.ChannelEvents(events, stop)

	a.layout()
	if !a.session.HasPlayed {
		a.session.HasPlayed = true
		a.openControls()
	}

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()

	for {
		if quit := a.drain(events); quit {
			a.saveSession()
			return nil
		}

		a.engine.Update()
		a.engine.Render(a.canvas)

		select {
		case <-ctx.Done():
			a.saveSession()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain handles every event queued since the last frame.
func (a *App) drain(events <-chan tcell.Event) (quit bool) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return true
			}
			if a.handle(ev) {
				return true
			}
		default:
			return false
		}
	}
}

func (a *App) handle(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.command(a.keys.Handle(ev))
	case *tcell.EventResize:
		a.screen.Sync()
		a.layout()
	}
	return false
}

func (a *App) command(cmd Command) (quit bool) {
	switch cmd {
	case CmdQuit:
		return true
	case CmdPause:
		if a.engine.PausedForControls() {
			a.closeControls()
			return false
		}
		a.engine.TogglePause()
		a.keys.Reset()
		if a.engine.Paused() {
			a.saveSession()
		}
	case CmdControls:
		if a.engine.PausedForControls() {
			a.closeControls()
		} else {
			a.openControls()
		}
	case CmdInvincible:
		a.engine.ToggleInvincible()
	case CmdNoEnemies:
		a.engine.ToggleNoEnemies()
	case CmdHitboxes:
		a.engine.ToggleHitboxes()
	case CmdVolumeUp:
		a.mixer.AdjustVolume(volumeStep)
	case CmdVolumeDown:
		a.mixer.AdjustVolume(-volumeStep)
	case CmdMute:
		a.mixer.ToggleMute()
	}
	return false
}

func (a *App) openControls() {
	a.engine.PauseForControls()
	a.keys.Reset()
}

func (a *App) closeControls() {
	a.engine.ResumeFromControls()
	a.keys.Reset()
}

func (a *App) saveSession() {
	if a.store == nil {
		return
	}
	snap := a.engine.Snapshot()
	a.session.Snapshot = nil
	if !a.engine.GameOver() {
		a.session.Snapshot = &snap
	}
	a.session.SavedAt = time.Now()
	if err := a.store.Save(a.session); err != nil {
		a.log.Error("save session", "path", a.store.Path(), "err", err)
		return
	}
	a.log.Info("session saved", "path", a.store.Path(), "score", snap.Score)
}

// Session returns the session as it will be saved.
func (a *App) Session() game.Session { return a.session }
