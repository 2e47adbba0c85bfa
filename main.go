package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Mcnone787/Shadow-Blade/internal/audio"
	"github.com/Mcnone787/Shadow-Blade/internal/game"
	"github.com/Mcnone787/Shadow-Blade/internal/logging"
	"github.com/Mcnone787/Shadow-Blade/internal/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shadowblade:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "shadowblade.toml", "path to the TOML config file")
	seed := flag.Int64("seed", 0, "random seed (0 picks one from the clock)")
	mute := flag.Bool("mute", false, "disable music and sound effects")
	resume := flag.Bool("resume", false, "continue the last saved game")
	initConfig := flag.Bool("init-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Debug.Seed = *seed
	}
	if *mute {
		cfg.Audio.Enabled = false
	}
	if *resume {
		cfg.Session.Resume = true
	}
	if *initConfig {
		return cfg.Save(*configPath)
	}

	log, logFile, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	sheet, err := term.DefaultSheet()
	if err != nil {
		return fmt.Errorf("load sprites: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorDefault).
		Foreground(tcell.ColorWhite))
	screen.Clear()

	rngSeed := cfg.Debug.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	log.Info("startup", "seed", rngSeed, "config", *configPath, "fps", cfg.Frame.FPS)

	bus := game.NewEventBus()
	keys := term.NewKeyboard(game.SystemClock, term.KeyTimingFrom(cfg.Terminal))
	tips := term.NewTooltips(game.SystemClock)
	tips.Subscribe(bus)

	var (
		music game.Music
		mixer term.Mixer
	)
	if cfg.Audio.Enabled {
		sys, err := audio.New(cfg.Audio, log)
		if err != nil {
			log.Warn("audio unavailable, playing silently", "err", err)
		} else {
			defer sys.Close()
			sys.Subscribe(bus)
			sys.StartMusic()
			music, mixer = sys, sys
		}
	}

	cols, rows := screen.Size()
	cellW, cellH := term.FitCell(rows, cfg.Terminal.CellWidth, cfg.Terminal.CellHeight)
	engine, err := game.NewEngine(game.Options{
		Config:  cfg,
		Rand:    rand.New(rand.NewSource(rngSeed)),
		Keys:    keys,
		Sprites: sheet,
		Music:   music,
		Bus:     bus,
		Logger:  log,
	}, float64(cols*cellW), float64(rows*cellH))
	if err != nil {
		return err
	}

	store := game.NewSessionStore(cfg.Session.Path)
	sess, err := store.Load()
	if err != nil {
		log.Warn("load session", "path", store.Path(), "err", err)
		sess = game.Session{}
	}
	if cfg.Session.Resume && sess.Snapshot != nil {
		if err := engine.Restore(*sess.Snapshot); err != nil {
			log.Warn("restore session", "err", err)
		}
	}

	app := term.NewApp(term.AppOptions{
		Screen:   screen,
		Engine:   engine,
		Keyboard: keys,
		Canvas:   term.NewCanvas(screen, sheet, tips, cellW, cellH),
		Mixer:    mixer,
		Store:    store,
		Session:  sess,
		Config:   cfg,
		Logger:   log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx)
	log.Info("shutdown", "score", engine.Score())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
