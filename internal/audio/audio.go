// Package audio plays the procedural music loop and sound effects.
package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/Mcnone787/Shadow-Blade/internal/game"
)

const (
	SampleRate    = 44100
	ChannelCount  = 2
	bytesPerFrame = ChannelCount * 4 // float32 per channel
)

// System owns the output device. It satisfies game.Music for the engine's
// pause handling and the frontend's volume keys.
type System struct {
	ctx   *oto.Context
	ready chan struct{}
	log   *slog.Logger

	mu       sync.Mutex
	music    oto.Player
	musicVol float64
	sfxVol   float64
	master   float64
	muted    bool
	paused   bool
}

// New opens the audio device. Callers treat an error as "play silently".
func New(cfg game.AudioConfig, log *slog.Logger) (*System, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("init audio: %w", err)
	}
	return newSystem(ctx, ready, cfg, log), nil
}

func newSystem(ctx *oto.Context, ready chan struct{}, cfg game.AudioConfig, log *slog.Logger) *System {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &System{
		ctx:      ctx,
		ready:    ready,
		log:      log.With("component", "audio"),
		musicVol: cfg.MusicVolume,
		sfxVol:   cfg.SFXVolume,
		master:   1,
	}
}

func (s *System) isReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Subscribe plays an effect for each engine event that has one.
func (s *System) Subscribe(bus *game.EventBus) {
	for _, t := range []game.EventType{
		game.EventEnemyKilled,
		game.EventPowerUpCollected,
		game.EventPlayerHurt,
		game.EventTrapHit,
		game.EventAbilityUnlocked,
		game.EventGameOver,
	} {
		bus.Subscribe(t, func(e game.Event) {
			if kind, ok := soundFor(e.Type); ok {
				s.Play(kind)
			}
		})
	}
}

func soundFor(t game.EventType) (SoundKind, bool) {
	switch t {
	case game.EventEnemyKilled:
		return SoundKill, true
	case game.EventPowerUpCollected:
		return SoundPickup, true
	case game.EventPlayerHurt:
		return SoundHurt, true
	case game.EventTrapHit:
		return SoundTrap, true
	case game.EventAbilityUnlocked:
		return SoundUnlock, true
	case game.EventGameOver:
		return SoundGameOver, true
	}
	return 0, false
}

// Play starts an effect in the background. It is dropped while muted or
// before the device is ready.
func (s *System) Play(kind SoundKind) {
	s.mu.Lock()
	vol := s.sfxVol * s.master
	muted := s.muted
	s.mu.Unlock()
	if muted || vol <= 0 || !s.isReady() {
		return
	}
	samples := generate(kind)
	if len(samples) == 0 {
		return
	}
	go func() {
		player := s.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(vol)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			s.log.Debug("close effect player", "err", err)
		}
	}()
}

// StartMusic begins the background loop once the device is ready.
func (s *System) StartMusic() {
	go func() {
		<-s.ready
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.music != nil {
			return
		}
		s.music = s.ctx.NewPlayer(&musicReader{drums: drumKit{noise: noise(time.Now().UnixNano())}})
		s.music.SetVolume(s.musicLevel())
		if !s.paused {
			s.music.Play()
		}
		s.log.Info("music started")
	}()
}

func (s *System) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	if s.music != nil {
		s.music.Pause()
	}
}

func (s *System) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	if s.music != nil {
		s.music.Play()
	}
}

// AdjustVolume moves the master level by delta within [0,1].
func (s *System) AdjustVolume(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = math.Max(0, math.Min(1, s.master+delta))
	s.applyMusicVolume()
}

func (s *System) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	s.applyMusicVolume()
	s.log.Info("mute", "muted", s.muted)
}

// musicLevel must be called with mu held.
func (s *System) musicLevel() float64 {
	if s.muted {
		return 0
	}
	return s.musicVol * s.master
}

func (s *System) applyMusicVolume() {
	if s.music != nil {
		s.music.SetVolume(s.musicLevel())
	}
}

// Close stops the music.
func (s *System) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.music == nil {
		return nil
	}
	err := s.music.Close()
	s.music = nil
	return err
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

const musicTempo = 2.3 // beats per second

// Am F C G, one chord per bar.
var progression = [][]float64{
	{220.00, 261.63, 329.63},
	{174.61, 220.00, 261.63},
	{261.63, 329.63, 392.00},
	{196.00, 246.94, 293.66},
}

// musicReader synthesizes an endless drum, bass and arpeggio loop.
type musicReader struct {
	t        float64
	drums    drumKit
	measure  int
	chordIdx int
}

func (m *musicReader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFrame
	beatLen := 1.0 / musicTempo
	for i := 0; i < n; i++ {
		m.t += 1.0 / SampleRate

		trig := math.Mod(m.t, beatLen)
		beat := int(m.t * musicTempo)
		if beat/4 != m.measure {
			m.measure = beat / 4
			m.chordIdx = (m.chordIdx + 1) % len(progression)
		}
		chord := progression[m.chordIdx]

		s := m.drums.kick(trig) * 0.55
		if beat%2 == 1 {
			s += m.drums.snare(trig) * 0.4
		}
		s += m.drums.hat(math.Mod(m.t, beatLen/2))
		s += bass(m.t, chord[0]/2, math.Exp(-trig*2.5)) * 0.6

		step := int(m.t * musicTempo * 4)
		arpTrig := math.Mod(m.t, beatLen/4)
		s += arp(m.t, chord[step%len(chord)]*2, math.Exp(-arpTrig*16)) * 0.5

		putFrame(p, i, saturate(s*0.75))
	}
	return n * bytesPerFrame, nil
}
