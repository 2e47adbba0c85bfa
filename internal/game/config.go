package game

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Physics.
const (
	GravityUp         = 1.2 * 0.8
	GravityDownSlow   = 1.2 * 0.9
	GravityDownFast   = 1.2 * 1.2
	FastFallFrom      = 10.0
	MaxFallSpeed      = 20.0
	LandingMargin     = 2.0
	GroundThickness   = 15.0
	PlatformThickness = 10.0
)

// Player.
const (
	PlayerWidth       = 80.0
	PlayerHeight      = 80.0
	PlayerMaxHealth   = 100.0
	PlayerSpawnX      = 50.0
	PlayerSpawnLift   = 100.0 // spawn y is viewport height minus this
	MoveSpeed         = 5.0
	RunSpeed          = 8.0
	JumpForce         = -25.0
	AirBoost          = 1.8
	DoubleJumpFactor  = 0.8
	DoubleJumpWindow  = 500 * time.Millisecond
	AttackFrames      = 6
	StaggerFrames     = 5
	BaseDamage        = 20.0
	AttackReach       = 20.0
	DashVelocity      = 2.5
	DashImpulse       = 1.2
	DashDamage        = 1.5
	DashWindow        = 500 * time.Millisecond
	SpeedBuffFactor   = 1.3
	DamageBuffFactor  = 1.5
	DamageBuffTime    = 10 * time.Second
	SpeedBuffTime     = 8 * time.Second
	HealAmount        = 30.0
	DoubleJumpUnlock  = 1000
	DashAttackUnlock  = 2000
	AirAttackUnlock   = 3000
	KillScore         = 100
	WeightedDropScore = 1000
)

// Enemy.
const (
	EnemyMinHealth       = 80
	EnemyHealthSpread    = 40
	EnemyMinSpeed        = 6.0
	EnemySpeedSpread     = 4.0
	EnemyGravity         = 0.6
	EnemyMaxFall         = 15.0
	DetectionRange       = 500.0
	ChaseHysteresis      = 1.2
	EnemyJumpForce       = -18.0
	EnemyJumpSpread      = 4.0
	PatrolJumpChance     = 0.05
	EdgeJumpChance       = 0.4
	TurnChance           = 0.03
	TurnCooldownFrames   = 20
	PatrolFactor         = 0.6
	AirPatrolFactor      = 0.8
	PatrolAccel          = 0.2
	EnemyAttackDamage    = 4.0
	EnemyAttackRange     = 150.0
	EnemyAttackCooldown  = 600 * time.Millisecond
	EnemyAttackDuration  = 500 * time.Millisecond
	EnemyHitboxWidth     = 70.0
	EnemyHitboxHeight    = 60.0
	EdgeDetectionRange   = 40.0
	EdgeDropZone         = 5.0
	EdgeDropDistance     = 2.0
	MaxDwellFrames       = 180
	DwellJumpVelocity    = -15.0
	EdgeChaseReach       = 150.0
	FacingDeadzone       = 10.0
	EnemyAnimationFrames = 8
)

// Falling pickups and hazards.
const (
	PickupSize       = 30.0
	PowerUpFallSpeed = 2.0
	TrapMinFall      = 3.0
	TrapFallSpread   = 2.0
	TrapDamage       = 15.0
	TrapSpin         = 0.1
	DriftSpeed       = 0.05 // radians per millisecond of wall-clock
	DriftAmount      = 0.5
)

// Engine.
const (
	MaxEnemies          = 8
	MaxTraps            = 4
	InitialEnemies      = 6
	InitialEnemyStagger = 200 * time.Millisecond
	EnemySpawnInterval  = 1500 * time.Millisecond
	MinEnemyInterval    = 800 * time.Millisecond
	IntervalStepScore   = 500
	IntervalStep        = 100 * time.Millisecond
	PowerUpInterval     = 8 * time.Second
	TrapInterval        = 3 * time.Second
	EnemySeparation     = 150.0
	SpawnAttempts       = 10
	SpawnMargin         = 60.0
)

// Config holds runtime settings that are read from a TOML file.
// Gameplay tuning stays in the constants above.
type Config struct {
	Frame    FrameConfig    `toml:"frame"`
	Terminal TerminalConfig `toml:"terminal"`
	Audio    AudioConfig    `toml:"audio"`
	Session  SessionConfig  `toml:"session"`
	Log      LogConfig      `toml:"log"`
	Debug    DebugConfig    `toml:"debug"`
}

type FrameConfig struct {
	FPS int `toml:"fps"`
}

// TerminalConfig maps terminal cells onto the pixel space the simulation runs in.
// The key_* settings describe how the terminal auto-repeats a held key.
type TerminalConfig struct {
	CellWidth        int `toml:"cell_width"`
	CellHeight       int `toml:"cell_height"`
	KeyHoldMS        int `toml:"key_hold_ms"`
	KeyRetapMS       int `toml:"key_retap_ms"`
	KeyRepeatDelayMS int `toml:"key_repeat_delay_ms"`
}

type AudioConfig struct {
	Enabled     bool    `toml:"enabled"`
	MusicVolume float64 `toml:"music_volume"`
	SFXVolume   float64 `toml:"sfx_volume"`
}

type SessionConfig struct {
	Path   string `toml:"path"`
	Resume bool   `toml:"resume"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type DebugConfig struct {
	Invincible bool  `toml:"invincible"`
	NoEnemies  bool  `toml:"no_enemies"`
	Hitboxes   bool  `toml:"hitboxes"`
	Seed       int64 `toml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Frame:    FrameConfig{FPS: 60},
		Terminal: TerminalConfig{
			CellWidth:        8,
			CellHeight:       16,
			KeyHoldMS:        150,
			KeyRetapMS:       200,
			KeyRepeatDelayMS: 700,
		},
		Audio:    AudioConfig{Enabled: true, MusicVolume: 0.12, SFXVolume: 0.5},
		Session:  SessionConfig{Path: ".shadowblade/session.yaml"},
		Log:      LogConfig{Path: "shadowblade.log", Level: "info"},
	}
}

// FrameDuration is the wall-clock length of one simulation frame.
func (c Config) FrameDuration() time.Duration {
	if c.Frame.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Frame.FPS)
}

// Validate rejects settings the frontend cannot work with.
func (c Config) Validate() error {
	if c.Frame.FPS <= 0 || c.Frame.FPS > 240 {
		return fmt.Errorf("frame.fps %d out of range (1-240)", c.Frame.FPS)
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal cell size %dx%d must be positive", c.Terminal.CellWidth, c.Terminal.CellHeight)
	}
	if c.Terminal.KeyHoldMS <= 0 {
		return errors.New("terminal.key_hold_ms must be positive")
	}
	if c.Terminal.KeyRetapMS <= 0 || c.Terminal.KeyRepeatDelayMS <= c.Terminal.KeyRetapMS {
		return fmt.Errorf("terminal.key_repeat_delay_ms %d must exceed key_retap_ms %d (> 0)",
			c.Terminal.KeyRepeatDelayMS, c.Terminal.KeyRetapMS)
	}
	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 || c.Audio.SFXVolume < 0 || c.Audio.SFXVolume > 1 {
		return errors.New("audio volumes must be within [0,1]")
	}
	return nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as TOML, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
