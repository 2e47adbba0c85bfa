package game

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Session is the small amount of state kept between runs.
type Session struct {
	ID        string    `yaml:"id"`
	HasPlayed bool      `yaml:"has_played"`
	SavedAt   time.Time `yaml:"saved_at,omitempty"`
	Snapshot  *Snapshot `yaml:"snapshot,omitempty"`
}

// Snapshot is a best-effort picture of a game in progress.
type Snapshot struct {
	Score     int             `yaml:"score"`
	Player    PlayerSnapshot  `yaml:"player"`
	Enemies   []EnemySnapshot `yaml:"enemies,omitempty"`
	Platforms []Platform      `yaml:"platforms,omitempty"`
}

type PlayerSnapshot struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Health float64 `yaml:"health"`
}

type EnemySnapshot struct {
	Kind   EnemyKind `yaml:"kind"`
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	Health float64   `yaml:"health"`
}

// SessionStore reads and writes the session file.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Path() string { return s.path }

// Load returns the stored session. A missing file is a fresh session with a new id.
func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{ID: uuid.NewString()}, nil
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session %s: %w", s.path, err)
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	return sess, nil
}

func (s *SessionStore) Save(sess Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Snapshot captures score, player and enemies and the platform layout.
func (g *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Score: g.score,
		Player: PlayerSnapshot{
			X:      g.Player.X,
			Y:      g.Player.Y,
			Health: g.Player.Health.Current,
		},
		Platforms: append([]Platform(nil), g.Platforms...),
	}
	for _, e := range g.Enemies {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			Kind:   e.Kind,
			X:      e.X,
			Y:      e.Y,
			Health: e.Health.Current,
		})
	}
	return snap
}

// Restore replaces the running game with a snapshot, fitted to the current
// viewport. Enemies of kinds the catalog no longer knows are dropped.
func (g *Engine) Restore(snap Snapshot) error {
	g.Reset()
	g.pending = nil
	g.score = snap.Score

	if len(snap.Platforms) > 0 {
		g.Platforms = append(g.Platforms[:0], snap.Platforms...)
		for i := range g.Platforms {
			g.Platforms[i].ClampTo(g.width, g.height)
			if g.Platforms[i].Ground {
				g.Platforms[i].Y = g.height - g.Platforms[i].Height
				g.Platforms[i].Width = g.width
			}
		}
	}

	g.Player.X, g.Player.Y = snap.Player.X, snap.Player.Y
	g.Player.Health.Current = clamp(snap.Player.Health, 0, g.Player.Health.Max)
	g.Player.OnGround = false
	g.phys.KeepInBounds(&g.Player.Body, g.width, g.height)

	var errs []error
	g.Enemies = g.Enemies[:0]
	for _, es := range snap.Enemies {
		e, err := NewEnemyOfKind(es.X, es.Y, es.Kind, g.sprites, g.rng)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.Health.Current = clamp(es.Health, 0, e.Health.Max)
		e.HandleResize(g.width, g.height, g.phys)
		g.Enemies = append(g.Enemies, e)
	}
	g.log.Info("session restored", "score", g.score, "enemies", len(g.Enemies))
	return errors.Join(errs...)
}
