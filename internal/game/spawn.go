package game

import (
	"math"
	"math/rand"
	"time"
)

// Spawner holds the placement and selection policies for new entities.
type Spawner struct {
	rng *rand.Rand
}

func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{rng: rng}
}

// EnemyPosition picks a spawn point near the top of the screen, retrying the
// x coordinate until it is EnemySeparation away from every live enemy. After
// SpawnAttempts tries the last candidate is used as is.
func (s *Spawner) EnemyPosition(enemies []*Enemy, width, height float64) (x, y float64) {
	for attempt := 0; attempt < SpawnAttempts; attempt++ {
		x = s.rng.Float64() * math.Max(width-SpawnMargin, 0)
		if !tooClose(x, enemies) {
			break
		}
	}
	y = height * (0.2 + s.rng.Float64()*0.2)
	return x, y
}

func tooClose(x float64, enemies []*Enemy) bool {
	for _, e := range enemies {
		if math.Abs(e.X-x) < EnemySeparation {
			return true
		}
	}
	return false
}

// PowerUpKind is always health below WeightedDropScore. From there on it is
// health, damage or speed at 40/30/30.
func (s *Spawner) PowerUpKind(score int) PowerUpKind {
	if score < WeightedDropScore {
		return PowerUpHealth
	}
	r := s.rng.Float64()
	switch {
	case r < 0.4:
		return PowerUpHealth
	case r < 0.7:
		return PowerUpDamage
	default:
		return PowerUpSpeed
	}
}

// DropX is a random x for an item falling from above the viewport.
func (s *Spawner) DropX(width float64) float64 {
	return s.rng.Float64() * math.Max(width-PickupSize, 0)
}

// EnemySpawnIntervalFor shrinks the enemy interval by IntervalStep for every
// IntervalStepScore points, down to MinEnemyInterval.
func EnemySpawnIntervalFor(score int) time.Duration {
	d := EnemySpawnInterval - time.Duration(score/IntervalStepScore)*IntervalStep
	if d < MinEnemyInterval {
		return MinEnemyInterval
	}
	return d
}

// pendingEnemy is an enemy of the opening wave waiting for its due time.
type pendingEnemy struct {
	due  time.Time
	x, y float64
}

// InitialWave spreads the opening enemies evenly across the width, jittered
// within their slot, and staggers their arrival by InitialEnemyStagger.
func (s *Spawner) InitialWave(width, height float64, start time.Time) []pendingEnemy {
	wave := make([]pendingEnemy, 0, InitialEnemies)
	spacing := width / (InitialEnemies + 1)
	for i := 0; i < InitialEnemies; i++ {
		base := spacing * float64(i+1)
		x := base + (s.rng.Float64()-0.5)*spacing
		x = math.Max(math.Min(x, width-SpawnMargin), SpawnMargin)
		wave = append(wave, pendingEnemy{
			due: start.Add(time.Duration(i) * InitialEnemyStagger),
			x:   x,
			y:   height * (0.1 + s.rng.Float64()*0.4),
		})
	}
	return wave
}
