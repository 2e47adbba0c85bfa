package game

// Health tracks hit points for the player and enemies.
type Health struct {
	Current float64
	Max     float64
}

func NewHealth(max float64) Health {
	return Health{Current: max, Max: max}
}

// Damage lowers health, never below zero.
func (h *Health) Damage(amount float64) {
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
}

// Heal raises health, never above Max.
func (h *Health) Heal(amount float64) {
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

func (h *Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return clamp(h.Current/h.Max, 0, 1)
}

func (h *Health) IsDead() bool {
	return h.Current <= 0
}
