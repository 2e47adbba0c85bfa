package game

import "math"

// Rect is an axis-aligned box in viewport pixels. X,Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Axis names the direction a push-out moved a box.
type Axis int

const (
	AxisNone Axis = iota
	AxisLeft
	AxisRight
	AxisUp
	AxisDown
)

// PushOut returns the translation that moves dyn out of solid along the axis of
// least penetration, and which way it went. Non-overlapping boxes return AxisNone.
func PushOut(dyn, solid Rect) (dx, dy float64, axis Axis) {
	if !dyn.Overlaps(solid) {
		return 0, 0, AxisNone
	}
	left := dyn.Right() - solid.X
	right := solid.Right() - dyn.X
	up := dyn.Bottom() - solid.Y
	down := solid.Bottom() - dyn.Y

	if math.Min(left, right) < math.Min(up, down) {
		if left < right {
			return -left, 0, AxisLeft
		}
		return right, 0, AxisRight
	}
	if up < down {
		return 0, -up, AxisUp
	}
	return 0, down, AxisDown
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}
