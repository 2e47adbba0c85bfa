package game

// Body is the geometry and motion state every entity carries.
type Body struct {
	X, Y          float64
	Width, Height float64
	VX, VY        float64
	OnGround      bool
	Jumping       bool
}

// Box returns the body's bounding box.
func (b *Body) Box() Rect {
	return Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

func (b *Body) Bottom() float64 { return b.Y + b.Height }

// Entity is anything with a bounding box. Collision helpers only need this much.
type Entity interface {
	Box() Rect
}

// Physics is the stateless integration helper shared by the player and pickups.
type Physics struct{}

// ApplyGravity accelerates an airborne body: lighter on the way up, heavier
// once the fall is fast, capped at MaxFallSpeed.
func (Physics) ApplyGravity(b *Body) {
	if b.OnGround {
		return
	}
	switch {
	case b.VY < 0:
		b.VY += GravityUp
	case b.VY < FastFallFrom:
		b.VY += GravityDownSlow
	default:
		b.VY += GravityDownFast
	}
	b.VY = ClampVelocity(b.VY, MaxFallSpeed)
}

// ClampVelocity limits v to [-max, max].
func ClampVelocity(v, max float64) float64 {
	return clamp(v, -max, max)
}

// KeepInBounds holds a body inside a width x height viewport, zeroing the
// velocity component that hit a wall. Hitting the floor lands the body.
func (Physics) KeepInBounds(b *Body, width, height float64) {
	if b.X < 0 {
		b.X = 0
		b.VX = 0
	} else if b.X+b.Width > width {
		b.X = width - b.Width
		b.VX = 0
	}

	if b.Y < 0 {
		b.Y = 0
		b.VY = 0
	} else if b.Y+b.Height > height {
		b.Y = height - b.Height
		b.VY = 0
		b.OnGround = true
		b.Jumping = false
	}
}

// Overlap is the generic AABB test between two entities.
func (Physics) Overlap(a, b Entity) bool {
	return a.Box().Overlaps(b.Box())
}

// Resolve pushes b out of solid along the minimum-overlap axis. Landing on top
// grounds the body; any other contact stops motion on that axis.
func (Physics) Resolve(b *Body, solid Entity) Axis {
	dx, dy, axis := PushOut(b.Box(), solid.Box())
	b.X += dx
	b.Y += dy
	switch axis {
	case AxisLeft, AxisRight:
		b.VX = 0
	case AxisUp:
		b.VY = 0
		b.OnGround = true
		b.Jumping = false
	case AxisDown:
		b.VY = 0
	}
	return axis
}
