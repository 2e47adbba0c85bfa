package game

import "math/rand"

// Platform is a static rectangle entities can stand on.
type Platform struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Ground bool    `yaml:"ground,omitempty"`
}

func (p Platform) Box() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

func (p Platform) Top() float64 { return p.Y }

// ClampTo moves the platform back inside a width x height viewport.
func (p *Platform) ClampTo(width, height float64) {
	if p.X+p.Width > width {
		p.X = width - p.Width
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.Y+p.Height > height {
		p.Y = height - p.Height
	}
}

// Platform layout.
const (
	platformRows      = 5
	minPerRow         = 2
	maxPerRow         = 4
	minPlatformWidth  = 80.0
	maxPlatformWidth  = 120.0
	minRowStep        = 100.0
	maxRowStep        = 130.0
	firstRowLift      = 120.0
	rowGapShare       = 0.2
	heightJitter      = 10.0
	minExtraPlatforms = 2
	maxExtraPlatforms = 4
	extraBandTop      = 0.2
	extraBandHeight   = 0.6
)

// MinViewportHeight is the shortest viewport in which the top row of ledges
// stays on screen.
const MinViewportHeight = 720

// PlatformGenerator lays out a fresh set of platforms for a viewport.
// Layouts are random on every call.
type PlatformGenerator struct {
	rng *rand.Rand
}

func NewPlatformGenerator(rng *rand.Rand) *PlatformGenerator {
	return &PlatformGenerator{rng: rng}
}

// Generate returns the ground, five rows of 2-4 ledges climbing the screen,
// and 2-4 extra ledges scattered across the middle band.
func (g *PlatformGenerator) Generate(width, height float64) []Platform {
	platforms := []Platform{{
		X:      0,
		Y:      height - GroundThickness,
		Width:  width,
		Height: GroundThickness,
		Ground: true,
	}}

	rowY := height - firstRowLift
	gapTotal := width * rowGapShare
	for row := 0; row < platformRows; row++ {
		count := minPerRow + g.rng.Intn(maxPerRow-minPerRow+1)
		gap := gapTotal / float64(count+1)
		section := (width - gapTotal) / float64(count)

		for i := 0; i < count; i++ {
			w := g.between(minPlatformWidth, maxPlatformWidth)
			x := float64(i)*section + gap + g.between(-gap*0.25, gap*0.25)
			y := rowY + g.between(-heightJitter, heightJitter)
			platforms = append(platforms, Platform{X: x, Y: y, Width: w, Height: PlatformThickness})
		}
		rowY -= g.between(minRowStep, maxRowStep)
	}

	extras := minExtraPlatforms + g.rng.Intn(maxExtraPlatforms-minExtraPlatforms+1)
	for i := 0; i < extras; i++ {
		w := g.between(minPlatformWidth, maxPlatformWidth)
		x := g.rng.Float64() * (width - w)
		y := height*extraBandTop + g.rng.Float64()*height*extraBandHeight
		platforms = append(platforms, Platform{X: x, Y: y, Width: w, Height: PlatformThickness})
	}
	return platforms
}

func (g *PlatformGenerator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
