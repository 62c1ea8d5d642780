// Package particle implements Ada's animated particle field: the particle
// data model, the emotional-state-to-config mapping, smooth config
// interpolation, and the per-tick physics step.
//
// The field is deliberately single-owner: nothing in this package locks.
// All mutation is expected to happen on the stream scheduler's goroutine.
package particle

// Shape selects how a particle is rasterized.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
	ShapeStar   Shape = "star"
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeStar:
		return true
	}
	return false
}

// Animation selects the per-tick motion formula for the whole field.
type Animation string

const (
	AnimFloat        Animation = "float"
	AnimDrift        Animation = "drift"
	AnimSwirlInward  Animation = "swirl_inward"
	AnimPulseOutward Animation = "pulse_outward"
)

// Valid reports whether a is a known animation mode.
func (a Animation) Valid() bool {
	switch a {
	case AnimFloat, AnimDrift, AnimSwirlInward, AnimPulseOutward:
		return true
	}
	return false
}

// Particle is one animated point. Positions are in screen pixels. Color
// channels are kept as float64 so morph easing stays smooth, but are always
// within [0, 255]. Opacity is always within [0, 1].
type Particle struct {
	X, Y float64

	// Home is the anchor the particle orbits; TargetHome is where the home
	// is easing to while Morphing is set.
	HomeX, HomeY             float64
	TargetHomeX, TargetHomeY float64

	R, G, B                   float64
	TargetR, TargetG, TargetB float64

	Opacity       float64
	TargetOpacity float64

	// Morphing is set while home position and color are easing toward their
	// targets; cleared once the positional delta drops below one pixel.
	Morphing bool

	// Independent oscillation phases, advanced every tick. Unbounded.
	AngleXY, AngleXZ               float64
	AngularSpeedXY, AngularSpeedXZ float64

	// OrbitRadius is the current offset distance from home, eased toward a
	// breathing target each tick. Phase is this particle's offset into the
	// global pulse wave.
	OrbitRadius float64
	Phase       float64
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
