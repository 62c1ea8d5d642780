package particle

import "math"

// interpRate is the shared smoothing rate for every numeric config field,
// in fraction-of-gap per second.
const interpRate = 3.0

// Config holds the structural and behavioral parameters shared by the whole
// field. Two live instances exist at runtime: "current" (what is rendered)
// and "target" (what external callers set). Numeric fields ease from current
// toward target every tick; discrete fields snap immediately because they
// change the rendering algorithm itself.
type Config struct {
	ParticleCount int       `json:"particle_count" yaml:"particle_count"`
	ParticleSize  float64   `json:"particle_size" yaml:"particle_size"`
	ParticleSpeed float64   `json:"particle_speed" yaml:"particle_speed"`
	Dispersion    float64   `json:"dispersion" yaml:"dispersion"`
	Opacity       float64   `json:"opacity" yaml:"opacity"`
	Shape         Shape     `json:"shape" yaml:"shape"`
	Animation     Animation `json:"animation" yaml:"animation"`
	PulseSpeed    float64   `json:"pulse_speed" yaml:"pulse_speed"`
	RotationSpeed float64   `json:"rotation_speed" yaml:"rotation_speed"`
	BGColor       string    `json:"bg_color" yaml:"bg_color"`
	LinkCount     int       `json:"link_count" yaml:"link_count"`
	LinkOpacity   float64   `json:"link_opacity" yaml:"link_opacity"`
	ColorMode     string    `json:"color_mode" yaml:"color_mode"`
}

// DefaultConfig returns the config the field boots with.
func DefaultConfig() Config {
	return Config{
		ParticleCount: 350,
		ParticleSize:  4.0,
		ParticleSpeed: 1.0,
		Dispersion:    30.0,
		Opacity:       1.0,
		Shape:         ShapeCircle,
		Animation:     AnimFloat,
		PulseSpeed:    1.0,
		RotationSpeed: 0.0,
		BGColor:       "#000000",
		LinkCount:     0,
		LinkOpacity:   0.2,
		ColorMode:     "original",
	}
}

// StepToward advances c toward target by one interpolation step of dt
// seconds. Each numeric field closes min(1, 3*dt) of its remaining gap, so
// repeated application converges without overshoot. Discrete fields (shape,
// animation, background, particle count, link count, color mode) are copied
// unconditionally.
func (c *Config) StepToward(target Config, dt float64) {
	t := math.Min(1.0, interpRate*dt)

	c.ParticleSize += (target.ParticleSize - c.ParticleSize) * t
	c.ParticleSpeed += (target.ParticleSpeed - c.ParticleSpeed) * t
	c.Dispersion += (target.Dispersion - c.Dispersion) * t
	c.Opacity += (target.Opacity - c.Opacity) * t
	c.PulseSpeed += (target.PulseSpeed - c.PulseSpeed) * t
	c.RotationSpeed += (target.RotationSpeed - c.RotationSpeed) * t
	c.LinkOpacity += (target.LinkOpacity - c.LinkOpacity) * t

	c.Shape = target.Shape
	c.Animation = target.Animation
	c.BGColor = target.BGColor
	c.ParticleCount = target.ParticleCount
	c.LinkCount = target.LinkCount
	c.ColorMode = target.ColorMode
}
