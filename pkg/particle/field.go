package particle

import (
	"math"
	"math/rand"
)

// Easing rates in fraction-of-gap per second.
const (
	morphRate    = 2.0 // home position and color while morphing
	opacityRate  = 2.0 // linear opacity fade rate, units per second
	radiusRate   = 2.0 // orbit radius toward its breathing target
	positionRate = 4.0 // render position toward home + animation offset

	// brightnessThreshold is the minimum channel sum for an image pixel to
	// spawn a particle.
	brightnessThreshold = 15

	// maxImageParticles caps image decomposition regardless of the
	// configured particle count.
	maxImageParticles = 800

	// imageFit scales the decomposed image to this fraction of the limiting
	// screen dimension.
	imageFit = 0.85

	// pruneOpacity is the threshold below which a fully faded particle is
	// dropped while the field is clearing.
	pruneOpacity = 0.01
)

// Field owns the active particle set and the shared animation state that is
// advanced once per tick (global rotation, pulse phase). It is not safe for
// concurrent use; the stream scheduler is its single owner.
type Field struct {
	width, height int
	rng           *rand.Rand

	particles []Particle

	globalRotation float64 // degrees, wrapped to [0, 360)
	pulsePhase     float64 // radians, wrapped to [0, 2π)

	hasImage bool
	clearing bool
}

// NewField creates an empty field of the given pixel dimensions. The random
// source seeds particle oscillation parameters; pass a seeded rand.Rand for
// reproducible fields in tests.
func NewField(width, height int, rng *rand.Rand) *Field {
	return &Field{
		width:  width,
		height: height,
		rng:    rng,
	}
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }

// Len returns the number of particles currently allocated, including ones
// fading out beyond the active count.
func (f *Field) Len() int { return len(f.particles) }

// Particles exposes the particle slice for rendering. Callers must treat it
// as read-only and must not retain it across ticks.
func (f *Field) Particles() []Particle { return f.particles }

// HasImage reports whether the field was last populated from an image.
func (f *Field) HasImage() bool { return f.hasImage }

// Clearing reports whether the field is fading to empty.
func (f *Field) Clearing() bool { return f.clearing }

// PulsePhase returns the current global pulse phase in radians.
func (f *Field) PulsePhase() float64 { return f.pulsePhase }

// Clear starts fading every particle out. Fully faded particles are pruned
// by subsequent Update calls.
func (f *Field) Clear() {
	f.clearing = true
}

// randomOscillation assigns fresh oscillation parameters to p.
func (f *Field) randomOscillation(p *Particle, dispersion float64) {
	p.AngleXY = f.rng.Float64() * 2 * math.Pi
	p.AngleXZ = f.rng.Float64() * 2 * math.Pi
	p.AngularSpeedXY = 0.5 + f.rng.Float64()
	p.AngularSpeedXZ = 0.3 + f.rng.Float64()*0.67
	p.OrbitRadius = f.rng.Float64() * dispersion
	p.Phase = f.rng.Float64() * 2 * math.Pi
}

// PopulateStartup fills the field with the default scene: cfg.ParticleCount
// particles scattered around the center in a teal band, fading in from zero
// opacity. Any previous population (and clearing state) is discarded.
func (f *Field) PopulateStartup(cfg Config) {
	cx := float64(f.width) / 2
	cy := float64(f.height) / 2

	f.particles = make([]Particle, 0, cfg.ParticleCount)
	for i := 0; i < cfg.ParticleCount; i++ {
		p := Particle{
			X:             cx,
			Y:             cy,
			HomeX:         cx + (f.rng.Float64()*2-1)*float64(f.width)/3,
			HomeY:         cy + (f.rng.Float64()*2-1)*float64(f.height)/3,
			R:             0,
			G:             float64(180 + f.rng.Intn(76)),
			B:             float64(180 + f.rng.Intn(76)),
			Opacity:       0,
			TargetOpacity: 0.9,
		}
		p.TargetHomeX, p.TargetHomeY = p.HomeX, p.HomeY
		p.TargetR, p.TargetG, p.TargetB = p.R, p.G, p.B
		f.randomOscillation(&p, cfg.Dispersion)
		f.particles = append(f.particles, p)
	}

	f.hasImage = false
	f.clearing = false
}

// PopulateImage rebuilds the field from a raw RGB buffer (row-major, three
// bytes per pixel). Pixels whose channel sum is at or below the brightness
// threshold are ignored; the survivors are subsampled with a uniform stride
// so at most min(cfg.ParticleCount, 800) particles are produced, scaled to
// 85% of the limiting screen dimension and centered.
//
// On the very first image the particles start at the screen center so the
// image appears to assemble; on later repopulations they start in place.
// A buffer shorter than width*height*3 truncates sampling early rather than
// failing. An image with no bright pixels leaves the field unchanged.
//
// Returns the number of particles created.
func (f *Field) PopulateImage(rgb []byte, imgW, imgH int, cfg Config) int {
	if imgW <= 0 || imgH <= 0 {
		return 0
	}
	targetCount := cfg.ParticleCount
	if targetCount > maxImageParticles {
		targetCount = maxImageParticles
	}
	if targetCount <= 0 {
		return 0
	}

	type pixel struct {
		px, py  int
		r, g, b byte
	}
	var valid []pixel
	for i := 0; i < imgW*imgH; i++ {
		idx := i * 3
		if idx+2 >= len(rgb) {
			break // short buffer: keep what we have
		}
		r, g, b := rgb[idx], rgb[idx+1], rgb[idx+2]
		if int(r)+int(g)+int(b) > brightnessThreshold {
			valid = append(valid, pixel{i % imgW, i / imgW, r, g, b})
		}
	}
	if len(valid) == 0 {
		return 0
	}

	scaleX := float64(f.width) * imageFit / float64(imgW)
	scaleY := float64(f.height) * imageFit / float64(imgH)
	scale := math.Min(scaleX, scaleY)
	offsetX := (float64(f.width) - float64(imgW)*scale) / 2
	offsetY := (float64(f.height) - float64(imgH)*scale) / 2

	stride := math.Max(1, float64(len(valid))/float64(targetCount))
	firstImage := !f.hasImage

	newParticles := make([]Particle, 0, targetCount)
	accumulator := 0.0
	for _, vp := range valid {
		accumulator += 1.0
		if accumulator < stride {
			continue
		}
		accumulator -= stride

		screenX := offsetX + float64(vp.px)*scale
		screenY := offsetY + float64(vp.py)*scale

		p := Particle{
			X:             screenX,
			Y:             screenY,
			HomeX:         screenX,
			HomeY:         screenY,
			TargetHomeX:   screenX,
			TargetHomeY:   screenY,
			R:             float64(vp.r),
			G:             float64(vp.g),
			B:             float64(vp.b),
			TargetR:       float64(vp.r),
			TargetG:       float64(vp.g),
			TargetB:       float64(vp.b),
			Opacity:       0,
			TargetOpacity: 1.0,
		}
		if firstImage {
			// Animate emergence from the center on the first image only.
			p.X = float64(f.width) / 2
			p.Y = float64(f.height) / 2
		}
		f.randomOscillation(&p, cfg.Dispersion)
		newParticles = append(newParticles, p)

		if len(newParticles) >= targetCount {
			break
		}
	}

	f.particles = newParticles
	f.hasImage = true
	f.clearing = false
	return len(newParticles)
}

// Update advances the whole field by dt seconds under cfg, which the caller
// has already interpolated for this tick. Particles at indices beyond
// cfg.ParticleCount are not integrated; their opacity just fades so a count
// decrease shrinks the field gracefully instead of popping.
//
// Callers are expected to clamp dt (the scheduler caps it at 100ms) so a
// stalled loop cannot produce an unstable step.
func (f *Field) Update(dt float64, cfg Config) {
	f.globalRotation = math.Mod(f.globalRotation+cfg.RotationSpeed*dt, 360)
	f.pulsePhase = math.Mod(f.pulsePhase+cfg.PulseSpeed*dt, 2*math.Pi)

	cx := float64(f.width) / 2
	cy := float64(f.height) / 2
	active := len(f.particles)
	if cfg.ParticleCount < active {
		active = cfg.ParticleCount
	}

	for i := range f.particles {
		p := &f.particles[i]

		if i >= active {
			p.Opacity = math.Max(0, p.Opacity-opacityRate*dt)
			continue
		}

		if p.Morphing {
			ms := math.Min(1, morphRate*dt)
			p.HomeX += (p.TargetHomeX - p.HomeX) * ms
			p.HomeY += (p.TargetHomeY - p.HomeY) * ms
			p.R += (p.TargetR - p.R) * ms
			p.G += (p.TargetG - p.G) * ms
			p.B += (p.TargetB - p.B) * ms
			if math.Abs(p.HomeX-p.TargetHomeX)+math.Abs(p.HomeY-p.TargetHomeY) < 1 {
				p.Morphing = false
			}
		}

		targetOp := 0.0
		if !f.clearing {
			targetOp = clamp(p.TargetOpacity*cfg.Opacity, 0, 1)
		}
		if p.Opacity < targetOp {
			p.Opacity = math.Min(targetOp, p.Opacity+opacityRate*dt)
		} else if p.Opacity > targetOp {
			p.Opacity = math.Max(targetOp, p.Opacity-opacityRate*dt)
		}

		p.AngleXY += p.AngularSpeedXY * cfg.ParticleSpeed * dt
		p.AngleXZ += p.AngularSpeedXZ * cfg.ParticleSpeed * dt

		// Breathing: the radius chases a pulse-modulated fraction of the
		// dispersion, per-particle phase keeps the field from throbbing in
		// lockstep.
		targetRadius := cfg.Dispersion * 0.5 * (1 + math.Sin(p.Phase+f.pulsePhase))
		p.OrbitRadius += (targetRadius - p.OrbitRadius) * math.Min(1, radiusRate*dt)

		var animX, animY float64
		switch cfg.Animation {
		case AnimDrift:
			animX = math.Cos(p.AngleXY*0.3) * p.OrbitRadius * 0.5
			animY = math.Sin(p.AngleXZ*0.3) * p.OrbitRadius * 0.5

		case AnimSwirlInward:
			dx := p.HomeX - cx
			dy := p.HomeY - cy
			angle := math.Atan2(dy, dx) + p.AngleXY
			pull := 0.7 + 0.3*math.Sin(f.pulsePhase+p.Phase)
			animX = math.Cos(angle)*p.OrbitRadius*pull - dx*0.1*math.Sin(f.pulsePhase)
			animY = math.Sin(angle)*p.OrbitRadius*pull - dy*0.1*math.Sin(f.pulsePhase)

		case AnimPulseOutward:
			dx := p.HomeX - cx
			dy := p.HomeY - cy
			dist := math.Sqrt(dx*dx+dy*dy) + 1.0
			wave := math.Sin(f.pulsePhase - dist*0.02)
			push := wave * cfg.Dispersion * 0.3
			animX = math.Cos(p.AngleXY)*p.OrbitRadius + (dx/dist)*push
			animY = math.Sin(p.AngleXZ)*p.OrbitRadius + (dy/dist)*push

		default: // float
			animX = math.Cos(p.AngleXY) * p.OrbitRadius
			animY = math.Sin(p.AngleXZ) * p.OrbitRadius
		}

		if math.Abs(cfg.RotationSpeed) > 0.01 {
			rad := f.globalRotation * math.Pi / 180
			cosR, sinR := math.Cos(rad), math.Sin(rad)
			animX, animY = animX*cosR-animY*sinR, animX*sinR+animY*cosR
		}

		lerpT := math.Min(1, positionRate*dt)
		p.X += (p.HomeX + animX - p.X) * lerpT
		p.Y += (p.HomeY + animY - p.Y) * lerpT
	}

	if f.clearing {
		kept := f.particles[:0]
		for _, p := range f.particles {
			if p.Opacity > pruneOpacity || p.Morphing {
				kept = append(kept, p)
			}
		}
		f.particles = kept
	}
}
