// Package render rasterizes a particle field into JPEG frames for the
// display stream. Rendering is pure with respect to the field: a render call
// never mutates particle state, so a failed frame leaves the animation
// intact for the next tick.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"
	"math/rand"

	"github.com/teslashibe/go-ada/pkg/particle"
)

// JPEG quality bounds for the encoder.
const (
	MinQuality     = 30
	MaxQuality     = 95
	DefaultQuality = 80
)

// Particles dimmer than this are not worth a draw call.
const minDrawOpacity = 0.05

// Renderer rasterizes particle fields at a fixed canvas size.
// It is owned by the stream scheduler and is not safe for concurrent use:
// the random source feeding link selection is stateful.
type Renderer struct {
	width, height int
	quality       int
	glow          bool
	rng           *rand.Rand
}

// New creates a renderer for the given canvas size. The random source
// drives link-pair selection; pass a seeded rand.Rand for reproducible
// frames in tests.
func New(width, height int, rng *rand.Rand) *Renderer {
	return &Renderer{
		width:   width,
		height:  height,
		quality: DefaultQuality,
		glow:    true,
		rng:     rng,
	}
}

// SetQuality sets the JPEG encode quality, clamped to [30, 95].
func (r *Renderer) SetQuality(q int) {
	r.quality = clampInt(q, MinQuality, MaxQuality)
}

// Quality returns the current JPEG encode quality.
func (r *Renderer) Quality() int { return r.quality }

// SetGlow toggles the glow pass. Purely cosmetic; disable under resource
// pressure.
func (r *Renderer) SetGlow(enabled bool) { r.glow = enabled }

// Render rasterizes the field under cfg and returns one encoded JPEG frame.
// Any panic inside the draw or encode path is recovered into an error so a
// bad frame can never take down the streaming loop.
func (r *Renderer) Render(f *particle.Field, cfg particle.Config) (frame []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render: %v", rec)
		}
	}()

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Rect, image.NewUniform(parseHexColor(cfg.BGColor)), image.Point{}, draw.Src)

	particles := f.Particles()
	effective := len(particles)
	if cfg.ParticleCount < effective {
		effective = cfg.ParticleCount
	}

	r.drawLinks(img, particles, effective, cfg)
	drawn := r.drawParticles(img, particles, effective, cfg)

	if r.glow && drawn > 0 {
		compositeAdd(img, boxBlur(img, 2))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLinks draws up to cfg.LinkCount constellation lines between random
// particle pairs whose screen distance falls inside (2, dispersion*2).
// Attempts are bounded at three per requested link so a sparse field cannot
// spin the tick.
func (r *Renderer) drawLinks(img *image.RGBA, particles []particle.Particle, effective int, cfg particle.Config) {
	if cfg.LinkCount <= 0 || cfg.LinkOpacity <= 0.01 || effective < 2 {
		return
	}

	maxDist := cfg.Dispersion * 2.0
	drawn := 0
	for attempt := 0; attempt < cfg.LinkCount*3 && drawn < cfg.LinkCount; attempt++ {
		a := r.rng.Intn(effective)
		b := r.rng.Intn(effective)
		if a == b {
			continue
		}

		pa, pb := &particles[a], &particles[b]
		dx := pa.X - pb.X
		dy := pa.Y - pb.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist <= 2 || dist >= maxDist {
			continue
		}

		alpha := clampInt(int((1-dist/maxDist)*cfg.LinkOpacity*255), 0, 255)
		drawLine(img,
			int(pa.X), int(pa.Y), int(pb.X), int(pb.Y),
			color.RGBA{R: uint8(alpha / 2), G: uint8(alpha), B: uint8(alpha), A: 255})
		drawn++
	}
}

// drawParticles draws the active prefix of the field and returns how many
// particles were actually drawn.
func (r *Renderer) drawParticles(img *image.RGBA, particles []particle.Particle, effective int, cfg particle.Config) int {
	size := int(cfg.ParticleSize + 0.5)
	if size < 1 {
		size = 1
	}

	drawn := 0
	for i := 0; i < effective; i++ {
		p := &particles[i]
		if p.Opacity < minDrawOpacity {
			continue
		}

		sx := int(p.X + 0.5)
		sy := int(p.Y + 0.5)
		if sx < -size || sx >= r.width+size || sy < -size || sy >= r.height+size {
			continue
		}

		c := color.RGBA{
			R: uint8(math.Min(255, p.R*p.Opacity)),
			G: uint8(math.Min(255, p.G*p.Opacity)),
			B: uint8(math.Min(255, p.B*p.Opacity)),
			A: 255,
		}

		switch cfg.Shape {
		case particle.ShapeSquare:
			fillSquare(img, sx, sy, size, c)
		case particle.ShapeStar:
			fillPolygon(img, starPoints(sx, sy, size), c)
		default:
			fillCircle(img, sx, sy, size, c)
		}
		drawn++
	}
	return drawn
}
