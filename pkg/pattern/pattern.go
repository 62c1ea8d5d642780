// Package pattern generates built-in RGB test images for the particle
// display. Patterns render without any model inference so the display has
// something to show the moment a client connects.
package pattern

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotFound is returned when a pattern name is not registered.
var ErrNotFound = errors.New("pattern not found")

// DefaultName is the pattern shown when a display connects before any
// image has been loaded.
const DefaultName = "raccoon"

// Generator produces a width*height*3 buffer of RGB bytes.
type Generator func(width, height int) []byte

var patterns = map[string]Generator{
	"raccoon": Raccoon,
	"orb":     GradientOrb,
	"aurora":  Aurora,
}

// Names returns the registered pattern names in sorted order.
func Names() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get retrieves a pattern generator by name.
func Get(name string) (Generator, error) {
	gen, ok := patterns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return gen, nil
}

// Default returns the startup pattern rendered at the given size.
func Default(width, height int) []byte {
	return Raccoon(width, height)
}

// Raccoon generates a stylized raccoon face silhouette with a teal glow.
func Raccoon(width, height int) []byte {
	pixels := make([]byte, width*height*3)
	cx := float64(width / 2)
	cy := float64(height / 2)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 3
			fx := float64(x)
			fy := float64(y)
			dx := fx - cx
			dy := fy - cy
			dist := math.Hypot(dx, dy)

			var r, g, b int

			// Main face circle
			const faceRadius = 38.0
			if dist < faceRadius {
				t := 1.0 - dist/faceRadius
				r = int(20 * t)
				g = int(200 * t * t)
				b = int(180 * t)
			}

			// Ears
			for _, earX := range []float64{cx - 28, cx + 28} {
				earDist := math.Hypot(fx-earX, fy-(cy-35))
				if earDist < 16 {
					t := 1.0 - earDist/16
					r = maxInt(r, int(30*t))
					g = maxInt(g, int(220*t))
					b = maxInt(b, int(200*t))
				}
			}

			// Eye mask band
			maskY := cy - 8
			if math.Abs(fy-maskY) < 10 && math.Abs(dx) < 34 {
				maskT := 1.0 - math.Abs(fy-maskY)/10
				maskXT := 1.0 - math.Abs(dx)/34
				intensity := maskT * maskXT
				r = int(float64(r) * (1 - intensity*0.7))
				g = int(float64(g) * (1 - intensity*0.5))
				b = int(float64(b) * (1 - intensity*0.3))
			}

			// Eyes
			for _, eyeX := range []float64{cx - 14, cx + 14} {
				eyeDist := math.Hypot(fx-eyeX, fy-(cy-8))
				if eyeDist < 5 {
					t := 1.0 - eyeDist/5
					r = maxInt(r, int(100*t))
					g = maxInt(g, int(255*t))
					b = maxInt(b, int(255*t))
				}
			}

			// Nose
			noseDist := math.Hypot(fx-cx, fy-(cy+8))
			if noseDist < 4 {
				t := 1.0 - noseDist/4
				r = maxInt(r, int(200*t))
				g = maxInt(g, int(150*t))
				b = maxInt(b, int(100*t))
			}

			// Background glow fills the remaining black pixels
			if r == 0 && g == 0 && b == 0 {
				bgT := math.Max(0, 1.0-dist/64)
				r = int(5 * bgT)
				g = int(30 * bgT * bgT)
				b = int(40 * bgT * bgT)
			}

			pixels[idx] = clampByte(r)
			pixels[idx+1] = clampByte(g)
			pixels[idx+2] = clampByte(b)
		}
	}

	return pixels
}

// GradientOrb generates a glowing teal orb with deterministic sparkle noise.
func GradientOrb(width, height int) []byte {
	pixels := make([]byte, width*height*3)
	cx := float64(width / 2)
	cy := float64(height / 2)

	// LCG keeps the noise reproducible across runs
	seed := int64(42)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 3
			dx := (float64(x) - cx) / cx
			dy := (float64(y) - cy) / cy
			dist := math.Hypot(dx, dy)

			seed = (seed*1103515245 + 12345) & 0x7FFFFFFF
			noise := float64(seed%100) / 100.0

			var r, g, b int
			if dist < 1.0 {
				t := 1.0 - dist
				// Teal core fading to purple at the edge
				r = int((20+80*(1-t))*t + noise*15)
				g = int(220*t*t + noise*10)
				b = int(200*t + 55*(1-t)*t + noise*12)

				if noise > 0.92 && t > 0.3 {
					sparkle := (noise - 0.92) / 0.08
					r = minInt(255, r+int(200*sparkle))
					g = minInt(255, g+int(255*sparkle))
					b = minInt(255, b+int(255*sparkle))
				}
			}

			pixels[idx] = clampByte(r)
			pixels[idx+1] = clampByte(g)
			pixels[idx+2] = clampByte(b)
		}
	}

	return pixels
}

// Aurora generates layered sine-wave bands that fade toward the bottom.
func Aurora(width, height int) []byte {
	pixels := make([]byte, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 3
			nx := float64(x) / float64(width)
			ny := float64(y) / float64(height)

			wave1 := math.Sin(nx*6.0+ny*2.0)*0.5 + 0.5
			wave2 := math.Sin(nx*3.0-ny*4.0+1.5)*0.5 + 0.5
			wave3 := math.Sin(nx*8.0+ny*1.0+3.0)*0.5 + 0.5

			vFade := math.Max(0, 1.0-ny*1.2)
			vFade *= vFade

			intensity := (wave1*0.5 + wave2*0.3 + wave3*0.2) * vFade

			r := int(40 * wave2 * intensity * 255)
			g := int((0.5*wave1 + 0.3*wave3) * intensity * 255)
			b := int((0.3*wave1 + 0.5*wave2) * intensity * 255)

			pixels[idx] = clampByte(r)
			pixels[idx+1] = clampByte(g)
			pixels[idx+2] = clampByte(b)
		}
	}

	return pixels
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
