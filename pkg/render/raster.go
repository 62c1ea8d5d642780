package render

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// parseHexColor parses "#rrggbb". Anything else falls back to black, which
// matches the display's default background.
func parseHexColor(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{A: 255}
	}
	hex := func(c byte) (int, bool) {
		switch {
		case c >= '0' && c <= '9':
			return int(c - '0'), true
		case c >= 'a' && c <= 'f':
			return int(c-'a') + 10, true
		case c >= 'A' && c <= 'F':
			return int(c-'A') + 10, true
		}
		return 0, false
	}
	var v [6]int
	for i := 0; i < 6; i++ {
		n, ok := hex(s[i+1])
		if !ok {
			return color.RGBA{A: 255}
		}
		v[i] = n
	}
	return color.RGBA{
		R: uint8(v[0]<<4 | v[1]),
		G: uint8(v[2]<<4 | v[3]),
		B: uint8(v[4]<<4 | v[5]),
		A: 255,
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= img.Rect.Dx() || y >= img.Rect.Dy() {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = 255
}

// fillCircle draws a filled circle of the given radius centered at (cx, cy).
func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				setPixel(img, cx+dx, cy+dy, c)
			}
		}
	}
}

// fillSquare draws a filled axis-aligned square of half-size radius.
func fillSquare(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			setPixel(img, cx+dx, cy+dy, c)
		}
	}
}

// starPoints returns the eight vertices of a four-point star of half-size
// radius centered at (cx, cy).
func starPoints(cx, cy, radius int) []image.Point {
	inner := radius / 3
	return []image.Point{
		{cx, cy - radius},
		{cx + inner, cy - inner},
		{cx + radius, cy},
		{cx + inner, cy + inner},
		{cx, cy + radius},
		{cx - inner, cy + inner},
		{cx - radius, cy},
		{cx - inner, cy - inner},
	}
}

// fillPolygon fills a simple polygon with an even-odd scanline pass.
func fillPolygon(img *image.RGBA, pts []image.Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	xs := make([]float64, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		fy := float64(y) + 0.5
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			ay, by := float64(a.Y), float64(b.Y)
			if (ay <= fy && by > fy) || (by <= fy && ay > fy) {
				t := (fy - ay) / (by - ay)
				xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); float64(x) <= xs[i+1]; x++ {
				setPixel(img, x, y, c)
			}
		}
	}
}

// drawLine draws a one-pixel line between two points.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		setPixel(img, x0, y0, c)
		return
	}
	sx := float64(dx) / float64(steps)
	sy := float64(dy) / float64(steps)
	fx, fy := float64(x0), float64(y0)
	for i := 0; i <= steps; i++ {
		setPixel(img, int(fx+0.5), int(fy+0.5), c)
		fx += sx
		fy += sy
	}
}

// boxBlur returns a blurred copy of img using two separable box passes of
// the given radius. Alpha is left opaque.
func boxBlur(img *image.RGBA, radius int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	tmp := image.NewRGBA(img.Rect)
	out := image.NewRGBA(img.Rect)
	window := 2*radius + 1

	// Horizontal pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b int
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				i := img.PixOffset(sx, y)
				r += int(img.Pix[i])
				g += int(img.Pix[i+1])
				b += int(img.Pix[i+2])
			}
			i := tmp.PixOffset(x, y)
			tmp.Pix[i] = uint8(r / window)
			tmp.Pix[i+1] = uint8(g / window)
			tmp.Pix[i+2] = uint8(b / window)
			tmp.Pix[i+3] = 255
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b int
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				i := tmp.PixOffset(x, sy)
				r += int(tmp.Pix[i])
				g += int(tmp.Pix[i+1])
				b += int(tmp.Pix[i+2])
			}
			i := out.PixOffset(x, y)
			out.Pix[i] = uint8(r / window)
			out.Pix[i+1] = uint8(g / window)
			out.Pix[i+2] = uint8(b / window)
			out.Pix[i+3] = 255
		}
	}

	return out
}

// compositeAdd adds half of each overlay channel onto dst, clamped to 255.
func compositeAdd(dst, overlay *image.RGBA) {
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i] = addClamp(dst.Pix[i], overlay.Pix[i]/2)
		dst.Pix[i+1] = addClamp(dst.Pix[i+1], overlay.Pix[i+1]/2)
		dst.Pix[i+2] = addClamp(dst.Pix[i+2], overlay.Pix[i+2]/2)
	}
}

func addClamp(a, b uint8) uint8 {
	s := int(a) + int(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
