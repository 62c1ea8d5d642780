package render

import (
	"bytes"
	"image"
	"image/jpeg"
	"math/rand"
	"testing"

	"github.com/teslashibe/go-ada/pkg/particle"
)

func newTestRenderer(w, h int) *Renderer {
	return New(w, h, rand.New(rand.NewSource(7)))
}

// litField returns a field whose particles have had time to fade in.
func litField(t *testing.T, w, h int, cfg particle.Config) *particle.Field {
	t.Helper()
	f := particle.NewField(w, h, rand.New(rand.NewSource(7)))
	f.PopulateStartup(cfg)
	for i := 0; i < 60; i++ {
		f.Update(1.0/30.0, cfg)
	}
	return f
}

func TestRender_EmptyFieldIsBackgroundColor(t *testing.T) {
	r := newTestRenderer(64, 64)
	cfg := particle.DefaultConfig()
	cfg.BGColor = "#103050"

	f := particle.NewField(64, 64, rand.New(rand.NewSource(7)))
	frame, err := r.Render(f, cfg)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("frame is not valid JPEG: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("frame size = %v, want 64x64", img.Bounds())
	}

	// JPEG is lossy; allow a small per-channel tolerance.
	cr, cg, cb, _ := img.At(32, 32).RGBA()
	got := [3]int{int(cr >> 8), int(cg >> 8), int(cb >> 8)}
	want := [3]int{0x10, 0x30, 0x50}
	for i := range got {
		if d := got[i] - want[i]; d < -12 || d > 12 {
			t.Errorf("background channel %d = %d, want ~%d", i, got[i], want[i])
		}
	}
}

func TestRender_DrawsAtMostActiveCount(t *testing.T) {
	cfg := particle.DefaultConfig()
	cfg.ParticleCount = 50
	f := litField(t, 200, 200, cfg)

	r := newTestRenderer(200, 200)
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))

	// Only the active prefix is drawn when the config count drops.
	drawn := r.drawParticles(img, f.Particles(), 10, cfg)
	if drawn > 10 {
		t.Errorf("drawn = %d, want at most 10", drawn)
	}
	if drawn == 0 {
		t.Error("expected faded-in particles to be drawn")
	}
}

func TestRender_Shapes(t *testing.T) {
	for _, shape := range []particle.Shape{particle.ShapeCircle, particle.ShapeSquare, particle.ShapeStar} {
		t.Run(string(shape), func(t *testing.T) {
			cfg := particle.DefaultConfig()
			cfg.ParticleCount = 20
			cfg.Shape = shape
			f := litField(t, 128, 128, cfg)

			r := newTestRenderer(128, 128)
			withParticles, err := r.Render(f, cfg)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			empty, err := newTestRenderer(128, 128).Render(particle.NewField(128, 128, rand.New(rand.NewSource(7))), cfg)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if bytes.Equal(withParticles, empty) {
				t.Error("frame with particles should differ from empty frame")
			}
		})
	}
}

func TestRender_Reproducible(t *testing.T) {
	cfg := particle.DefaultConfig()
	cfg.ParticleCount = 40
	cfg.LinkCount = 10
	cfg.LinkOpacity = 0.5

	a, err := newTestRenderer(128, 128).Render(litField(t, 128, 128, cfg), cfg)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	b, err := newTestRenderer(128, 128).Render(litField(t, 128, 128, cfg), cfg)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("identically seeded renders should produce identical frames")
	}
}

func TestSetQuality_Clamps(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 30},
		{30, 30},
		{60, 60},
		{95, 95},
		{100, 95},
	}

	r := newTestRenderer(16, 16)
	for _, tt := range tests {
		r.SetQuality(tt.in)
		if got := r.Quality(); got != tt.want {
			t.Errorf("SetQuality(%d): quality = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		r, g, b uint8
	}{
		{"black", "#000000", 0, 0, 0},
		{"teal", "#00ffcc", 0, 255, 204},
		{"uppercase", "#A1B2C3", 0xA1, 0xB2, 0xC3},
		{"missing hash", "00ffcc", 0, 0, 0},
		{"too short", "#fff", 0, 0, 0},
		{"garbage", "#zzzzzz", 0, 0, 0},
		{"empty", "", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseHexColor(tt.in)
			if c.R != tt.r || c.G != tt.g || c.B != tt.b {
				t.Errorf("parseHexColor(%q) = (%d,%d,%d), want (%d,%d,%d)",
					tt.in, c.R, c.G, c.B, tt.r, tt.g, tt.b)
			}
		})
	}
}
