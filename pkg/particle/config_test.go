package particle

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestStepToward_SaturatesAtOneThirdSecond(t *testing.T) {
	// With the 3.0/s smoothing rate, dt = 1/3s closes 100% of the gap.
	current := DefaultConfig()
	target := DefaultConfig()
	current.Dispersion = 0
	target.Dispersion = 10

	current.StepToward(target, 1.0/3.0)

	if !floatEquals(current.Dispersion, 10) {
		t.Errorf("Dispersion = %v, want exactly 10", current.Dispersion)
	}
}

func TestStepToward_FractionalStep(t *testing.T) {
	// dt = 1/30s closes 3*(1/30) = 10% of the gap.
	current := DefaultConfig()
	target := DefaultConfig()
	current.Dispersion = 0
	target.Dispersion = 10

	current.StepToward(target, 1.0/30.0)

	if !floatEquals(current.Dispersion, 1.0) {
		t.Errorf("Dispersion = %v, want 1.0", current.Dispersion)
	}
}

func TestStepToward_ConvergesWithoutOvershoot(t *testing.T) {
	current := DefaultConfig()
	target := DefaultConfig()
	current.ParticleSpeed = 0.3
	target.ParticleSpeed = 3.0

	prev := current.ParticleSpeed
	for i := 0; i < 200; i++ {
		current.StepToward(target, 1.0/30.0)
		if current.ParticleSpeed > target.ParticleSpeed+floatTolerance {
			t.Fatalf("overshoot at step %d: %v", i, current.ParticleSpeed)
		}
		if current.ParticleSpeed < prev-floatTolerance {
			t.Fatalf("regression at step %d: %v < %v", i, current.ParticleSpeed, prev)
		}
		prev = current.ParticleSpeed
	}

	if math.Abs(current.ParticleSpeed-3.0) > 1e-6 {
		t.Errorf("ParticleSpeed = %v, want ~3.0 after 200 steps", current.ParticleSpeed)
	}
}

func TestStepToward_DiscreteFieldsSnap(t *testing.T) {
	current := DefaultConfig()
	target := DefaultConfig()
	target.Shape = ShapeStar
	target.Animation = AnimSwirlInward
	target.BGColor = "#112233"
	target.ParticleCount = 1500
	target.LinkCount = 80
	target.ColorMode = "mono"

	// Even a tiny step snaps every discrete field.
	current.StepToward(target, 0.001)

	if current.Shape != ShapeStar {
		t.Errorf("Shape = %v, want %v", current.Shape, ShapeStar)
	}
	if current.Animation != AnimSwirlInward {
		t.Errorf("Animation = %v, want %v", current.Animation, AnimSwirlInward)
	}
	if current.BGColor != "#112233" {
		t.Errorf("BGColor = %v, want #112233", current.BGColor)
	}
	if current.ParticleCount != 1500 {
		t.Errorf("ParticleCount = %v, want 1500", current.ParticleCount)
	}
	if current.LinkCount != 80 {
		t.Errorf("LinkCount = %v, want 80", current.LinkCount)
	}
	if current.ColorMode != "mono" {
		t.Errorf("ColorMode = %v, want mono", current.ColorMode)
	}
}

func TestShapeAndAnimationValidation(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		anim  Animation
		wantS bool
		wantA bool
	}{
		{"known", ShapeCircle, AnimFloat, true, true},
		{"star swirl", ShapeStar, AnimSwirlInward, true, true},
		{"unknown", Shape("hexagon"), Animation("explode"), false, false},
		{"empty", Shape(""), Animation(""), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Valid(); got != tt.wantS {
				t.Errorf("Shape(%q).Valid() = %v, want %v", tt.shape, got, tt.wantS)
			}
			if got := tt.anim.Valid(); got != tt.wantA {
				t.Errorf("Animation(%q).Valid() = %v, want %v", tt.anim, got, tt.wantA)
			}
		})
	}
}
