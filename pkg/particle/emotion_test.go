package particle

import (
	"math"
	"testing"
)

func TestMapEmotion_ArousalRange(t *testing.T) {
	// Talking mode floors speed at 1.5 and pulse at 1.5, so use it to probe
	// the upper bound and listening/idle-free values via thinking instead.
	low := MapEmotion(EmotionalState{Arousal: 0, Mode: ModeTalking})
	high := MapEmotion(EmotionalState{Arousal: 1, Mode: ModeTalking})

	if !floatEquals(low.ParticleSpeed, 1.5) {
		t.Errorf("low arousal talking speed = %v, want floor 1.5", low.ParticleSpeed)
	}
	if !floatEquals(high.ParticleSpeed, 3.0) {
		t.Errorf("high arousal speed = %v, want 3.0", high.ParticleSpeed)
	}
	if !floatEquals(low.Dispersion, 10) || !floatEquals(high.Dispersion, 100) {
		t.Errorf("dispersion = %v..%v, want 10..100", low.Dispersion, high.Dispersion)
	}
}

func TestMapEmotion_ValenceDrivesSize(t *testing.T) {
	sad := MapEmotion(EmotionalState{Valence: -1, Mode: ModeIdle})
	happy := MapEmotion(EmotionalState{Valence: 1, Mode: ModeIdle})
	neutral := MapEmotion(EmotionalState{Valence: 0, Mode: ModeIdle})

	if !floatEquals(sad.ParticleSize, 1.5) {
		t.Errorf("valence -1 size = %v, want 1.5", sad.ParticleSize)
	}
	if !floatEquals(happy.ParticleSize, 5.0) {
		t.Errorf("valence +1 size = %v, want 5.0", happy.ParticleSize)
	}
	if !floatEquals(neutral.ParticleSize, 3.25) {
		t.Errorf("valence 0 size = %v, want 3.25", neutral.ParticleSize)
	}
}

func TestMapEmotion_CertaintyDrivesStructure(t *testing.T) {
	tests := []struct {
		name      string
		certainty float64
		count     int
		links     int
		opacity   float64
	}{
		{"uncertain", 0, 300, 0, 0.5},
		{"half", 0.5, 900, 40, 0.75},
		{"certain", 1, 1500, 80, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MapEmotion(EmotionalState{Certainty: tt.certainty, Mode: ModeIdle})
			if cfg.ParticleCount != tt.count {
				t.Errorf("ParticleCount = %v, want %v", cfg.ParticleCount, tt.count)
			}
			if cfg.LinkCount != tt.links {
				t.Errorf("LinkCount = %v, want %v", cfg.LinkCount, tt.links)
			}
			if !floatEquals(cfg.Opacity, tt.opacity) {
				t.Errorf("Opacity = %v, want %v", cfg.Opacity, tt.opacity)
			}
		})
	}
}

func TestMapEmotion_ModeOverrides(t *testing.T) {
	tests := []struct {
		name  string
		state EmotionalState
		check func(t *testing.T, cfg Config)
	}{
		{
			name:  "thinking swirls inward with tight dispersion",
			state: EmotionalState{Arousal: 1, Mode: ModeThinking},
			check: func(t *testing.T, cfg Config) {
				if cfg.Animation != AnimSwirlInward {
					t.Errorf("Animation = %v, want swirl_inward", cfg.Animation)
				}
				if !floatEquals(cfg.RotationSpeed, 2.0) {
					t.Errorf("RotationSpeed = %v, want 2.0", cfg.RotationSpeed)
				}
				if !floatEquals(cfg.Dispersion, 40) {
					t.Errorf("Dispersion = %v, want tightened to 40", cfg.Dispersion)
				}
			},
		},
		{
			name:  "thinking floors speed",
			state: EmotionalState{Arousal: 0, Mode: ModeThinking},
			check: func(t *testing.T, cfg Config) {
				if !floatEquals(cfg.ParticleSpeed, 1.0) {
					t.Errorf("ParticleSpeed = %v, want floor 1.0", cfg.ParticleSpeed)
				}
			},
		},
		{
			name:  "talking pulses outward",
			state: EmotionalState{Arousal: 0, Mode: ModeTalking},
			check: func(t *testing.T, cfg Config) {
				if cfg.Animation != AnimPulseOutward {
					t.Errorf("Animation = %v, want pulse_outward", cfg.Animation)
				}
				if !floatEquals(cfg.PulseSpeed, 1.5) {
					t.Errorf("PulseSpeed = %v, want floor 1.5", cfg.PulseSpeed)
				}
			},
		},
		{
			name:  "listening is calm",
			state: EmotionalState{Arousal: 1, Mode: ModeListening},
			check: func(t *testing.T, cfg Config) {
				if cfg.Animation != AnimFloat {
					t.Errorf("Animation = %v, want float", cfg.Animation)
				}
				if !floatEquals(cfg.ParticleSpeed, 0.8) {
					t.Errorf("ParticleSpeed = %v, want cap 0.8", cfg.ParticleSpeed)
				}
				if !floatEquals(cfg.Dispersion, 30) {
					t.Errorf("Dispersion = %v, want cap 30", cfg.Dispersion)
				}
			},
		},
		{
			name:  "idle drifts slowly",
			state: EmotionalState{Arousal: 1, Mode: ModeIdle},
			check: func(t *testing.T, cfg Config) {
				if cfg.Animation != AnimDrift {
					t.Errorf("Animation = %v, want drift", cfg.Animation)
				}
				if !floatEquals(cfg.ParticleSpeed, 0.5) {
					t.Errorf("ParticleSpeed = %v, want cap 0.5", cfg.ParticleSpeed)
				}
				if !floatEquals(cfg.PulseSpeed, 0.8) {
					t.Errorf("PulseSpeed = %v, want cap 0.8", cfg.PulseSpeed)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MapEmotion(tt.state))
		})
	}
}

func TestMapEmotion_Deterministic(t *testing.T) {
	state := EmotionalState{Valence: 0.3, Arousal: 0.7, Certainty: 0.5, Mode: ModeThinking}
	a := MapEmotion(state)
	b := MapEmotion(state)
	if a != b {
		t.Errorf("MapEmotion is not deterministic: %+v != %+v", a, b)
	}
}

func TestEmotionalState_Clamp(t *testing.T) {
	s := EmotionalState{Valence: -2, Arousal: 1.5, Certainty: math.Inf(1), Mode: Mode("angry")}
	c := s.Clamp()

	if c.Valence != -1 {
		t.Errorf("Valence = %v, want -1", c.Valence)
	}
	if c.Arousal != 1 {
		t.Errorf("Arousal = %v, want 1", c.Arousal)
	}
	if c.Certainty != 1 {
		t.Errorf("Certainty = %v, want 1", c.Certainty)
	}
	if c.Mode != ModeIdle {
		t.Errorf("Mode = %v, want idle fallback", c.Mode)
	}
}
