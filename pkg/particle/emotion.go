package particle

import "math"

// Mode is the conversational mode the companion is in. It is owned by the
// external voice/agent subsystem; this package only reads it.
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeListening Mode = "listening"
	ModeThinking  Mode = "thinking"
	ModeTalking   Mode = "talking"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeIdle, ModeListening, ModeThinking, ModeTalking:
		return true
	}
	return false
}

// EmotionalState is the external input that drives the field's look.
// Valence is in [-1, 1]; arousal and certainty are in [0, 1].
type EmotionalState struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Certainty float64 `json:"certainty"`
	Mode      Mode    `json:"mode"`
}

// Clamp returns a copy of s with every field forced into its declared range.
// MapEmotion assumes clamped input.
func (s EmotionalState) Clamp() EmotionalState {
	s.Valence = clamp(s.Valence, -1, 1)
	s.Arousal = clamp(s.Arousal, 0, 1)
	s.Certainty = clamp(s.Certainty, 0, 1)
	if !s.Mode.Valid() {
		s.Mode = ModeIdle
	}
	return s
}

// MapEmotion maps an emotional state to a target particle config. It is a
// pure function: same state in, same config out, callable at any rate.
//
// Arousal drives energy (speed, spread, pulse), valence drives warmth
// (particle size), certainty drives structure (count, links, opacity), and
// the conversational mode picks the animation and refines the numbers.
func MapEmotion(s EmotionalState) Config {
	cfg := DefaultConfig()

	cfg.ParticleSpeed = lerp(0.3, 3.0, s.Arousal)
	cfg.Dispersion = lerp(10, 100, s.Arousal)
	cfg.PulseSpeed = lerp(0.5, 3.0, s.Arousal)

	cfg.ParticleSize = lerp(1.5, 5.0, (s.Valence+1)/2)

	cfg.ParticleCount = int(math.Round(lerp(300, 1500, s.Certainty)))
	cfg.LinkCount = int(math.Round(lerp(0, 80, s.Certainty)))
	cfg.Opacity = lerp(0.5, 1.0, s.Certainty)

	switch s.Mode {
	case ModeThinking:
		cfg.Animation = AnimSwirlInward
		cfg.RotationSpeed = 2.0
		cfg.Dispersion = lerp(10, 40, s.Arousal)
		cfg.ParticleSpeed = math.Max(cfg.ParticleSpeed, 1.0)

	case ModeTalking:
		cfg.Animation = AnimPulseOutward
		cfg.ParticleSpeed = math.Max(cfg.ParticleSpeed, 1.5)
		cfg.PulseSpeed = math.Max(cfg.PulseSpeed, 1.5)

	case ModeListening:
		cfg.Animation = AnimFloat
		cfg.ParticleSpeed = math.Min(cfg.ParticleSpeed, 0.8)
		cfg.Dispersion = math.Min(cfg.Dispersion, 30)

	default: // idle
		cfg.Animation = AnimDrift
		cfg.ParticleSpeed = math.Min(cfg.ParticleSpeed, 0.5)
		cfg.PulseSpeed = math.Min(cfg.PulseSpeed, 0.8)
	}

	return cfg
}
