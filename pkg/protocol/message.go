// Package protocol defines the WebSocket message types for the Ada display
// core. Control clients (the agent, the CLI) send typed JSON commands; the
// core answers with status snapshots. Display clients receive raw binary
// JPEG frames with no envelope at all.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-ada/pkg/particle"
)

// MessageType identifies the type of WebSocket control message
type MessageType string

const (
	// Control → Core commands
	TypeSetConfig   MessageType = "set_config"   // Override particle config fields
	TypeSetEmotion  MessageType = "set_emotion"  // Update emotional state
	TypeSetMode     MessageType = "set_mode"     // Update conversational mode only
	TypeLoadPattern MessageType = "load_pattern" // Populate from a built-in test pattern
	TypeUploadImage MessageType = "upload_image" // Populate from raw RGB image data
	TypeClear       MessageType = "clear"        // Fade the field to empty
	TypeSetFPS      MessageType = "set_fps"      // Scheduler frame rate
	TypeSetQuality  MessageType = "set_quality"  // JPEG encode quality
	TypeGetStatus   MessageType = "get_status"   // Request a status snapshot

	// Core → Control messages
	TypeStatus MessageType = "status" // Status snapshot

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the base wrapper for all control messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message has no type discriminator")
	}
	return &msg, nil
}

// =============================================================================
// Control → Core Message Types
// =============================================================================

// ConfigPatch overrides a subset of the particle config. Nil fields are left
// untouched, so a client can adjust one knob without knowing the rest.
type ConfigPatch struct {
	ParticleCount *int                `json:"particle_count,omitempty"`
	ParticleSize  *float64            `json:"particle_size,omitempty"`
	ParticleSpeed *float64            `json:"particle_speed,omitempty"`
	Dispersion    *float64            `json:"dispersion,omitempty"`
	Opacity       *float64            `json:"opacity,omitempty"`
	Shape         *particle.Shape     `json:"shape,omitempty"`
	Animation     *particle.Animation `json:"animation,omitempty"`
	PulseSpeed    *float64            `json:"pulse_speed,omitempty"`
	RotationSpeed *float64            `json:"rotation_speed,omitempty"`
	BGColor       *string             `json:"bg_color,omitempty"`
	LinkCount     *int                `json:"link_count,omitempty"`
	LinkOpacity   *float64            `json:"link_opacity,omitempty"`
	ColorMode     *string             `json:"color_mode,omitempty"`
}

// Apply copies every non-nil patch field onto cfg. Unknown shape or
// animation values are dropped rather than applied.
func (p *ConfigPatch) Apply(cfg *particle.Config) {
	if p.ParticleCount != nil {
		cfg.ParticleCount = *p.ParticleCount
	}
	if p.ParticleSize != nil {
		cfg.ParticleSize = *p.ParticleSize
	}
	if p.ParticleSpeed != nil {
		cfg.ParticleSpeed = *p.ParticleSpeed
	}
	if p.Dispersion != nil {
		cfg.Dispersion = *p.Dispersion
	}
	if p.Opacity != nil {
		cfg.Opacity = *p.Opacity
	}
	if p.Shape != nil && p.Shape.Valid() {
		cfg.Shape = *p.Shape
	}
	if p.Animation != nil && p.Animation.Valid() {
		cfg.Animation = *p.Animation
	}
	if p.PulseSpeed != nil {
		cfg.PulseSpeed = *p.PulseSpeed
	}
	if p.RotationSpeed != nil {
		cfg.RotationSpeed = *p.RotationSpeed
	}
	if p.BGColor != nil {
		cfg.BGColor = *p.BGColor
	}
	if p.LinkCount != nil {
		cfg.LinkCount = *p.LinkCount
	}
	if p.LinkOpacity != nil {
		cfg.LinkOpacity = *p.LinkOpacity
	}
	if p.ColorMode != nil {
		cfg.ColorMode = *p.ColorMode
	}
}

// EmotionData updates the emotional state. Nil fields keep their previous
// value; the core clamps everything to the declared ranges before mapping.
type EmotionData struct {
	Valence   *float64 `json:"valence,omitempty"`
	Arousal   *float64 `json:"arousal,omitempty"`
	Certainty *float64 `json:"certainty,omitempty"`
	Mode      string   `json:"mode,omitempty"`
}

// ModeData switches only the conversational mode.
type ModeData struct {
	Mode string `json:"mode"`
}

// PatternData names a built-in test pattern to decompose into particles.
type PatternData struct {
	Name string `json:"name"`
}

// ImageData carries a raw RGB image (row-major, 3 bytes per pixel),
// base64-encoded for the JSON envelope.
type ImageData struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"` // base64 encoded RGB bytes
}

// FPSData sets the streaming frame rate. The core clamps to [1, 30].
type FPSData struct {
	FPS int `json:"fps"`
}

// QualityData sets the JPEG encode quality. The core clamps to [30, 95].
type QualityData struct {
	Quality int `json:"quality"`
}

// =============================================================================
// Core → Control Message Types
// =============================================================================

// StatusData is a snapshot of the rendering core, sent to control clients
// on connect, on request, and after state-changing commands.
type StatusData struct {
	Streaming     bool                    `json:"streaming"`
	Clients       int                     `json:"clients"`
	ParticleCount int                     `json:"particle_count"`
	FPS           int                     `json:"fps"`
	Quality       int                     `json:"quality"`
	Emotion       particle.EmotionalState `json:"emotion"`
	Current       particle.Config         `json:"current_config"`
	Target        particle.Config         `json:"target_config"`
}
