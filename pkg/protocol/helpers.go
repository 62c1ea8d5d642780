package protocol

import (
	"encoding/base64"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewSetConfigMessage creates a config override message from a patch
func NewSetConfigMessage(patch ConfigPatch) (*Message, error) {
	return NewMessage(TypeSetConfig, patch)
}

// NewSetEmotionMessage creates an emotional state update message
func NewSetEmotionMessage(data EmotionData) (*Message, error) {
	return NewMessage(TypeSetEmotion, data)
}

// NewSetModeMessage creates a mode-only update message
func NewSetModeMessage(mode string) (*Message, error) {
	return NewMessage(TypeSetMode, ModeData{Mode: mode})
}

// NewLoadPatternMessage creates a message that loads a built-in pattern
func NewLoadPatternMessage(name string) (*Message, error) {
	return NewMessage(TypeLoadPattern, PatternData{Name: name})
}

// NewUploadImageMessage creates an image upload message from raw RGB bytes
func NewUploadImageMessage(width, height int, rgb []byte) (*Message, error) {
	return NewMessage(TypeUploadImage, ImageData{
		Width:  width,
		Height: height,
		Data:   base64.StdEncoding.EncodeToString(rgb),
	})
}

// NewClearMessage creates a message that fades the field to empty
func NewClearMessage() (*Message, error) {
	return NewMessage(TypeClear, nil)
}

// NewSetFPSMessage creates a frame rate change message
func NewSetFPSMessage(fps int) (*Message, error) {
	return NewMessage(TypeSetFPS, FPSData{FPS: fps})
}

// NewSetQualityMessage creates a JPEG quality change message
func NewSetQualityMessage(quality int) (*Message, error) {
	return NewMessage(TypeSetQuality, QualityData{Quality: quality})
}

// NewGetStatusMessage creates a status request message
func NewGetStatusMessage() (*Message, error) {
	return NewMessage(TypeGetStatus, nil)
}

// NewStatusMessage creates a status snapshot message
func NewStatusMessage(status StatusData) (*Message, error) {
	return NewMessage(TypeStatus, status)
}

// NewPingMessage creates a ping message
func NewPingMessage() (*Message, error) {
	return NewMessage(TypePing, nil)
}

// NewPongMessage creates a pong response message
func NewPongMessage() (*Message, error) {
	return NewMessage(TypePong, nil)
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetConfigPatch extracts a config patch from a message
func (m *Message) GetConfigPatch() (*ConfigPatch, error) {
	var data ConfigPatch
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetEmotionData extracts emotion data from a message
func (m *Message) GetEmotionData() (*EmotionData, error) {
	var data EmotionData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetModeData extracts mode data from a message
func (m *Message) GetModeData() (*ModeData, error) {
	var data ModeData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPatternData extracts pattern data from a message
func (m *Message) GetPatternData() (*PatternData, error) {
	var data PatternData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetImageData extracts image data from a message
func (m *Message) GetImageData() (*ImageData, error) {
	var data ImageData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DecodeImageData decodes the base64 RGB payload
func (i *ImageData) DecodeImageData() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Data)
}

// GetFPSData extracts FPS data from a message
func (m *Message) GetFPSData() (*FPSData, error) {
	var data FPSData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetQualityData extracts quality data from a message
func (m *Message) GetQualityData() (*QualityData, error) {
	var data QualityData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatusData extracts a status snapshot from a message
func (m *Message) GetStatusData() (*StatusData, error) {
	var data StatusData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
