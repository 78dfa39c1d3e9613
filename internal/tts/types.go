// Package tts provides text-to-speech synthesis for dialogue turns.
package tts

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrProviderUnavailable = errors.New("TTS provider unavailable")
	ErrEmptyText           = errors.New("no text to synthesize")
)

// Provider is the interface all TTS providers implement
type Provider interface {
	// Name returns the provider identifier (e.g., "playht", "gtranslate")
	Name() string

	// Synthesize converts text to audio
	Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error)

	// Health checks if the provider is reachable
	Health(ctx context.Context) error
}

// SynthesizeRequest represents a synthesis request
type SynthesizeRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice,omitempty"`    // Provider-specific voice reference
	Language string `json:"language,omitempty"` // Language tag, e.g. "en", "id"
}

// SynthesizeResponse represents a synthesis result
type SynthesizeResponse struct {
	Audio          []byte        `json:"audio"`           // Raw audio data
	Format         string        `json:"format"`          // Audio container, e.g. "mp3"
	Provider       string        `json:"provider"`        // Provider name
	ProcessingTime time.Duration `json:"processing_time"` // How long synthesis took
}
