// Package tts provides text-to-speech synthesis for spoken announcements.
//
// The Provider interface hides the backend; ElevenLabs is the bundled
// implementation. Speaker adapts a Provider plus a playback function into
// the announcement queue's speaker contract.
package tts

import (
	"context"
	"time"
)

// Provider converts text to audio.
type Provider interface {
	// Synthesize converts text to audio, returning the complete buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete synthesis result.
type AudioResult struct {
	// Audio contains the encoded audio data.
	Audio []byte

	// MIME describes the audio encoding, e.g. "audio/mpeg".
	MIME string

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the time to response in milliseconds.
	LatencyMs int64
}

// PlayFunc delivers synthesized audio to the output device.
// Playback must be synchronous: the call returns when audio finishes.
type PlayFunc func(audio []byte, mime string) error

// Speaker turns a Provider and a playback function into a speech backend
// for the announcement queue.
type Speaker struct {
	provider Provider
	play     PlayFunc
}

// NewSpeaker creates a Speaker.
func NewSpeaker(p Provider, play PlayFunc) *Speaker {
	return &Speaker{provider: p, play: play}
}

// Speak synthesizes and plays the text, returning when playback ends.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	result, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.play(result.Audio, result.MIME)
}

// estimateLatency is used by mocks to pace fake playback.
func estimateLatency(chars int) time.Duration {
	return time.Duration(chars) * 20 * time.Millisecond
}
