package announce

import (
	"context"
	"log/slog"
)

// LogSpeaker prints announcements instead of speaking them. Used when no
// TTS credentials are configured.
type LogSpeaker struct {
	logger *slog.Logger
}

// NewLogSpeaker creates a log-only speaker.
func NewLogSpeaker() *LogSpeaker {
	return &LogSpeaker{logger: slog.Default().With("component", "announce.log")}
}

// Speak logs the text and returns immediately.
func (s *LogSpeaker) Speak(_ context.Context, text string) error {
	s.logger.Info("announce", "text", text)
	return nil
}

var _ Speaker = (*LogSpeaker)(nil)
