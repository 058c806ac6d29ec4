package command

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// transcriptEvent is what the recognizer gateway pushes per utterance.
type transcriptEvent struct {
	Text string `json:"text"`
}

// WSSource receives transcripts from a speech-recognizer gateway over a
// websocket. Listen redials after a dropped connection, so a recognizer
// restart only costs the utterances sent while disconnected.
type WSSource struct {
	url    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSSource creates a source for the given ws:// or wss:// URL.
func NewWSSource(url string) *WSSource {
	return &WSSource{
		url:    url,
		logger: slog.Default().With("component", "command.ws"),
	}
}

// Listen returns the next transcript. Empty transcript events are skipped.
func (s *WSSource) Listen(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		conn, err := s.connect(ctx)
		if err != nil {
			return "", fmt.Errorf("command: dial recognizer: %w", err)
		}

		var ev transcriptEvent
		if err := conn.ReadJSON(&ev); err != nil {
			s.disconnect()
			return "", fmt.Errorf("command: read transcript: %w", err)
		}
		if ev.Text == "" {
			continue
		}
		s.logger.Debug("transcript received", "text", ev.Text)
		return ev.Text, nil
	}
}

// Close tears down the connection.
func (s *WSSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *WSSource) connect(ctx context.Context) (*websocket.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn, nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("connected to recognizer", "url", s.url)
	s.conn = conn
	return conn, nil
}

func (s *WSSource) disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

var _ Source = (*WSSource)(nil)
