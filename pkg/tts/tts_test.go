package tts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewElevenLabsValidation(t *testing.T) {
	if _, err := NewElevenLabs(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewElevenLabs(WithAPIKey("k")); !errors.Is(err, ErrMissingVoice) {
		t.Fatalf("expected ErrMissingVoice, got %v", err)
	}
	p, err := NewElevenLabs(WithAPIKey("k"), WithVoice("v"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.config.ModelID != ModelTurboV2 {
		t.Errorf("expected default model %q, got %q", ModelTurboV2, p.config.ModelID)
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload["text"] != "hello" {
			t.Errorf("expected text hello, got %v", payload["text"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	p, err := NewElevenLabs(
		WithAPIKey("test-key"),
		WithVoice("voice-1"),
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	defer p.Close()

	result, err := p.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(result.Audio) != "mp3-bytes" {
		t.Errorf("unexpected audio %q", result.Audio)
	}
	if result.MIME != "audio/mpeg" {
		t.Errorf("unexpected mime %q", result.MIME)
	}
	if result.CharCount != 5 {
		t.Errorf("expected char count 5, got %d", result.CharCount)
	}
}

func TestElevenLabsRetriesOn429(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p, err := NewElevenLabs(
		WithAPIKey("k"),
		WithVoice("v"),
		WithBaseURL(srv.URL),
		WithRetry(3, time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	defer p.Close()

	if _, err := p.Synthesize(context.Background(), "retry me"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestElevenLabsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"detail": map[string]string{"message": "invalid api key", "status": "unauthorized"},
		})
	}))
	defer srv.Close()

	p, err := NewElevenLabs(WithAPIKey("bad"), WithVoice("v"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	defer p.Close()

	_, err = p.Synthesize(context.Background(), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestSpeakerSpeak(t *testing.T) {
	mock := &MockProvider{}
	var played []byte
	sp := NewSpeaker(mock, func(audio []byte, mime string) error {
		played = audio
		return nil
	})

	if err := sp.Speak(context.Background(), "good morning"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if string(played) != "fake-audio" {
		t.Errorf("playback did not receive audio, got %q", played)
	}
	if texts := mock.Texts(); len(texts) != 1 || texts[0] != "good morning" {
		t.Errorf("unexpected recorded texts %v", texts)
	}
}

func TestSpeakerSynthesisError(t *testing.T) {
	wantErr := errors.New("synth down")
	mock := &MockProvider{
		SynthesizeFunc: func(ctx context.Context, text string) (*AudioResult, error) {
			return nil, wantErr
		},
	}
	sp := NewSpeaker(mock, func(audio []byte, mime string) error {
		t.Fatal("play should not be called on synthesis error")
		return nil
	})
	if err := sp.Speak(context.Background(), "x"); !errors.Is(err, wantErr) {
		t.Fatalf("expected synth error, got %v", err)
	}
}
