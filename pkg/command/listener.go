package command

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// Source produces raw transcript text. Listen blocks until text is
// available, the source ends (io.EOF), or the context is cancelled.
type Source interface {
	Listen(ctx context.Context) (string, error)
}

// Listener pumps parsed commands from a Source into a shared buffered
// channel. The main loop drains the channel non-blockingly; the pump never
// touches handler state. Several producers (recognizer, keyboard, web API)
// may feed the same channel.
type Listener struct {
	source Source
	out    chan<- Command
	logger *slog.Logger
}

// NewListener wraps a source, sending parsed commands to out. Sends are
// non-blocking: when the channel is full the command is dropped with a
// warning so the pump never stalls the recognizer.
func NewListener(source Source, out chan<- Command) *Listener {
	return &Listener{
		source: source,
		out:    out,
		logger: slog.Default().With("component", "command.listener"),
	}
}

// Offer pushes a command onto the channel without blocking. Producers that
// do not read from a Source (the web API) use this directly.
func Offer(out chan<- Command, cmd Command) bool {
	select {
	case out <- cmd:
		return true
	default:
		return false
	}
}

// Run pumps until the context is cancelled or the source ends. Unparsable
// text is dropped silently.
func (l *Listener) Run(ctx context.Context) {
	for {
		raw, err := l.source.Listen(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			l.logger.Warn("command source error", "error", err)
			continue
		}

		cmd, ok := Parse(raw)
		if !ok {
			l.logger.Debug("ignoring unrecognized input", "text", raw)
			continue
		}

		select {
		case l.out <- cmd:
		default:
			l.logger.Warn("command channel full, dropping", "action", cmd.Action)
		}
	}
}

// KeyboardSource reads lines from a reader, typically stdin. It is the
// fallback when no speech recognizer is configured. A pump goroutine owns
// the blocking reads so Listen can honor context cancellation even while
// no line is available.
type KeyboardSource struct {
	lines   chan string
	readErr error
}

// NewKeyboardSource reads from stdin.
func NewKeyboardSource() *KeyboardSource {
	return NewKeyboardSourceFrom(os.Stdin)
}

// NewKeyboardSourceFrom reads from an arbitrary reader.
func NewKeyboardSourceFrom(r io.Reader) *KeyboardSource {
	k := &KeyboardSource{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			k.lines <- scanner.Text()
		}
		// readErr is published before the close, so Listen observes it
		// only after the channel is drained.
		if err := scanner.Err(); err != nil {
			k.readErr = err
		} else {
			k.readErr = io.EOF
		}
		close(k.lines)
	}()
	return k
}

// Listen returns the next line, io.EOF when input ends, or the context's
// error when cancelled while waiting.
func (k *KeyboardSource) Listen(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-k.lines:
		if !ok {
			return "", k.readErr
		}
		return line, nil
	}
}

var _ Source = (*KeyboardSource)(nil)
