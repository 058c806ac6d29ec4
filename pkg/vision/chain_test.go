package vision

import (
	"context"
	"errors"
	"testing"
)

func TestChain_RequiresAnalyzers(t *testing.T) {
	if _, err := NewChain(); err != ErrUnavailable {
		t.Errorf("NewChain(): got err %v, want ErrUnavailable", err)
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &Mock{IdentifyFunc: func(context.Context, []byte, string) (string, error) {
		return "first answer", nil
	}}
	second := &Mock{}

	chain, err := NewChain(first, second)
	if err != nil {
		t.Fatal(err)
	}

	answer, err := chain.Identify(context.Background(), nil, "what is this")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if answer != "first answer" {
		t.Errorf("got %q, want first analyzer's answer", answer)
	}
	if len(second.Calls()) != 0 {
		t.Error("second analyzer called despite first succeeding")
	}
}

func TestChain_FallsBackOnError(t *testing.T) {
	failing := &Mock{IdentifyFunc: func(context.Context, []byte, string) (string, error) {
		return "", errors.New("boom")
	}}
	backup := &Mock{IdentifyFunc: func(context.Context, []byte, string) (string, error) {
		return "backup answer", nil
	}}

	chain, _ := NewChain(failing, backup)
	answer, err := chain.Identify(context.Background(), nil, "what is this")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if answer != "backup answer" {
		t.Errorf("got %q, want backup analyzer's answer", answer)
	}
}

func TestChain_SkipsUnavailable(t *testing.T) {
	off := &Mock{AvailableFunc: func() bool { return false }}
	on := &Mock{IdentifyFunc: func(context.Context, []byte, string) (string, error) {
		return "on", nil
	}}

	chain, _ := NewChain(off, on)
	if !chain.Available() {
		t.Error("chain with one available analyzer reports unavailable")
	}

	answer, err := chain.Identify(context.Background(), nil, "q")
	if err != nil || answer != "on" {
		t.Errorf("got (%q,%v), want (on,nil)", answer, err)
	}
	if len(off.Calls()) != 0 {
		t.Error("unavailable analyzer was invoked")
	}
}

func TestChain_AllFail(t *testing.T) {
	boom := func(context.Context, []byte, string) (string, error) {
		return "", errors.New("boom")
	}
	chain, _ := NewChain(&Mock{IdentifyFunc: boom}, &Mock{IdentifyFunc: boom})

	if _, err := chain.Identify(context.Background(), nil, "q"); err != ErrAllAnalyzersFailed {
		t.Errorf("got err %v, want ErrAllAnalyzersFailed", err)
	}
}

func TestChain_NoneAvailable(t *testing.T) {
	off := func() bool { return false }
	chain, _ := NewChain(&Mock{AvailableFunc: off}, &Mock{AvailableFunc: off})

	if chain.Available() {
		t.Error("chain with no available analyzers reports available")
	}
	if _, err := chain.Identify(context.Background(), nil, "q"); err != ErrUnavailable {
		t.Errorf("got err %v, want ErrUnavailable", err)
	}
}
