package vision

import (
	"context"
	"log/slog"
)

// Chain tries multiple analyzers in order until one succeeds.
type Chain struct {
	analyzers []Analyzer
	logger    *slog.Logger
}

// NewChain creates an analyzer chain.
// At least one analyzer is required.
func NewChain(analyzers ...Analyzer) (*Chain, error) {
	if len(analyzers) == 0 {
		return nil, ErrUnavailable
	}
	return &Chain{
		analyzers: analyzers,
		logger:    slog.Default().With("component", "vision.chain"),
	}, nil
}

// Available reports whether any analyzer in the chain is configured.
func (c *Chain) Available() bool {
	for _, a := range c.analyzers {
		if a.Available() {
			return true
		}
	}
	return false
}

// Name identifies the backend.
func (c *Chain) Name() string { return "chain" }

// Identify tries each available analyzer until one succeeds.
func (c *Chain) Identify(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	tried := 0

	for i, a := range c.analyzers {
		if !a.Available() {
			continue
		}
		tried++

		answer, err := a.Identify(ctx, jpeg, prompt)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback analyzer succeeded", "analyzer", a.Name())
			}
			return answer, nil
		}

		c.logger.Warn("analyzer failed, trying next",
			"analyzer", a.Name(),
			"error", err,
		)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	if tried == 0 {
		return "", ErrUnavailable
	}
	return "", ErrAllAnalyzersFailed
}

// Verify Chain implements Analyzer at compile time.
var _ Analyzer = (*Chain)(nil)
