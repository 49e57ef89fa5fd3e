package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgpai22/subplay/internal/logging"
)

var ErrNoSource = errors.New("no subtitle source succeeded")

// Source supplies raw subtitle script text.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (string, error)
}

// Document is the text a chain produced and which source produced it.
type Document struct {
	Source string
	Text   string
}

// Chain tries each source in order and returns the first success.
type Chain struct {
	sources []Source
	timeout time.Duration
	logger  *logging.Logger
}

// NewChain builds a chain. A positive timeout bounds every single fetch.
func NewChain(logger *logging.Logger, timeout time.Duration, sources ...Source) *Chain {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Chain{
		sources: sources,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *Chain) Load(ctx context.Context) (*Document, error) {
	var errs []error

	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := c.fetch(ctx, src)
		if err != nil {
			c.logger.Warnw("Subtitle source failed, falling back",
				"source", src.Name(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		c.logger.Debugw("Subtitle source loaded",
			"source", src.Name(),
			"bytes", len(text),
		)
		return &Document{Source: src.Name(), Text: text}, nil
	}

	if len(errs) == 0 {
		return nil, ErrNoSource
	}
	return nil, fmt.Errorf("%w: %w", ErrNoSource, errors.Join(errs...))
}

func (c *Chain) fetch(ctx context.Context, src Source) (string, error) {
	if c.timeout <= 0 {
		return src.Fetch(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return src.Fetch(ctx)
}

// Options picks which sources a default chain tries.
type Options struct {
	AssetPath string
	URL       string
	Timeout   time.Duration
	// EmbeddedOnly skips straight to the built-in script.
	EmbeddedOnly bool
}

// NewDefaultChain builds the local asset → remote → embedded chain,
// leaving out sources that are not configured.
func NewDefaultChain(logger *logging.Logger, opts Options) *Chain {
	var sources []Source
	if !opts.EmbeddedOnly {
		if opts.AssetPath != "" {
			sources = append(sources, NewFileSource(opts.AssetPath))
		}
		if opts.URL != "" {
			sources = append(sources, NewHTTPSource(opts.URL, nil))
		}
	}
	sources = append(sources, NewEmbeddedSource())

	return NewChain(logger, opts.Timeout, sources...)
}
