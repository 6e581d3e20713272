package feed

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/rsspanel/internal/proxy"
)

// Fetcher retrieves a feed through the retrieval proxy and normalizes it.
type Fetcher struct {
	retriever proxy.Retriever
	parser    *Parser
	logger    *log.Logger
}

// NewFetcher wires a retriever to a parser. A nil parser uses NewParser().
func NewFetcher(retriever proxy.Retriever, parser *Parser, logger *log.Logger) *Fetcher {
	if parser == nil {
		parser = NewParser()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{retriever: retriever, parser: parser, logger: logger}
}

// FetchFeed returns the items of the feed at url. Failures are *FetchError or
// *ParseError; nothing is cached and nothing is retried.
func (f *Fetcher) FetchFeed(ctx context.Context, url string) ([]Item, error) {
	start := time.Now()
	body, err := f.retriever.Fetch(ctx, url)
	if err != nil {
		fetchErr := &FetchError{URL: url, Message: err.Error(), Err: err}
		var envErr *proxy.EnvelopeError
		if errors.As(err, &envErr) {
			fetchErr.Message = envErr.Error()
		}
		f.logger.Warn("feed fetch failed", "url", url, "error", err, "elapsed", time.Since(start))
		return nil, fetchErr
	}

	items, err := f.parser.Parse(body)
	if err != nil {
		f.logger.Warn("feed parse failed", "url", url, "error", err)
		return nil, err
	}

	f.logger.Info("feed loaded", "url", url, "items", len(items), "elapsed", time.Since(start))
	return items, nil
}
