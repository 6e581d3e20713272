package panel

import (
	"context"

	"github.com/five82/rsspanel/internal/feed"
)

// ConfigStore reads and writes the configuration blob the host keeps for a
// panel. ReadConfig returns (nil, nil) when the panel was never configured.
type ConfigStore interface {
	ReadConfig(ctx context.Context) (*Configuration, error)
	StoreConfig(ctx context.Context, cfg Configuration) error
}

// Host is the dashboard runtime a panel lives in.
type Host interface {
	ConfigStore
	RemoveWidget()
	EnterConfigMode()
	ExitConfigMode() error
}

// Registrar is implemented by hosts that trigger panel actions themselves.
type Registrar interface {
	RegisterWidgetAPI(h Handlers)
}

// Handlers lets a host trigger configuration and refresh.
type Handlers struct {
	OnConfigure func()
	OnRefresh   func()
}

// FeedFetcher loads and normalizes the feed at url.
// This interface is implemented by *feed.Fetcher.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, url string) ([]feed.Item, error)
}

var _ FeedFetcher = (*feed.Fetcher)(nil)
