package panel

import (
	"errors"

	"github.com/five82/rsspanel/internal/feed"
)

// Mode is the coarse lifecycle stage of a panel.
type Mode int

const (
	ModeUnconfigured Mode = iota
	ModeConfiguring
	ModeReady
)

func (m Mode) String() string {
	switch m {
	case ModeUnconfigured:
		return "unconfigured"
	case ModeConfiguring:
		return "configuring"
	case ModeReady:
		return "ready"
	default:
		return "unknown"
	}
}

// ErrorKind classifies a failure shown by the panel.
type ErrorKind int

const (
	ConfigReadFailed ErrorKind = iota + 1
	ConfigWriteFailed
	FetchFailed
	ParseFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ConfigReadFailed:
		return "config read failed"
	case ConfigWriteFailed:
		return "config write failed"
	case FetchFailed:
		return "fetch failed"
	case ParseFailed:
		return "parse failed"
	default:
		return "unknown failure"
	}
}

// ErrorInfo describes the last failure. Message keeps the underlying detail
// for diagnostics; Summary is what users are shown.
type ErrorInfo struct {
	Kind    ErrorKind
	Message string
}

// Summary returns the generic user-facing description of the failure.
func (e ErrorInfo) Summary() string {
	switch e.Kind {
	case ConfigReadFailed:
		return "Panel settings could not be read"
	case ConfigWriteFailed:
		return "Panel settings could not be saved"
	default:
		return "Requested feed could not be loaded"
	}
}

func newErrorInfo(kind ErrorKind, err error) *ErrorInfo {
	info := &ErrorInfo{Kind: kind, Message: kind.String()}
	if err != nil {
		info.Message = err.Error()
	}
	var fetchErr *feed.FetchError
	if errors.As(err, &fetchErr) {
		info.Message = fetchErr.Message
	}
	return info
}

// classifyRefreshError maps a fetcher failure onto a kind. Anything that is
// not a parse failure is reported as a fetch failure.
func classifyRefreshError(err error) ErrorKind {
	if errors.Is(err, feed.ErrParseFailed) {
		return ParseFailed
	}
	return FetchFailed
}

// Configuration is the opaque blob the host persists for a panel.
type Configuration struct {
	FeedURL string `json:"feedUrl" toml:"feed_url"`
}

// State is the complete observable condition of a panel.
//
// Items is non-nil only when Mode is ModeReady and LastError is nil.
// LastError is non-nil only when Mode is ModeReady and Items is nil.
type State struct {
	Mode      Mode
	FeedURL   string
	Draft     string
	Loading   bool
	LastError *ErrorInfo
	Items     []feed.Item
	Revision  uint64
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	dup := s
	dup.Items = feed.CloneItems(s.Items)
	if s.LastError != nil {
		errCopy := *s.LastError
		dup.LastError = &errCopy
	}
	return dup
}

// result is a parked refresh outcome held while the panel is configuring.
type result struct {
	items []feed.Item
	err   *ErrorInfo
}
