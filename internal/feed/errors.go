package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed matches any *FetchError.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrParseFailed matches any *ParseError.
	ErrParseFailed = errors.New("parse failed")
	// ErrUnsupportedFormat is wrapped by a *ParseError when the document is a
	// feed format other than RSS, such as Atom or JSON Feed.
	ErrUnsupportedFormat = errors.New("unsupported feed format")
)

// FetchError reports a transport problem, a non-2xx proxy response, a
// malformed proxy envelope, or a failure the proxy itself reported.
type FetchError struct {
	URL     string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// ParseError reports a document that was retrieved but could not be
// normalized into items.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse feed: %s: %v", e.Message, e.Err)
	}
	return "parse feed: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParseFailed }

func parseErr(msg string, err error) error {
	return &ParseError{Message: msg, Err: err}
}
