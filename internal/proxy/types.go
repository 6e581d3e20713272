package proxy

import "errors"

// ErrMalformedEnvelope marks a proxy response that is not a valid envelope.
var ErrMalformedEnvelope = errors.New("malformed proxy envelope")

// Envelope is the JSON wrapper returned by the retrieval proxy.
type Envelope struct {
	Success *bool  `json:"success"`
	Body    string `json:"body,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EnvelopeError is a failure the proxy reported with success=false.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "proxy reported failure"
	}
	return e.Message
}
