package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Origin classifies where a request failed
type Origin string

const (
	// OriginTransport covers DNS, connection and timeout errors
	OriginTransport Origin = "transport"
	// OriginServer covers non-2xx responses
	OriginServer Origin = "server"
	// OriginDecode covers 2xx responses whose body could not be decoded
	OriginDecode Origin = "decode"
)

// Failure is the error returned for every unsuccessful exchange
type Failure struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Origin  Origin `json:"origin"`

	err error
}

func newTransportFailure(err error) *Failure {
	return &Failure{Origin: OriginTransport, Message: err.Error(), err: err}
}

func newServerFailure(status int, message string) *Failure {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &Failure{Status: status, Message: message, Origin: OriginServer}
}

func newDecodeFailure(status int, err error) *Failure {
	return &Failure{
		Status:  status,
		Message: fmt.Sprintf("failed to decode response: %v", err),
		Origin:  OriginDecode,
		err:     err,
	}
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s failure (status %d): %s", f.Origin, f.Status, f.Message)
	}
	return fmt.Sprintf("%s failure: %s", f.Origin, f.Message)
}

// Unwrap returns the underlying cause, if any
func (f *Failure) Unwrap() error {
	return f.err
}

// Transient reports whether a later attempt could plausibly succeed:
// transport errors, 5xx and 429.
func (f *Failure) Transient() bool {
	switch f.Origin {
	case OriginTransport:
		return true
	case OriginServer:
		return f.Status >= 500 || f.Status == http.StatusTooManyRequests
	default:
		return false
	}
}

// AsFailure extracts a *Failure from an error chain
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
