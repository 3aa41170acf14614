package fetcher

import (
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed fetch.
type Kind string

const (
	// KindNetwork covers rejected requests: transport errors and non-2xx
	// responses.
	KindNetwork Kind = "network_failure"
	// KindMalformed covers payloads that are not a JSON array.
	KindMalformed Kind = "malformed_payload"
)

// Error is returned by every failed fetch.
type Error struct {
	Kind   Kind
	Path   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetcher: %s %s (status %d): %v", e.Kind, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("fetcher: %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// IsNetwork reports whether err is a network failure.
func IsNetwork(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNetwork
}

// IsMalformed reports whether err is a malformed payload.
func IsMalformed(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindMalformed
}

// IsTimeout reports whether err was caused by a network timeout.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
