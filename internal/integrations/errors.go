package integrations

import (
	"errors"
	"fmt"
)

// ErrUpstream marks an upstream API that answered with an unexpected status.
var ErrUpstream = errors.New("upstream error")

// UpstreamError carries the upstream status and response text.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Body)
}

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
