package relay

import (
	"fmt"
	"time"
)

// RateLimitedError is returned by a relay client when an endpoint answered
// HTTP 429. RetryAfter carries the server-provided retry hint, zero when
// the response had none.
type RateLimitedError struct {
	Endpoint   string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("endpoint %s rate limited, retry after %s", e.Endpoint, e.RetryAfter)
	}
	return fmt.Sprintf("endpoint %s rate limited", e.Endpoint)
}

// ServerBusyError is returned by a relay client when an endpoint answered
// with a transient server-side failure (5xx class).
type ServerBusyError struct {
	Endpoint   string
	StatusCode int
}

func (e *ServerBusyError) Error() string {
	return fmt.Sprintf("endpoint %s server busy with status code %d", e.Endpoint, e.StatusCode)
}
