package github

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse indicates the transport did not yield a usable
// response envelope (connection refused, timeout, malformed envelope).
var ErrInvalidResponse = errors.New("github: invalid response")

// bodyPreviewLimit bounds how much of an error body is kept for
// diagnostics.
const bodyPreviewLimit = 200

// HTTPError is returned when the API answers with a status outside the
// 2xx range. The body is captured (truncated) for diagnostics.
type HTTPError struct {
	StatusCode  int
	BodyPreview string
}

func (e *HTTPError) Error() string {
	if e.BodyPreview == "" {
		return fmt.Sprintf("github: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.BodyPreview)
}

// AsHTTPError extracts an HTTPError from err's chain, or returns nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// DecodeError is returned when a response body does not match the
// expected JSON shape, including timestamps matching neither accepted
// format. It is deliberately distinct from HTTPError: a 200 with a
// broken body must not be mistaken for an upstream failure.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("github: decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err (or any error in its chain) is a
// DecodeError.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > bodyPreviewLimit {
		return s[:bodyPreviewLimit]
	}
	return s
}
