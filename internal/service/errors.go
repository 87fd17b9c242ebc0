package service

import "errors"

var (
	// ErrNetwork covers transport failures, timeouts and non-2xx replies.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse means the body is not the expected daily shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmptyResult means a well-formed reply without usable rows.
	ErrEmptyResult = errors.New("empty result")
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	default:
		return "unknown"
	}
}
