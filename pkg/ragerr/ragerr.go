// Package ragerr defines the error kinds shared by the catalog, index, and
// service layers.
//
// Each kind has a matching sentinel (ErrNotFound, ErrConflict, ...) so callers
// can test with errors.Is, plus a concrete *Error carrying a message and the
// kind so HTTP handlers can map it to a status code without string matching.
package ragerr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// KindNotFound means a referenced id does not exist in the Catalog.
	KindNotFound Kind = iota
	// KindConflict means a library name is already in use.
	KindConflict
	// KindDimensionMismatch means a vector's length disagrees with the
	// index's fixed dimension D.
	KindDimensionMismatch
	// KindUpstream means the embedding provider failed.
	KindUpstream
	// KindConfig means an unknown index or chunker type was requested at
	// startup. Config errors are fatal.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindUpstream:
		return "upstream"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is. Error.Is matches any *Error of the same
// Kind against these, regardless of message.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrDimensionMismatch = &Error{Kind: KindDimensionMismatch, Message: "dimension mismatch"}
	ErrUpstream          = &Error{Kind: KindUpstream, Message: "upstream embedding provider error"}
	ErrConfig            = &Error{Kind: KindConfig, Message: "invalid configuration"}
)

// Error is a classified error carrying enough context for a caller to decide
// an HTTP status code (or a fatal exit, for KindConfig) without parsing
// strings.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Kind, so that
// errors.Is(err, ragerr.ErrNotFound) works regardless of the message or
// wrapped cause carried by err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound builds a KindNotFound error with a formatted message.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error with a formatted message.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// DimensionMismatch builds a KindDimensionMismatch error.
func DimensionMismatch(expected, got int) error {
	return &Error{Kind: KindDimensionMismatch, Message: fmt.Sprintf("expected dimension %d, got %d", expected, got)}
}

// Upstream wraps an embedding-provider failure as KindUpstream.
func Upstream(err error) error {
	return &Error{Kind: KindUpstream, Message: "embedding provider failed", Err: err}
}

// Config builds a KindConfig error with a formatted message. Config errors
// are fatal at startup.
func Config(format string, args ...any) error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// As is a small convenience wrapper over errors.As for *Error, used by the
// HTTP layer to recover the Kind of an arbitrary wrapped error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
